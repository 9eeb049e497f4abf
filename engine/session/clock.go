package session

import "time"

// Clock schedules the next tick. Tests substitute a Clock whose channel they fire by hand.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
