package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-torus/common"
	"github.com/Carmen-Shannon/oxy-torus/engine/config"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer"
	"github.com/Carmen-Shannon/oxy-torus/engine/session"
	"github.com/Carmen-Shannon/oxy-torus/engine/window"
)

// engine implements the Engine interface.
// Coordinates the window message loop and the session goroutine.
type engine struct {
	cfg config.Config

	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	session  session.RenderSession

	sessionOptions []session.SessionBuilderOption

	err error // set by the session goroutine, read after wg.Wait
}

// Engine hosts one render session in one window.
// It owns the window, the renderer and the session, and tears all three down when Run returns.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Session returns the render session.
	//
	// Returns:
	//   - session.RenderSession: the session instance
	Session() session.RenderSession

	// Run starts the session goroutine and processes window messages on the calling goroutine,
	// which must be the one that created the window. Blocks until the window closes, Quit is
	// called or the session fails.
	//
	// Returns:
	//   - error: the session's error, or nil after a clean shutdown
	Run() error

	// Quit signals the session and the message loop to stop.
	// Safe to call multiple times and from any goroutine; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates the window and renderer (unless supplied through options) and an idle session.
// Must be called on the main goroutine, since the window system binds to the calling OS thread.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the configuration is invalid or the window or renderer cannot be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		cfg:         config.Default(),
		quitChannel: make(chan struct{}),
		wg:          sync.WaitGroup{},
	}

	for _, opt := range options {
		opt(e)
	}

	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	if e.window == nil {
		w, err := window.NewWindow(e.cfg.WindowOptions()...)
		if err != nil {
			return nil, fmt.Errorf("create window: %w", err)
		}
		e.window = w
	}

	if e.renderer == nil {
		r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, e.window, e.cfg.RendererOptions()...)
		if err != nil {
			_ = e.window.Close()
			return nil, err
		}
		e.renderer = r
	}

	opts := append(e.cfg.SessionOptions(),
		session.WithCanvasSize(uint32(e.window.Width()), uint32(e.window.Height())))
	opts = append(opts, e.sessionOptions...)
	e.session = session.NewRenderSession(e.renderer, opts...)

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Session() session.RenderSession {
	return e.session
}

func (e *engine) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e.wg.Add(2)
	go e.handleSession(ctx)
	go e.handleQuit(cancel)

	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()

	e.session.Release()
	e.renderer.Release()
	if err := e.window.Close(); err != nil {
		common.Logger().Warn("window close failed", "error", err)
	}
	return e.err
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleSession runs the session's frame loop in its own goroutine.
// A session that stops on its own, by error or panic, brings the whole engine down.
func (e *engine) handleSession(ctx context.Context) {
	defer e.wg.Done()
	defer e.signalQuit()
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("session goroutine recovered from panic", "panic", r)
			e.err = fmt.Errorf("%w: panic: %v", session.ErrSubmission, r)
		}
	}()

	e.err = e.session.Start(ctx)
}

// handleQuit blocks until the quit channel is closed, then cancels the session and wakes the
// message loop.
func (e *engine) handleQuit(cancel context.CancelFunc) {
	defer e.wg.Done()
	<-e.quitChannel
	cancel()
	e.window.RequestClose()
}
