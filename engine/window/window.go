package window

import (
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNotInitialized is returned when a platform call is made on a window without a platform handle.
var ErrNotInitialized = errors.New("window is not initialized")

// Window provides a fixed-size platform window and the surface descriptor the renderer draws into.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed or a close was requested
	IsRunning() bool

	// RequestClose asks the message loop to exit. Safe to call from any goroutine.
	RequestClose()

	// Close closes the window and releases platform resources. Must be called on the thread that
	// created the window, after ProcessMessages has returned.
	//
	// Returns:
	//   - error: ErrNotInitialized if the window has no platform handle
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed or RequestClose is called. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the window framebuffer width in pixels.
	Width() int

	// Height returns the window framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width and height are the framebuffer size in pixels. They are fixed for the window's lifetime.
	width  int
	height int

	// closeRequested is set by RequestClose and checked every loop iteration.
	closeRequested atomic.Bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:  "oxy-torus",
		width:  300,
		height: 300,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	if w.closeRequested.Load() {
		return false
	}
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	if w.closeRequested.CompareAndSwap(false, true) {
		platformWake(w)
	}
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
