package trigger

import (
	"runtime"
	"sync"

	"digital.vasic.assert/pkg/logging"
)

// Handler receives a reported error and returns true when it has
// handled it. A handler returning false passes the error on to the
// next outer handler.
type Handler func(err *Error) bool

// Runtime dispatches reported errors to a stack of scoped handlers.
// Errors no handler accepts are logged and kept for inspection. It
// is safe for concurrent use.
type Runtime struct {
	mu        sync.Mutex
	handlers  []*Handle
	unhandled []*Error
	logger    logging.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for unhandled errors.
func WithLogger(l logging.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRuntime creates a Runtime with an empty handler stack.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{logger: logging.NullLogger{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle is returned by Install and releases the handler it
// installed.
type Handle struct {
	rt      *Runtime
	handler Handler
}

// Install pushes h on top of the handler stack. It stays active
// until the returned Handle is released.
func (r *Runtime) Install(h Handler) *Handle {
	handle := &Handle{rt: r, handler: h}

	r.mu.Lock()
	r.handlers = append(r.handlers, handle)
	r.mu.Unlock()

	return handle
}

// Release removes the handler from the stack, restoring whichever
// handler was active before it. Releasing twice is a no-op, and
// releasing out of order removes only this handler.
func (h *Handle) Release() {
	r := h.rt
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.handlers) - 1; i >= 0; i-- {
		if r.handlers[i] == h {
			r.handlers = append(r.handlers[:i], r.handlers[i+1:]...)
			return
		}
	}
}

// Depth returns the number of installed handlers.
func (r *Runtime) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}

// Trigger reports an error at the caller's location and returns
// whether a handler accepted it.
func (r *Runtime) Trigger(
	level Level,
	message string,
	context ...logging.Field,
) bool {
	_, file, line, _ := runtime.Caller(1)
	return r.Report(NewError(level, message, file, line, context...))
}

// TriggerAt reports an error at an explicit location.
func (r *Runtime) TriggerAt(
	level Level,
	message string,
	file string,
	line int,
	context ...logging.Field,
) bool {
	return r.Report(NewError(level, message, file, line, context...))
}

// Report dispatches err to the installed handlers, innermost first.
// Handlers run without the runtime lock held, so they may report
// further errors themselves.
func (r *Runtime) Report(err *Error) bool {
	r.mu.Lock()
	handlers := make([]*Handle, len(r.handlers))
	copy(handlers, r.handlers)
	r.mu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		if handlers[i].handler(err) {
			return true
		}
	}

	r.mu.Lock()
	r.unhandled = append(r.unhandled, err)
	r.mu.Unlock()

	r.logUnhandled(err)
	return false
}

// Unhandled returns the errors no handler accepted, oldest first.
func (r *Runtime) Unhandled() []*Error {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Error, len(r.unhandled))
	copy(out, r.unhandled)
	return out
}

// Capture runs fn with a handler that keeps the first reported
// error. Later errors are declined and reach the outer handlers.
// The handler is released on every exit path, including panics.
func (r *Runtime) Capture(fn func()) *Error {
	return r.watch(fn, true)
}

// Observe runs fn and returns the first error reported meanwhile
// without handling it: every report still reaches the outer
// handlers or the unhandled list.
func (r *Runtime) Observe(fn func()) *Error {
	return r.watch(fn, false)
}

func (r *Runtime) watch(fn func(), accept bool) *Error {
	var (
		mu    sync.Mutex
		first *Error
	)

	handle := r.Install(func(err *Error) bool {
		mu.Lock()
		defer mu.Unlock()
		if first != nil {
			return false
		}
		first = err
		return accept
	})
	defer handle.Release()

	fn()

	mu.Lock()
	defer mu.Unlock()
	return first
}

func (r *Runtime) logUnhandled(err *Error) {
	fields := append([]logging.Field{
		logging.StringField("level", err.Name()),
		logging.StringField("file", err.File()),
		logging.IntField("line", err.Line()),
	}, err.Context()...)

	switch {
	case err.Level().isError():
		r.logger.Error(err.Message(), fields...)
	case err.Level().isWarning():
		r.logger.Warn(err.Message(), fields...)
	default:
		r.logger.Info(err.Message(), fields...)
	}
}
