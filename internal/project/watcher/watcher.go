// Package watcher reports external modifications to open document files.
//
// Each file is watched through its parent directory so that editors which
// save by writing a new file and renaming it over the old one are still
// seen. Events are tagged with the ID of the document that registered the
// path and, optionally, debounced so a burst of writes arrives as one
// event. The watcher never touches documents itself; receivers decide
// whether to reload.
package watcher

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/gaptext/internal/logging"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
	ErrNotRegularFile  = errors.New("path is not a regular file")
	ErrEventDropped    = errors.New("event channel full, dropping event")
)

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates the file was created (or renamed into place).
	OpCreate Op = 1 << iota
	// OpWrite indicates the file was written to.
	OpWrite
	// OpRemove indicates the file was removed.
	OpRemove
	// OpRename indicates the file was renamed away.
	OpRename
	// OpChmod indicates file permissions were changed.
	OpChmod
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

// String returns the names of the set operations joined with "|".
func (op Op) String() string {
	var names []string
	for _, n := range opNames {
		if op.Has(n.op) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(names, "|")
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return o != 0 && op&o == o
}

// Event represents a change to a watched document file.
type Event struct {
	// DocID identifies the document that registered the path.
	DocID uuid.UUID

	// Path is the absolute path of the file.
	Path string

	// Op is the operation that occurred. Debounced events carry every
	// operation seen during the window.
	Op Op

	// Timestamp is when the last contributing change occurred.
	Timestamp time.Time
}

// Gone reports whether the file no longer exists under its path.
func (e Event) Gone() bool {
	return e.Op.Has(OpRemove) || e.Op.Has(OpRename)
}

// Stats provides watcher status information.
type Stats struct {
	// WatchedFiles is the number of document files registered.
	WatchedFiles int

	// WatchedDirs is the number of directories registered with fsnotify.
	WatchedDirs int

	// PendingEvents is the number of events waiting in the debounce window.
	PendingEvents int

	// TotalEvents is the total number of events delivered.
	TotalEvents int64

	// Errors is the total number of errors encountered.
	Errors int64

	// LastError is the most recent error, if any.
	LastError error

	// StartTime is when the watcher was started.
	StartTime time.Time
}

// Config holds watcher configuration options.
type Config struct {
	// Debounce is the quiet period before an event is delivered.
	// Events for the same file within this window are coalesced.
	// Zero delivers every event immediately.
	// Default: 100ms
	Debounce time.Duration

	// BufferSize is the size of the event and error channels.
	// Default: 100
	BufferSize int

	// Logger receives debug and warning output. Default: discard.
	Logger *logging.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Debounce:   100 * time.Millisecond,
		BufferSize: 100,
	}
}

// Option configures a watcher.
type Option func(*Config)

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.Debounce = d
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.BufferSize = size
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// Source is anything that produces watcher events and errors.
type Source interface {
	Events() <-chan Event
	Errors() <-chan error
}

// Handler is a function that handles document file events.
type Handler func(event Event)

// ErrorHandler is a function that handles watcher errors.
type ErrorHandler func(err error)

// Dispatcher fans events from a Source out to registered handlers.
// Handlers run on the goroutine that calls Run.
type Dispatcher struct {
	handlers      []Handler
	errorHandlers []ErrorHandler
}

// NewDispatcher creates a new dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// OnEvent registers a handler for file events.
func (d *Dispatcher) OnEvent(handler Handler) {
	d.handlers = append(d.handlers, handler)
}

// OnError registers a handler for errors.
func (d *Dispatcher) OnError(handler ErrorHandler) {
	d.errorHandlers = append(d.errorHandlers, handler)
}

// Dispatch sends an event to all handlers.
func (d *Dispatcher) Dispatch(event Event) {
	for _, handler := range d.handlers {
		handler(event)
	}
}

// DispatchError sends an error to all error handlers.
func (d *Dispatcher) DispatchError(err error) {
	for _, handler := range d.errorHandlers {
		handler(err)
	}
}

// Run dispatches events from src until ctx is cancelled or src's
// channels are closed. It returns ctx.Err() on cancellation and nil
// when the source closes.
func (d *Dispatcher) Run(ctx context.Context, src Source) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-src.Events():
			if !ok {
				return nil
			}
			d.Dispatch(event)
		case err, ok := <-src.Errors():
			if !ok {
				return nil
			}
			d.DispatchError(err)
		}
	}
}
