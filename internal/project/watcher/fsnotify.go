package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/dshills/gaptext/internal/logging"
)

// Watcher watches document files using fsnotify.
type Watcher struct {
	mu sync.RWMutex

	// fsnotify watcher
	watcher *fsnotify.Watcher

	// Configuration
	config Config
	logger *logging.Logger

	// Tracked files (absolute path to document) and the reference count
	// of each parent directory registered with fsnotify.
	files map[string]uuid.UUID
	dirs  map[string]int

	// Output channels
	events chan Event
	errors chan error

	debounce *debouncer

	// Stats
	startTime   time.Time
	totalEvents atomic.Int64
	totalErrors atomic.Int64
	errMu       sync.Mutex
	lastError   error

	// Lifecycle
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	bufSize := config.BufferSize
	if bufSize <= 0 {
		bufSize = 100
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	w := &Watcher{
		watcher:   fsw,
		config:    config,
		logger:    logger.WithComponent("watcher"),
		files:     make(map[string]uuid.UUID),
		dirs:      make(map[string]int),
		events:    make(chan Event, bufSize),
		errors:    make(chan error, bufSize),
		startTime: time.Now(),
		closeCh:   make(chan struct{}),
	}
	if config.Debounce > 0 {
		w.debounce = newDebouncer(config.Debounce, w.sendEvent)
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Add starts watching the file at path on behalf of document id.
func (w *Watcher) Add(id uuid.UUID, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}
	if !info.Mode().IsRegular() {
		return ErrNotRegularFile
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if _, ok := w.files[absPath]; ok {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[absPath] = id

	w.logger.WithFields(map[string]any{"doc": id.String(), "path": absPath}).Debug("watching")
	return nil
}

// Remove stops watching the file at path.
func (w *Watcher) Remove(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if _, ok := w.files[absPath]; !ok {
		return ErrNotWatching
	}
	delete(w.files, absPath)
	if w.debounce != nil {
		w.debounce.drop(absPath)
	}

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	// The directory may already be gone, which fsnotify reports as an error.
	if err := w.watcher.Remove(dir); err != nil {
		w.logger.Debug("unwatch %s: %v", dir, err)
	}
	return nil
}

// Events returns the event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Flush delivers every debounced event immediately.
func (w *Watcher) Flush() {
	if w.debounce != nil {
		w.debounce.flush()
	}
}

// Close stops the watcher. Pending debounced events are discarded.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	// Wait for processLoop to finish
	w.closedWg.Wait()
	if w.debounce != nil {
		w.debounce.stop()
	}

	// sendEvent holds the read lock while sending.
	w.mu.Lock()
	close(w.events)
	close(w.errors)
	w.mu.Unlock()

	return w.watcher.Close()
}

// Stats returns watcher statistics.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	files, dirs := len(w.files), len(w.dirs)
	w.mu.RUnlock()

	w.errMu.Lock()
	lastErr := w.lastError
	w.errMu.Unlock()

	pending := 0
	if w.debounce != nil {
		pending = w.debounce.pendingCount()
	}

	return Stats{
		WatchedFiles:  files,
		WatchedDirs:   dirs,
		PendingEvents: pending,
		TotalEvents:   w.totalEvents.Load(),
		Errors:        w.totalErrors.Load(),
		LastError:     lastErr,
		StartTime:     w.startTime,
	}
}

// IsWatching returns true if the file at path is being watched.
func (w *Watcher) IsWatching(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.files[absPath]
	return ok
}

// WatchedFiles returns all watched file paths in sorted order.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("fsnotify: %v", err)
			w.recordError(err)
			w.sendError(err)
		}
	}
}

// handleFSEvent converts an fsnotify event for a watched file.
// Events for other files in the same directory are discarded.
func (w *Watcher) handleFSEvent(fsEvent fsnotify.Event) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	path := filepath.Clean(fsEvent.Name)
	w.mu.RLock()
	id, ok := w.files[path]
	w.mu.RUnlock()
	if !ok {
		return
	}

	event := Event{
		DocID:     id,
		Path:      path,
		Op:        op,
		Timestamp: time.Now(),
	}
	w.logger.WithField("doc", id.String()).Debug("%s %s", op, path)

	if w.debounce != nil {
		w.debounce.add(event)
		return
	}
	w.sendEvent(event)
}

// convertOp converts fsnotify.Op to watcher.Op.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}

// sendEvent sends an event to the output channel unless the watcher is closed.
func (w *Watcher) sendEvent(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return
	}
	select {
	case w.events <- event:
		w.totalEvents.Add(1)
	default:
		w.recordError(ErrEventDropped)
		w.logger.Warn("dropping %s event for %s", event.Op, event.Path)
	}
}

// sendError sends an error to the output channel.
func (w *Watcher) sendError(err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return
	}
	select {
	case w.errors <- err:
	default:
		// Channel full, drop error
	}
}

// recordError records an error in stats.
func (w *Watcher) recordError(err error) {
	w.totalErrors.Add(1)
	w.errMu.Lock()
	w.lastError = err
	w.errMu.Unlock()
}

// Ensure Watcher implements Source.
var _ Source = (*Watcher)(nil)
