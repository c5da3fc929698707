package watcher

import (
	"sync"
	"time"
)

// debouncer coalesces events for the same path. An event is emitted once
// no further event for its path has arrived for delay.
type debouncer struct {
	delay time.Duration
	emit  func(Event)

	mu      sync.Mutex
	pending map[string]*pendingEvent
	stopped bool
}

// pendingEvent tracks a debounced event.
type pendingEvent struct {
	event Event
	timer *time.Timer
}

func newDebouncer(delay time.Duration, emit func(Event)) *debouncer {
	return &debouncer{
		delay:   delay,
		emit:    emit,
		pending: make(map[string]*pendingEvent),
	}
}

// add schedules event, merging it into a pending event for the same path.
func (d *debouncer) add(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if p, exists := d.pending[event.Path]; exists {
		p.event.Op |= event.Op
		p.event.Timestamp = event.Timestamp
		p.timer.Reset(d.delay)
		return
	}

	path := event.Path
	d.pending[path] = &pendingEvent{
		event: event,
		timer: time.AfterFunc(d.delay, func() { d.fire(path) }),
	}
}

// fire emits the pending event for path, if any.
func (d *debouncer) fire(path string) {
	d.mu.Lock()
	p, exists := d.pending[path]
	if !exists || d.stopped {
		d.mu.Unlock()
		return
	}
	delete(d.pending, path)
	d.mu.Unlock()

	d.emit(p.event)
}

// flush emits every pending event immediately.
func (d *debouncer) flush() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.pending))
	for path, p := range d.pending {
		p.timer.Stop()
		paths = append(paths, path)
	}
	d.mu.Unlock()

	for _, path := range paths {
		d.fire(path)
	}
}

// drop discards the pending event for path.
func (d *debouncer) drop(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[path]; ok {
		p.timer.Stop()
		delete(d.pending, path)
	}
}

// stop cancels all pending events. Later calls to add are ignored.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for path, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, path)
	}
}

func (d *debouncer) pendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
