package fs

import (
	"sync"
	"time"

	"github.com/aretw0/cell/pkg/core"
)

// debouncer coalesces bursts of events for the same ID into one delivery.
// Editors and atomic renames typically produce several events per save.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]core.Event
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]core.Event),
	}
}

// add schedules fire(e) after the delay, replacing any event still pending for e.ID.
// A pending CREATE is not downgraded to MODIFY.
func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if prev, ok := d.pending[e.ID]; ok {
		if prev.Type == core.EventCreate && e.Type == core.EventModify {
			e.Type = core.EventCreate
		}
		if t := d.timers[e.ID]; t != nil && t.Stop() {
			d.wg.Done()
		}
	}
	d.pending[e.ID] = e

	var t *time.Timer
	d.wg.Add(1)
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.timers[e.ID] != t {
			d.mu.Unlock()
			return
		}
		ev := d.pending[e.ID]
		delete(d.timers, e.ID)
		delete(d.pending, e.ID)
		d.mu.Unlock()

		fire(ev)
	})
	d.timers[e.ID] = t
}

// stopAndWait rejects new events, cancels pending ones and waits for in-flight
// deliveries, up to timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for id, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, id)
		delete(d.pending, id)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
