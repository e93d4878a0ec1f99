package store

import (
	"context"
	"sync"
)

// mailbox is a single hot-replaceable slot. put never blocks: a value not yet
// taken is overwritten by the next one.
type mailbox[V any] struct {
	mu     sync.Mutex
	latest V
	full   bool
	notify chan struct{}
}

func newMailbox[V any]() *mailbox[V] {
	return &mailbox[V]{notify: make(chan struct{}, 1)}
}

func (m *mailbox[V]) put(v V) {
	m.mu.Lock()
	m.latest = v
	m.full = true
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *mailbox[V]) take() (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	if !m.full {
		return zero, false
	}
	v := m.latest
	m.latest = zero
	m.full = false
	return v, true
}

// pump delivers mailbox values to out until ctx is done.
// While a value waits for the reader it is replaced by anything newer, so the
// reader only ever gets the latest value.
func pump[V, O any](ctx context.Context, box *mailbox[V], out chan<- O, conv func(V) O) {
	for {
		var pending O

		select {
		case <-ctx.Done():
			return
		case <-box.notify:
			v, ok := box.take()
			if !ok {
				continue
			}
			pending = conv(v)
		}

	send:
		for {
			select {
			case <-ctx.Done():
				return
			case out <- pending:
				break send
			case <-box.notify:
				if v, ok := box.take(); ok {
					pending = conv(v)
				}
			}
		}
	}
}
