package storage

import "sync"

// wakeHub fans a "something changed" pulse out to every subscriber. A
// pending pulse absorbs further ones, so a slow subscriber sees one wake-up
// for a burst and then reads the whole burst from the change log.
type wakeHub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newWakeHub() *wakeHub {
	return &wakeHub{subs: make(map[chan struct{}]struct{})}
}

func (h *wakeHub) subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

func (h *wakeHub) notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
