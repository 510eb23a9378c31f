package notify

import (
	"context"
	"slices"
	"sync"
)

const recentClosesLimit = 64

// closeRegistry routes NotificationClosed events to the watchers of each ID.
//
// Closes that arrive while nobody watches the ID are kept (up to limit) so a
// watcher registered right after Notify returned still gets them.
type closeRegistry struct {
	mu       sync.Mutex
	waiters  map[ID]map[chan CloseReason]struct{}
	recent   map[ID]CloseReason
	order    []ID
	limit    int
	shutdown bool
}

func newCloseRegistry(limit int) *closeRegistry {
	return &closeRegistry{
		waiters: make(map[ID]map[chan CloseReason]struct{}),
		recent:  make(map[ID]CloseReason),
		limit:   limit,
	}
}

// watch registers a one-shot waiter for id, dropped when ctx is done.
// The returned channel is closed without a value if the registry shuts down.
func (r *closeRegistry) watch(ctx context.Context, id ID) <-chan CloseReason {
	ch := make(chan CloseReason, 1)

	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		close(ch)
		return ch
	}
	if reason, ok := r.recent[id]; ok {
		r.mu.Unlock()
		ch <- reason
		return ch
	}
	ws := r.waiters[id]
	if ws == nil {
		ws = make(map[chan CloseReason]struct{})
		r.waiters[id] = ws
	}
	ws[ch] = struct{}{}
	r.mu.Unlock()

	context.AfterFunc(ctx, func() { r.unwatch(id, ch) })
	return ch
}

func (r *closeRegistry) unwatch(id ID, ch chan CloseReason) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws := r.waiters[id]
	delete(ws, ch)
	if len(ws) == 0 {
		delete(r.waiters, id)
	}
}

// dispatch delivers a close event to every waiter of id.
func (r *closeRegistry) dispatch(id ID, reason CloseReason) {
	r.mu.Lock()
	ws := r.waiters[id]
	delete(r.waiters, id)
	if len(ws) == 0 {
		r.remember(id, reason)
	}
	r.mu.Unlock()

	for ch := range ws {
		ch <- reason
	}
}

// forget drops a remembered close, called once id is live again.
func (r *closeRegistry) forget(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.recent[id]; !ok {
		return
	}
	delete(r.recent, id)
	r.order = slices.DeleteFunc(r.order, func(o ID) bool { return o == id })
}

// remember must be called with mu held.
func (r *closeRegistry) remember(id ID, reason CloseReason) {
	if _, ok := r.recent[id]; !ok {
		r.order = append(r.order, id)
	}
	r.recent[id] = reason
	for len(r.order) > r.limit {
		delete(r.recent, r.order[0])
		r.order = r.order[1:]
	}
}

func (r *closeRegistry) watching(id ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiters[id])
}

// close wakes every waiter with a closed channel.
func (r *closeRegistry) close() {
	r.mu.Lock()
	waiters := r.waiters
	r.waiters = make(map[ID]map[chan CloseReason]struct{})
	r.shutdown = true
	r.mu.Unlock()

	for _, ws := range waiters {
		for ch := range ws {
			close(ch)
		}
	}
}
