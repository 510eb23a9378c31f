// Package notifytest provides an in-memory notification server for tests.
package notifytest

import (
	"context"
	"sync"

	"github.com/llehouerou/simple-osd/internal/notify"
)

// Recorder is a notify.Service that keeps every request it receives.
// Replacing a live notification keeps its ID, as real servers do.
type Recorder struct {
	mu      sync.Mutex
	next    notify.ID
	live    map[notify.ID]bool
	sent    []notify.Notification
	closed  []notify.ID
	waiters map[notify.ID][]chan notify.CloseReason

	// NotifyErr, when set, fails every Notify call.
	NotifyErr error
}

var _ notify.Service = (*Recorder)(nil)

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{
		live:    make(map[notify.ID]bool),
		waiters: make(map[notify.ID][]chan notify.CloseReason),
	}
}

func (r *Recorder) Notify(_ context.Context, n notify.Notification) (notify.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.NotifyErr != nil {
		return 0, r.NotifyErr
	}
	r.sent = append(r.sent, n)
	if n.ReplacesID != 0 && r.live[n.ReplacesID] {
		return n.ReplacesID, nil
	}
	r.next++
	r.live[r.next] = true
	return r.next, nil
}

func (r *Recorder) Close(_ context.Context, id notify.ID) error {
	r.mu.Lock()
	r.closed = append(r.closed, id)
	r.mu.Unlock()

	r.Dismiss(id, notify.ReasonClosedByCall)
	return nil
}

func (r *Recorder) WatchClose(ctx context.Context, id notify.ID) (<-chan notify.CloseReason, error) {
	ch := make(chan notify.CloseReason, 1)

	r.mu.Lock()
	r.waiters[id] = append(r.waiters[id], ch)
	r.mu.Unlock()

	context.AfterFunc(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		ws := r.waiters[id]
		for i, w := range ws {
			if w == ch {
				r.waiters[id] = append(ws[:i:i], ws[i+1:]...)
				break
			}
		}
	})
	return ch, nil
}

func (r *Recorder) Capabilities(context.Context) ([]string, error) {
	return []string{"body", "body-markup"}, nil
}

func (r *Recorder) ServerInfo(context.Context) (notify.ServerInfo, error) {
	return notify.ServerInfo{Name: "recorder", Vendor: "simple-osd", Version: "0", SpecVersion: "1.2"}, nil
}

func (r *Recorder) Shutdown() error {
	return nil
}

// Dismiss plays the server closing id for reason.
func (r *Recorder) Dismiss(id notify.ID, reason notify.CloseReason) {
	r.mu.Lock()
	delete(r.live, id)
	ws := r.waiters[id]
	delete(r.waiters, id)
	r.mu.Unlock()

	for _, ch := range ws {
		ch <- reason
	}
}

// Sent returns a copy of every notification received so far.
func (r *Recorder) Sent() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}

// Last returns the latest notification, and false if there is none.
func (r *Recorder) Last() (notify.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return notify.Notification{}, false
	}
	return r.sent[len(r.sent)-1], true
}

// Closed returns the IDs passed to Close.
func (r *Recorder) Closed() []notify.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.ID(nil), r.closed...)
}

// Live reports whether id is on screen.
func (r *Recorder) Live(id notify.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live[id]
}
