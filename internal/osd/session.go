package osd

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/llehouerou/simple-osd/internal/errmsg"
	"github.com/llehouerou/simple-osd/internal/notify"
)

const category = "osd"

// Session is the notification a daemon keeps on screen.
//
// The exported fields are read by Update and belong to the caller's
// goroutine. Everything below mu is shared with the close watcher.
type Session struct {
	Title    string
	Icon     string
	Urgency  notify.Urgency
	Timeout  int32 // ms, -1 = server default
	Contents Contents

	notifier notify.Notifier
	render   RenderConfig
	log      zerolog.Logger

	mu      sync.Mutex
	id      notify.ID                // 0 while nothing is on screen
	gen     uint64                   // bumped by every successful Update
	stop    context.CancelFunc       // cancels the live watcher
	onClose func(notify.CloseReason) // armed close callback
}

// New returns a session with nothing shown yet.
func New(n notify.Notifier, cfg RenderConfig, timeout int32, log zerolog.Logger) *Session {
	return &Session{
		Urgency:  notify.UrgencyNormal,
		Timeout:  timeout,
		Contents: Simple(""),
		notifier: n,
		render:   cfg,
		log:      log.With().Str("component", "osd").Logger(),
	}
}

// ID returns the ID of the notification on screen, 0 if none.
func (s *Session) ID() notify.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Notification builds the request Update would send, without ReplacesID.
func (s *Session) Notification() notify.Notification {
	n := notify.Notification{
		Title:    s.Title,
		Body:     Render(s.Contents, s.render),
		Icon:     s.Icon,
		Timeout:  s.Timeout,
		Urgency:  s.Urgency,
		Category: category,
	}
	if p, ok := s.Contents.(Progress); ok && s.render.UseHint {
		v := HintValue(p.Ratio)
		n.Value = &v
	}
	return n
}

// Update shows the current contents, replacing the notification on screen if
// there is one. On failure the session is left as it was.
func (s *Session) Update(ctx context.Context) error {
	n := s.Notification()
	n.ReplacesID = s.ID()
	if n.ReplacesID != 0 {
		s.log.Trace().Uint32("id", uint32(n.ReplacesID)).Msg("replacing notification")
	}

	id, err := s.notifier.Notify(ctx, n)
	if err != nil {
		return notify.Wrap(notify.ErrShow, err)
	}
	if id == 0 {
		// notifications are unavailable, nothing to watch
		s.mu.Lock()
		s.gen++
		s.id = 0
		s.cancelWatcherLocked()
		cb := s.onClose
		s.onClose = nil
		s.mu.Unlock()

		if cb != nil {
			cb(notify.ReasonNotShown)
		}
		return nil
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	closed, werr := s.notifier.WatchClose(watchCtx, id)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.id = id
	s.cancelWatcherLocked()
	if werr == nil {
		s.stop = cancel
	}
	s.mu.Unlock()

	if werr != nil {
		cancel()
		return notify.Wrap(notify.ErrWatch, werr)
	}

	go s.watch(watchCtx, gen, id, closed)
	return nil
}

// TryUpdate is Update for loops that carry on regardless: failures are logged.
func (s *Session) TryUpdate(ctx context.Context) {
	if err := s.Update(ctx); err != nil {
		s.log.Warn().Msg(errmsg.Format(errmsg.OpNotificationShow, err))
	}
}

// Close asks the server to close the notification on screen. The ID is
// cleared once the server confirms, or right away when nothing watches it.
// Without a notification it does nothing.
func (s *Session) Close(ctx context.Context) error {
	id := s.ID()
	if id == 0 {
		return nil
	}
	if err := s.notifier.Close(ctx, id); err != nil {
		return notify.Wrap(notify.ErrClose, err)
	}

	s.mu.Lock()
	if s.stop != nil || s.id != id {
		s.mu.Unlock()
		return nil
	}
	// no watcher will ever report this close
	s.gen++
	s.id = 0
	cb := s.onClose
	s.onClose = nil
	s.mu.Unlock()

	s.log.Trace().Uint32("id", uint32(id)).Msg("closed an unwatched notification, resetting id")
	if cb != nil {
		cb(notify.ReasonClosedByCall)
	}
	return nil
}

// OnClose arms cb to run once when the notification on screen goes away,
// replacing any callback armed before. If nothing is on screen cb runs now.
func (s *Session) OnClose(cb func(notify.CloseReason)) error {
	s.mu.Lock()
	if s.id == 0 {
		s.mu.Unlock()
		s.log.Debug().Msg("notification is already closed, calling immediately")
		cb(notify.ReasonNotShown)
		return nil
	}
	if s.stop == nil {
		id := s.id
		s.mu.Unlock()
		return &notify.Error{
			Kind: notify.ErrWatch,
			Err:  fmt.Errorf("nothing watches notification %d", id),
		}
	}
	if s.onClose != nil {
		s.log.Debug().Uint32("id", uint32(s.id)).Msg("replacing the pending close callback")
	}
	s.log.Trace().Uint32("id", uint32(s.id)).Msg("setting up a close callback")
	s.onClose = cb
	s.mu.Unlock()
	return nil
}

// Stop cancels the close watcher. The notification stays on screen.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelWatcherLocked()
}

func (s *Session) cancelWatcherLocked() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

func (s *Session) watch(ctx context.Context, gen uint64, id notify.ID, closed <-chan notify.CloseReason) {
	select {
	case <-ctx.Done():
	case reason, ok := <-closed:
		if ok {
			s.closed(gen, id, reason)
		}
	}
}

func (s *Session) closed(gen uint64, id notify.ID, reason notify.CloseReason) {
	s.mu.Lock()
	if gen != s.gen || id != s.id {
		s.mu.Unlock()
		s.log.Trace().Uint32("id", uint32(id)).Msg("ignoring close of a superseded notification")
		return
	}
	s.id = 0
	s.cancelWatcherLocked()
	cb := s.onClose
	s.onClose = nil
	s.mu.Unlock()

	s.log.Trace().Uint32("id", uint32(id)).Stringer("reason", reason).Msg("notification closed, resetting id")
	if cb != nil {
		cb(reason)
	}
}
