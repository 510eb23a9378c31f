// Package media shows the track of the active MPRIS player for a few seconds
// after it changes.
package media

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/simple-osd/internal/errmsg"
	"github.com/llehouerou/simple-osd/internal/mpris"
	"github.com/llehouerou/simple-osd/internal/notify"
	"github.com/llehouerou/simple-osd/internal/osd"
)

// displayTimeout keeps the notification up between two ticks; the monitor
// closes it itself once the display time is over.
const displayTimeout = 1000 // ms

// Monitor decides, tick by tick, whether the player is worth showing.
type Monitor struct {
	session *osd.Session
	display time.Duration
	log     zerolog.Logger

	trigger time.Time
	title   string
	status  types.PlaybackStatus

	armed     atomic.Bool // a close callback is pending
	dismissed atomic.Bool // the user closed the notification
}

// NewMonitor returns a monitor showing changes for display.
func NewMonitor(s *osd.Session, display time.Duration, log zerolog.Logger) *Monitor {
	s.Timeout = displayTimeout
	return &Monitor{session: s, display: display, log: log, status: types.PlaybackStatusStopped}
}

// Retrigger restarts the display time, as a track change would.
func (m *Monitor) Retrigger() {
	m.trigger = time.Now()
	m.dismissed.Store(false)
}

// Step handles one reading of the active player; ok is false when there is
// no player.
func (m *Monitor) Step(ctx context.Context, st mpris.Status, ok bool) {
	if !ok {
		st = mpris.Status{Playback: types.PlaybackStatusStopped}
	}
	title := st.Metadata.Title
	if title == "" {
		title = "Unknown"
	}
	if title != m.title || st.Playback != m.status {
		m.log.Debug().Str("title", title).Str("status", string(st.Playback)).Msg("player changed")
		m.Retrigger()
	}
	m.title = title
	m.status = st.Playback

	if time.Since(m.trigger) >= m.display || st.Playback == types.PlaybackStatusStopped || m.dismissed.Load() {
		if err := m.session.Close(ctx); err != nil {
			m.log.Warn().Msg(errmsg.Format(errmsg.OpNotificationClose, err))
		}
		return
	}

	m.show(ctx, st, title)
}

func (m *Monitor) show(ctx context.Context, st mpris.Status, title string) {
	artists, ok := FormatArtists(st.Metadata.Artist)
	if !ok {
		artists = "Unknown"
	}
	m.session.Title = fmt.Sprintf("%s: %s - %s", st.Playback, title, artists)
	m.session.Icon = icon(st.Playback)
	m.session.Contents = progress(st)

	if err := m.session.Update(ctx); err != nil {
		m.log.Warn().Msg(errmsg.Format(errmsg.OpNotificationShow, err))
		return
	}
	if m.armed.Swap(true) {
		return
	}
	err := m.session.OnClose(func(reason notify.CloseReason) {
		m.armed.Store(false)
		if reason == notify.ReasonDismissedByUser {
			m.log.Debug().Msg("dismissed, hiding until the next change")
			m.dismissed.Store(true)
		}
	})
	if err != nil {
		m.armed.Store(false)
		m.log.Warn().Msg(errmsg.Format(errmsg.OpNotificationWatch, err))
	}
}

func icon(status types.PlaybackStatus) string {
	switch status {
	case types.PlaybackStatusPlaying:
		return "media-playback-start"
	case types.PlaybackStatusPaused:
		return "media-playback-pause"
	default:
		return ""
	}
}

func progress(st mpris.Status) osd.Contents {
	position := time.Duration(st.Position) * time.Microsecond
	length := time.Duration(st.Metadata.Length) * time.Microsecond
	if length <= 0 {
		return osd.Progress{Ratio: 0, Label: osd.Text(FormatDuration(position))}
	}
	return osd.Progress{
		Ratio: float64(position) / float64(length),
		Label: osd.Text(FormatDuration(position) + " / " + FormatDuration(length)),
	}
}
