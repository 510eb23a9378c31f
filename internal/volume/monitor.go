package volume

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/llehouerou/simple-osd/internal/osd"
)

// Icon picks the themed icon for a volume level.
func Icon(muted bool, volume float64) string {
	switch {
	case muted:
		return "audio-volume-muted"
	case volume < 0.33:
		return "audio-volume-low"
	case volume < 0.66:
		return "audio-volume-medium"
	default:
		return "audio-volume-high"
	}
}

// Title names the sink, marking it when muted.
func Title(s Sink) string {
	name := s.Description
	if name == "" {
		name = "Unnamed sink"
	}
	title := "Volume on " + name
	if s.Muted {
		title += " [MUTED]"
	}
	return title
}

// Changed reports whether cur differs from prev in anything shown.
func Changed(prev, cur Sink) bool {
	return prev.Name != cur.Name ||
		prev.Description != cur.Description ||
		prev.Muted != cur.Muted ||
		math.Abs(prev.Volume-cur.Volume) > 1e-6
}

// Monitor shows the sink whenever it changes.
type Monitor struct {
	session *osd.Session
	last    Sink
	seen    bool
	log     zerolog.Logger
}

// NewMonitor returns a monitor; the first sink it sees is taken as the
// starting point and not shown.
func NewMonitor(s *osd.Session, log zerolog.Logger) *Monitor {
	return &Monitor{session: s, log: log}
}

// Step handles one reading of the default sink.
func (m *Monitor) Step(ctx context.Context, sink Sink) {
	if !m.seen {
		m.seen = true
		m.last = sink
		m.log.Debug().Str("sink", sink.Name).Float64("volume", sink.Volume).Msg("initial sink state")
		return
	}
	if !Changed(m.last, sink) {
		return
	}
	m.log.Trace().Str("sink", sink.Name).Float64("volume", sink.Volume).Bool("muted", sink.Muted).Msg("sink has been changed")
	m.last = sink

	m.session.Title = Title(sink)
	m.session.Icon = Icon(sink.Muted, sink.Volume)
	m.session.Contents = osd.Progress{Ratio: sink.Volume, Label: osd.Percentage{}}
	m.session.TryUpdate(ctx)
}
