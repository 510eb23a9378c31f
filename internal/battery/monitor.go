// Package battery warns about low battery and reports charging, reading the
// UPower display device.
package battery

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/llehouerou/simple-osd/internal/notify"
	"github.com/llehouerou/simple-osd/internal/osd"
)

// Level is what the daemon makes of a reading.
type Level int

const (
	LevelNormal Level = iota
	LevelCharging
	LevelLow
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelCharging:
		return "charging"
	case LevelLow:
		return "low"
	case LevelCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Classify places r against the two thresholds. Only a discharging or empty
// battery can be low.
func Classify(r Reading, low, critical Threshold) Level {
	switch r.State {
	case StateCharging:
		return LevelCharging
	case StateDischarging, StateEmpty:
	default:
		return LevelNormal
	}

	if critical.reached(r) {
		return LevelCritical
	}
	if low.reached(r) {
		return LevelLow
	}
	return LevelNormal
}

// Monitor turns successive readings into notifications.
type Monitor struct {
	session       *osd.Session
	low, critical Threshold
	last          Level
	log           zerolog.Logger
}

// NewMonitor returns a monitor that assumes the battery starts out normal.
func NewMonitor(s *osd.Session, low, critical Threshold, log zerolog.Logger) *Monitor {
	s.Icon = "battery"
	return &Monitor{session: s, low: low, critical: critical, log: log}
}

// Step handles one reading. Charging and low are announced once when entered;
// critical is repeated on every reading.
func (m *Monitor) Step(ctx context.Context, r Reading) {
	level := Classify(r, m.low, m.critical)
	if level != m.last {
		m.log.Debug().
			Stringer("from", m.last).
			Stringer("to", level).
			Float64("percentage", r.Percentage).
			Dur("time_to_empty", r.TimeToEmpty).
			Msg("battery level changed")
	}

	switch {
	case level == LevelCharging && m.last != LevelCharging:
		m.session.Title = "Charging"
		if r.TimeToFull > 0 {
			m.session.Title = fmt.Sprintf("Charging, %s until full", FormatDuration(r.TimeToFull))
		}
		m.session.Urgency = notify.UrgencyLow
		m.session.TryUpdate(ctx)
	case level == LevelLow && m.last != LevelLow:
		m.session.Title = remaining("Low battery", r)
		m.session.Urgency = notify.UrgencyNormal
		m.session.TryUpdate(ctx)
	case level == LevelCritical:
		m.session.Title = remaining("Critically low battery", r)
		m.session.Urgency = notify.UrgencyCritical
		m.session.TryUpdate(ctx)
	}

	m.last = level
}

func remaining(prefix string, r Reading) string {
	if r.TimeToEmpty > 0 {
		return fmt.Sprintf("%s, %s remaining", prefix, FormatDuration(r.TimeToEmpty))
	}
	return fmt.Sprintf("%s, %d%% left", prefix, int(r.Percentage))
}
