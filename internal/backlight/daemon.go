package backlight

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/simple-osd/internal/config"
	"github.com/llehouerou/simple-osd/internal/daemon"
	"github.com/llehouerou/simple-osd/internal/errmsg"
	"github.com/llehouerou/simple-osd/internal/osd"
)

// ConfigName is the settings file of the brightness daemon.
const ConfigName = "brightness"

const defaultRefresh = 1 // seconds

// Monitor shows the brightness when the raw value moves.
type Monitor struct {
	session *osd.Session
	max     int
	last    int
	seen    bool
	log     zerolog.Logger
}

// NewMonitor returns a monitor for a device reading full at maximum brightness.
func NewMonitor(s *osd.Session, full int, log zerolog.Logger) *Monitor {
	s.Title = "Screen brightness"
	return &Monitor{session: s, max: full, log: log}
}

// Step handles one raw brightness reading. The first reading is always shown.
func (m *Monitor) Step(ctx context.Context, raw int) {
	if m.seen && raw == m.last {
		return
	}
	m.log.Trace().Int("brightness", raw).Int("max", m.max).Msg("brightness changed")
	m.seen = true
	m.last = raw

	m.session.Contents = osd.Progress{Ratio: float64(raw) / float64(m.max), Label: osd.Percentage{}}
	m.session.TryUpdate(ctx)
}

// Run watches the backlight until ctx is cancelled.
func Run(ctx context.Context, env daemon.Env) error {
	cfg := env.Config(ConfigName)
	interval := daemon.Seconds(cfg, defaultRefresh, env.Log)
	name, _ := config.Get[string](cfg, "backlight", "device")

	dev, err := Open(SysfsRoot, name)
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpBacklightOpen, err)
	}
	env.Log.Info().Str("device", dev.Name).Int("max", dev.Max()).Msg("watching the backlight")

	return watch(ctx, env, dev, interval)
}

func watch(ctx context.Context, env daemon.Env, dev *Device, interval time.Duration) error {
	s := env.Session()
	defer s.Stop()
	m := NewMonitor(s, dev.Max(), env.Log)

	return daemon.Poll(ctx, interval, func(ctx context.Context) {
		raw, err := dev.Brightness()
		if err != nil {
			env.Log.Warn().Msg(errmsg.FormatWith(errmsg.OpBacklightRead, dev.Name, err))
			return
		}
		m.Step(ctx, raw)
	})
}
