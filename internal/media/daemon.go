package media

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/simple-osd/internal/config"
	"github.com/llehouerou/simple-osd/internal/daemon"
	"github.com/llehouerou/simple-osd/internal/errmsg"
	"github.com/llehouerou/simple-osd/internal/mpris"
	"github.com/llehouerou/simple-osd/internal/volume"
)

// ConfigName is the settings file of the media daemon.
const ConfigName = "mpris"

const (
	defaultDisplayTime = 5   // seconds
	defaultRefreshMs   = 100 // player position granularity
)

// Players finds the player to show.
type Players interface {
	Active(ctx context.Context) (mpris.Status, error)
}

// Run follows the active player until ctx is cancelled.
func Run(ctx context.Context, env daemon.Env) error {
	cfg := env.Config(ConfigName)
	display := time.Duration(config.GetDefault(cfg, "default", "notification_display_time", defaultDisplayTime)) * time.Second
	interval := daemon.Milliseconds(cfg, defaultRefreshMs, env.Log)

	players, err := mpris.Connect(env.Log)
	if err != nil {
		return err
	}
	defer players.Close()

	var sinks volume.Source
	if config.GetDefault(cfg, "default", "update_on_volume_change", false) {
		p, err := volume.Connect(cfg)
		if err != nil {
			// the players can still be shown
			env.Log.Warn().Msg(errmsg.Format(errmsg.OpPulseConnect, err))
		} else {
			defer p.Close()
			sinks = p
		}
	}

	return watch(ctx, env, players, sinks, display, interval)
}

func watch(ctx context.Context, env daemon.Env, players Players, sinks volume.Source, display, interval time.Duration) error {
	s := env.Session()
	defer s.Stop()
	m := NewMonitor(s, display, env.Log)
	vol := newVolumeTrigger(sinks, env.Log)

	return daemon.Poll(ctx, interval, func(ctx context.Context) {
		st, err := players.Active(ctx)
		switch {
		case errors.Is(err, mpris.ErrNoPlayer):
			env.Log.Trace().Msg(errmsg.Format(errmsg.OpPlayerFind, err))
		case err != nil:
			env.Log.Warn().Msg(errmsg.Format(errmsg.OpPlayerRead, err))
		}
		if vol.changed(ctx) {
			m.Retrigger()
		}
		m.Step(ctx, st, err == nil)
	})
}

// volumeTrigger reports changes of the default sink between ticks.
type volumeTrigger struct {
	sinks volume.Source
	last  volume.Sink
	seen  bool
	log   zerolog.Logger
}

func newVolumeTrigger(sinks volume.Source, log zerolog.Logger) *volumeTrigger {
	return &volumeTrigger{sinks: sinks, log: log}
}

func (v *volumeTrigger) changed(ctx context.Context) bool {
	if v.sinks == nil {
		return false
	}
	sink, err := v.sinks.DefaultSink(ctx)
	if err != nil {
		v.log.Debug().Msg(errmsg.Format(errmsg.OpSinkRead, err))
		return false
	}
	changed := v.seen && volume.Changed(v.last, sink)
	v.last, v.seen = sink, true
	return changed
}
