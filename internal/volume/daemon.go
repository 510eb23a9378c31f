package volume

import (
	"context"
	"fmt"
	"time"

	"github.com/llehouerou/simple-osd/internal/config"
	"github.com/llehouerou/simple-osd/internal/daemon"
	"github.com/llehouerou/simple-osd/internal/errmsg"
)

// ConfigName is the settings file of the volume daemon.
const ConfigName = "pulseaudio"

const defaultRefreshMs = 200

// Run watches the default sink until ctx is cancelled.
func Run(ctx context.Context, env daemon.Env) error {
	cfg := env.Config(ConfigName)
	interval := daemon.Milliseconds(cfg, defaultRefreshMs, env.Log)

	src, err := Connect(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	return watch(ctx, env, src, interval)
}

// Connect opens the server named by pulseaudio.server in cfg, if any.
func Connect(cfg *config.Config) (*Pulse, error) {
	server, _ := config.Get[string](cfg, "pulseaudio", "server")
	p, err := NewPulse(server)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.OpPulseConnect, err)
	}
	return p, nil
}

func watch(ctx context.Context, env daemon.Env, src Source, interval time.Duration) error {
	if _, err := src.DefaultSink(ctx); err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpSinkRead, err)
	}

	s := env.Session()
	defer s.Stop()
	m := NewMonitor(s, env.Log)

	return daemon.Poll(ctx, interval, func(ctx context.Context) {
		sink, err := src.DefaultSink(ctx)
		if err != nil {
			env.Log.Warn().Msg(errmsg.Format(errmsg.OpSinkRead, err))
			return
		}
		m.Step(ctx, sink)
	})
}
