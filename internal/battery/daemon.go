package battery

import (
	"context"
	"fmt"
	"time"

	"github.com/llehouerou/simple-osd/internal/config"
	"github.com/llehouerou/simple-osd/internal/daemon"
	"github.com/llehouerou/simple-osd/internal/errmsg"
)

// ConfigName is the settings file of the battery daemon.
const ConfigName = "battery"

const defaultRefresh = 30 // seconds

// Run watches the battery until ctx is cancelled.
func Run(ctx context.Context, env daemon.Env) error {
	cfg := env.Config(ConfigName)

	low, critical, err := loadThresholds(cfg)
	if err != nil {
		return err
	}
	interval := daemon.Seconds(cfg, defaultRefresh, env.Log)

	src, err := NewUPower()
	if err != nil {
		return err
	}
	defer src.Close()

	return watch(ctx, env, src, low, critical, interval)
}

func loadThresholds(cfg *config.Config) (low, critical Threshold, err error) {
	low, err = ParseThreshold(config.GetDefault(cfg, "threshold", "low", "30m"))
	if err != nil {
		return low, critical, fmt.Errorf("%s %q: %w", errmsg.OpThresholdParse, "low", err)
	}
	critical, err = ParseThreshold(config.GetDefault(cfg, "threshold", "critical", "10m"))
	if err != nil {
		return low, critical, fmt.Errorf("%s %q: %w", errmsg.OpThresholdParse, "critical", err)
	}
	return low, critical, nil
}

func watch(ctx context.Context, env daemon.Env, src Source, low, critical Threshold, interval time.Duration) error {
	// fail early when there is nothing to watch
	first, err := src.Read(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpBatteryRead, err)
	}

	s := env.Session()
	defer s.Stop()
	m := NewMonitor(s, low, critical, env.Log)
	env.Log.Info().
		Stringer("low", low).
		Stringer("critical", critical).
		Float64("percentage", first.Percentage).
		Msg("watching the battery")

	return daemon.Poll(ctx, interval, func(ctx context.Context) {
		r, err := src.Read(ctx)
		if err != nil {
			env.Log.Warn().Msg(errmsg.Format(errmsg.OpBatteryRead, err))
			return
		}
		m.Step(ctx, r)
	})
}
