// Package daemon holds what every simple-osd daemon shares: the process
// wrapper, the polling loop and the notification environment.
package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/simple-osd/internal/config"
	"github.com/llehouerou/simple-osd/internal/notify"
	"github.com/llehouerou/simple-osd/internal/osd"
)

// Env is handed to each daemon by the command that starts it.
type Env struct {
	Notifier notify.Notifier
	Common   *config.Config // common.toml, read by every session
	Log      zerolog.Logger
}

// Session returns a fresh session configured from common.toml.
func (e Env) Session() *osd.Session {
	return osd.NewFromConfig(e.Notifier, e.Common, e.Log)
}

// Config opens the daemon's own settings file.
func (e Env) Config(name string) *config.Config {
	return config.Open(name, e.Log)
}

// Func is the body of a daemon. It returns when ctx is cancelled or on a
// failure it cannot recover from.
type Func func(ctx context.Context, env Env) error

// Run runs fn with a logger tagged with the daemon name, logging its start
// and how it ended. Cancellation of ctx counts as a normal exit.
func Run(ctx context.Context, name string, env Env, fn Func) error {
	env.Log = env.Log.With().Str("daemon", name).Logger()
	env.Log.Info().Msg("Starting")

	err := fn(ctx, env)
	if err != nil && !errors.Is(err, context.Canceled) {
		env.Log.Error().Err(err).Msg("daemon failed")
		return err
	}
	env.Log.Info().Msg("Exiting normally")
	return nil
}

// Poll calls tick right away and then every interval until ctx is done.
func Poll(ctx context.Context, interval time.Duration, tick func(ctx context.Context)) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		tick(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Seconds reads default.refresh_interval from c, in seconds.
func Seconds(c *config.Config, def int, log zerolog.Logger) time.Duration {
	return positive(config.GetDefault(c, "default", "refresh_interval", def), def, time.Second, log)
}

// Milliseconds reads default.refresh_interval_ms from c.
func Milliseconds(c *config.Config, def int, log zerolog.Logger) time.Duration {
	return positive(config.GetDefault(c, "default", "refresh_interval_ms", def), def, time.Millisecond, log)
}

func positive(n, def int, unit time.Duration, log zerolog.Logger) time.Duration {
	if n <= 0 {
		log.Warn().Int("interval", n).Msg("refresh interval must be positive, using the default")
		n = def
	}
	return time.Duration(n) * unit
}
