// Package demo drives three sessions at once to show off what a
// notification server does with them.
package demo

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/llehouerou/simple-osd/internal/config"
	"github.com/llehouerou/simple-osd/internal/daemon"
	"github.com/llehouerou/simple-osd/internal/notify"
	"github.com/llehouerou/simple-osd/internal/osd"
)

// ConfigName is the settings file of the demo.
const ConfigName = "demo"

const (
	step = 0.123
	eta  = 15 * time.Second
)

// Describer is the part of notify.Service the demo prints.
type Describer interface {
	Capabilities(ctx context.Context) ([]string, error)
	ServerInfo(ctx context.Context) (notify.ServerInfo, error)
}

// PrintServer writes what the notification server says about itself.
func PrintServer(ctx context.Context, w io.Writer, d Describer) error {
	info, err := d.ServerInfo(ctx)
	if err != nil {
		return err
	}
	caps, err := d.Capabilities(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Server: %s %s (%s), spec %s\n", info.Name, info.Version, info.Vendor, info.SpecVersion)
	fmt.Fprintf(w, "Capabilities: %s\n", strings.Join(caps, ", "))
	return nil
}

// Sessions are the three notifications of the demo.
type Sessions struct {
	Simple     *osd.Session
	Percentage *osd.Session
	Countdown  *osd.Session

	ratio   float64
	elapsed time.Duration
}

// NewSessions sets up the sessions from env.
func NewSessions(env daemon.Env) *Sessions {
	d := &Sessions{
		Simple:     env.Session(),
		Percentage: env.Session(),
		Countdown:  env.Session(),
	}
	d.Simple.Title = "Simple (but urgent) notification"
	d.Simple.Contents = osd.Simple("Just simple contents")
	d.Simple.Urgency = notify.UrgencyCritical

	d.Percentage.Title = "A progress bar showing important percentage!"

	d.Countdown.Title = "Nuclear warhead launch in progress, time left:"
	d.Countdown.Urgency = notify.UrgencyLow
	return d
}

// Advance moves the progress bars by one tick of interval and shows all three.
func (d *Sessions) Advance(ctx context.Context, interval time.Duration) {
	d.ratio = math.Mod(d.ratio+step, 1)
	d.elapsed = (d.elapsed + interval) % eta

	d.Percentage.Contents = osd.Progress{Ratio: d.ratio, Label: osd.Percentage{}}
	d.Countdown.Contents = osd.Progress{
		Ratio: float64(d.elapsed) / float64(eta),
		Label: osd.Text(fmt.Sprintf("%gs / %gs", d.elapsed.Seconds(), eta.Seconds())),
	}

	d.Simple.TryUpdate(ctx)
	d.Percentage.TryUpdate(ctx)
	d.Countdown.TryUpdate(ctx)
}

// Stop stops watching the three notifications.
func (d *Sessions) Stop() {
	d.Simple.Stop()
	d.Percentage.Stop()
	d.Countdown.Stop()
}

// Run updates the demo sessions until ctx is cancelled.
func Run(ctx context.Context, env daemon.Env) error {
	cfg := env.Config(ConfigName)

	foo := config.GetDefault(cfg, "example", "foo", "bar baz")
	env.Log.Info().Str("foo", foo).Msg("example value with a default")
	if v, ok := config.Get[int](cfg, "example", "no_default"); ok {
		env.Log.Info().Int("no_default", v).Msg("example value without a default")
	} else {
		env.Log.Info().Msg("example value without a default is not set")
	}

	interval := daemon.Seconds(cfg, 1, env.Log)
	d := NewSessions(env)
	defer d.Stop()

	return daemon.Poll(ctx, interval, func(ctx context.Context) {
		d.Advance(ctx, interval)
	})
}
