package osd

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/llehouerou/simple-osd/internal/config"
	"github.com/llehouerou/simple-osd/internal/notify"
)

// ConfigName is the settings file shared by every daemon's session.
const ConfigName = "common"

const (
	defaultTimeout   = -1 // server decides
	defaultBarLength = 20
)

// LoadRenderConfig reads the [progressbar] section, saving defaults for missing keys.
func LoadRenderConfig(c *config.Config, log zerolog.Logger) RenderConfig {
	cfg := RenderConfig{
		// Progress doesn't go down for the same notification in some servers
		// (mako), so the hint is off by default.
		UseHint: config.GetDefault(c, "progressbar", "use_freedesktop_notification_hint", false),
		Length:  config.GetDefault(c, "progressbar", "length", defaultBarLength),
		Full:    config.GetDefault(c, "progressbar", "full", "█"),
		Empty:   config.GetDefault(c, "progressbar", "empty", "░"),
		Start:   config.GetDefault(c, "progressbar", "start", ""),
		End:     config.GetDefault(c, "progressbar", "end", ""),
	}
	if cfg.Length <= 0 {
		log.Warn().Int("length", cfg.Length).Msg("progressbar.length must be positive, using the default")
		cfg.Length = defaultBarLength
	}
	return cfg
}

// NewFromConfig builds a session from the shared settings file.
func NewFromConfig(n notify.Notifier, c *config.Config, log zerolog.Logger) *Session {
	timeout, ok := config.Get[int](c, "notification", "default_timeout")
	if !ok {
		timeout = defaultTimeout
	}
	if timeout < -1 || timeout > math.MaxInt32 {
		log.Warn().Int("timeout", timeout).Msg("notification.default_timeout must be -1 or a number of milliseconds, using the server default")
		timeout = defaultTimeout
	}
	return New(n, LoadRenderConfig(c, log), int32(timeout), log)
}
