package osd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/simple-osd/internal/config"
)

func TestLoadRenderConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "common.toml")
	c := config.OpenFile(path, zerolog.Nop())

	cfg := LoadRenderConfig(c, zerolog.Nop())

	assert.Equal(t, RenderConfig{Length: 20, Full: "█", Empty: "░"}, cfg)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "[progressbar]")
	assert.Contains(t, string(saved), "use_freedesktop_notification_hint = false")
	assert.Contains(t, string(saved), "length = 20")
}

func TestLoadRenderConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "common.toml")
	contents := `[progressbar]
length = 10
full = "#"
empty = "-"
start = "["
end = "]"
use_freedesktop_notification_hint = true

[notification]
default_timeout = 2500
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	c := config.OpenFile(path, zerolog.Nop())

	s := NewFromConfig(nil, c, zerolog.Nop())

	want := hashBar
	want.UseHint = true
	assert.Equal(t, want, s.render)
	assert.EqualValues(t, 2500, s.Timeout)
}

func TestLoadRenderConfigRejectsNonPositiveLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "common.toml")
	require.NoError(t, os.WriteFile(path, []byte("[progressbar]\nlength = -3\n"), 0o644))
	c := config.OpenFile(path, zerolog.Nop())

	assert.Equal(t, 20, LoadRenderConfig(c, zerolog.Nop()).Length)
}

func TestNewFromConfigDefaultTimeout(t *testing.T) {
	c := config.OpenFile(filepath.Join(t.TempDir(), "common.toml"), zerolog.Nop())

	s := NewFromConfig(nil, c, zerolog.Nop())

	assert.EqualValues(t, -1, s.Timeout)
}

func TestNewFromConfigRejectsOutOfRangeTimeout(t *testing.T) {
	for _, raw := range []string{"3000000000", "-5"} {
		t.Run(raw, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "common.toml")
			require.NoError(t, os.WriteFile(path, []byte("[notification]\ndefault_timeout = "+raw+"\n"), 0o644))
			c := config.OpenFile(path, zerolog.Nop())
			var logs bytes.Buffer

			s := NewFromConfig(nil, c, zerolog.New(&logs))

			assert.EqualValues(t, -1, s.Timeout)
			assert.Contains(t, logs.String(), "default_timeout")
		})
	}
}
