package battery

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/simple-osd/internal/config"
)

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		in   string
		want Threshold
	}{
		{"15%", Threshold{Kind: Percentage, Value: 15}},
		{"10m", Threshold{Kind: Minutes, Value: 10}},
		{"0%", Threshold{Kind: Percentage, Value: 0}},
		{"100%", Threshold{Kind: Percentage, Value: 100}},
		{"600m", Threshold{Kind: Minutes, Value: 600}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseThreshold(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestParseThresholdRejects(t *testing.T) {
	for _, in := range []string{"", "foo%", "foom", "110%", "-10%", "-10m", "15", "15s", "%", "m"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseThreshold(in)
			assert.ErrorIs(t, err, ErrInvalidThreshold)
		})
	}
}

func TestThresholdReached(t *testing.T) {
	discharging := func(pct float64, tte time.Duration) Reading {
		return Reading{State: StateDischarging, Percentage: pct, TimeToEmpty: tte}
	}

	pct := Threshold{Kind: Percentage, Value: 15}
	assert.True(t, pct.reached(discharging(15.9, 0)))
	assert.False(t, pct.reached(discharging(16, 0)))

	mins := Threshold{Kind: Minutes, Value: 10}
	assert.True(t, mins.reached(discharging(50, 10*time.Minute+59*time.Second)))
	assert.False(t, mins.reached(discharging(50, 11*time.Minute)))
	assert.False(t, mins.reached(discharging(50, 0)), "unknown estimate")
	assert.True(t, mins.reached(Reading{State: StateEmpty}))
}

func TestLoadThresholdsDefaults(t *testing.T) {
	cfg := config.OpenFile(filepath.Join(t.TempDir(), "battery.toml"), zerolog.Nop())

	low, critical, err := loadThresholds(cfg)

	require.NoError(t, err)
	assert.Equal(t, Threshold{Kind: Minutes, Value: 30}, low)
	assert.Equal(t, Threshold{Kind: Minutes, Value: 10}, critical)
}

func TestLoadThresholdsNamesTheBadSetting(t *testing.T) {
	tests := []struct {
		contents string
		want     string
	}{
		{"[threshold]\nlow = \"15\"\n", `parse the battery threshold "low"`},
		{"[threshold]\ncritical = \"110%\"\n", `parse the battery threshold "critical"`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "battery.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.contents), 0o644))

			_, _, err := loadThresholds(config.OpenFile(path, zerolog.Nop()))

			require.ErrorIs(t, err, ErrInvalidThreshold)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
