package battery

import (
	"context"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/simple-osd/internal/config"
	"github.com/llehouerou/simple-osd/internal/daemon"
	"github.com/llehouerou/simple-osd/internal/notify"
	"github.com/llehouerou/simple-osd/internal/notify/notifytest"
	"github.com/llehouerou/simple-osd/internal/osd"
)

var (
	low      = Threshold{Kind: Minutes, Value: 30}
	critical = Threshold{Kind: Percentage, Value: 5}
)

func newTestMonitor(t *testing.T) (*Monitor, *notifytest.Recorder) {
	t.Helper()
	rec := notifytest.New()
	s := osd.New(rec, osd.RenderConfig{Length: 10}, -1, zerolog.Nop())
	t.Cleanup(s.Stop)
	return NewMonitor(s, low, critical, zerolog.Nop()), rec
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		r    Reading
		want Level
	}{
		{"charging", Reading{State: StateCharging, Percentage: 3}, LevelCharging},
		{"full", Reading{State: StateFullyCharged, Percentage: 100}, LevelNormal},
		{"pending charge", Reading{State: StatePendingCharge, Percentage: 3}, LevelNormal},
		{"plenty left", Reading{State: StateDischarging, Percentage: 80, TimeToEmpty: 3 * time.Hour}, LevelNormal},
		{"low by time", Reading{State: StateDischarging, Percentage: 40, TimeToEmpty: 20 * time.Minute}, LevelLow},
		{"critical by percentage", Reading{State: StateDischarging, Percentage: 4, TimeToEmpty: 20 * time.Minute}, LevelCritical},
		{"unknown estimate", Reading{State: StateDischarging, Percentage: 40}, LevelNormal},
		{"empty", Reading{State: StateEmpty}, LevelCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.r, low, critical))
		})
	}
}

func TestMonitorAnnouncesChargingOnce(t *testing.T) {
	m, rec := newTestMonitor(t)
	ctx := context.Background()
	charging := Reading{State: StateCharging, Percentage: 50, TimeToFull: 45 * time.Minute}

	m.Step(ctx, charging)
	m.Step(ctx, charging)

	sent := rec.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Charging, 45m until full", sent[0].Title)
	assert.Equal(t, notify.UrgencyLow, sent[0].Urgency)
	assert.Equal(t, "battery", sent[0].Icon)
}

func TestMonitorChargingWithoutEstimate(t *testing.T) {
	m, rec := newTestMonitor(t)

	m.Step(context.Background(), Reading{State: StateCharging})

	n, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Charging", n.Title)
}

func TestMonitorLowThenCritical(t *testing.T) {
	m, rec := newTestMonitor(t)
	ctx := context.Background()

	m.Step(ctx, Reading{State: StateDischarging, Percentage: 60, TimeToEmpty: 2 * time.Hour})
	assert.Empty(t, rec.Sent())

	m.Step(ctx, Reading{State: StateDischarging, Percentage: 20, TimeToEmpty: 25 * time.Minute})
	m.Step(ctx, Reading{State: StateDischarging, Percentage: 19, TimeToEmpty: 24 * time.Minute})
	require.Len(t, rec.Sent(), 1)
	n, _ := rec.Last()
	assert.Equal(t, "Low battery, 25m remaining", n.Title)
	assert.Equal(t, notify.UrgencyNormal, n.Urgency)

	m.Step(ctx, Reading{State: StateDischarging, Percentage: 5, TimeToEmpty: 6*time.Minute + 30*time.Second})
	m.Step(ctx, Reading{State: StateDischarging, Percentage: 4, TimeToEmpty: 5 * time.Minute})

	sent := rec.Sent()
	require.Len(t, sent, 3)
	assert.Equal(t, "Critically low battery, 6m 30s remaining", sent[1].Title)
	assert.Equal(t, "Critically low battery, 5m remaining", sent[2].Title)
	assert.Equal(t, notify.UrgencyCritical, sent[2].Urgency)
	assert.Equal(t, sent[1].ReplacesID, sent[2].ReplacesID, "critical warnings update one notification")
}

func TestMonitorCriticalWithoutEstimate(t *testing.T) {
	m, rec := newTestMonitor(t)

	m.Step(context.Background(), Reading{State: StateDischarging, Percentage: 3})

	n, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Critically low battery, 3% left", n.Title)
}

func TestMonitorReannouncesAfterRecovery(t *testing.T) {
	m, rec := newTestMonitor(t)
	ctx := context.Background()
	lowReading := Reading{State: StateDischarging, Percentage: 20, TimeToEmpty: 25 * time.Minute}

	m.Step(ctx, lowReading)
	m.Step(ctx, Reading{State: StateCharging})
	m.Step(ctx, lowReading)

	assert.Len(t, rec.Sent(), 3)
}

func TestDecodeDevice(t *testing.T) {
	props := map[string]dbus.Variant{
		"IsPresent":   dbus.MakeVariant(true),
		"State":       dbus.MakeVariant(uint32(2)),
		"Percentage":  dbus.MakeVariant(42.5),
		"TimeToEmpty": dbus.MakeVariant(int64(5400)),
		"TimeToFull":  dbus.MakeVariant(int64(0)),
	}

	r, err := decodeDevice(props)

	require.NoError(t, err)
	assert.Equal(t, Reading{State: StateDischarging, Percentage: 42.5, TimeToEmpty: 90 * time.Minute}, r)
}

func TestDecodeDeviceWithoutBattery(t *testing.T) {
	_, err := decodeDevice(map[string]dbus.Variant{"IsPresent": dbus.MakeVariant(false)})
	assert.ErrorIs(t, err, ErrNoBattery)
}

type failingSource struct{ err error }

func (f failingSource) Read(context.Context) (Reading, error) { return Reading{}, f.err }

func TestWatchFailsWithoutBattery(t *testing.T) {
	env := daemonEnv(notifytest.New())

	err := watch(context.Background(), env, failingSource{ErrNoBattery}, low, critical, time.Second)

	assert.ErrorIs(t, err, ErrNoBattery)
	assert.Contains(t, err.Error(), "read the battery state")
}

type scriptedSource struct {
	readings []Reading
	reads    int
}

func (s *scriptedSource) Read(context.Context) (Reading, error) {
	r := s.readings[min(s.reads, len(s.readings)-1)]
	s.reads++
	return r, nil
}

func TestWatchPollsUntilCancelled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := notifytest.New()
		env := daemonEnv(rec)
		env.Common = config.OpenFile(filepath.Join(t.TempDir(), "common.toml"), zerolog.Nop())
		src := &scriptedSource{readings: []Reading{
			{State: StateDischarging, Percentage: 90, TimeToEmpty: 5 * time.Hour},
			{State: StateDischarging, Percentage: 90, TimeToEmpty: 5 * time.Hour},
			{State: StateCharging, TimeToFull: time.Hour},
		}}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- watch(ctx, env, src, low, critical, 30*time.Second) }()

		time.Sleep(45 * time.Second)
		synctest.Wait()
		cancel()

		assert.ErrorIs(t, <-done, context.Canceled)
		assert.Equal(t, 3, src.reads)
		sent := rec.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "Charging, 1h until full", sent[0].Title)
	})
}

func daemonEnv(n notify.Notifier) daemon.Env {
	return daemon.Env{Notifier: n, Log: zerolog.Nop()}
}
