package backlight

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"testing/synctest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/simple-osd/internal/config"
	"github.com/llehouerou/simple-osd/internal/daemon"
	"github.com/llehouerou/simple-osd/internal/notify/notifytest"
	"github.com/llehouerou/simple-osd/internal/osd"
)

// fakeSysfs lays out root/<name>/{brightness,max_brightness}.
func fakeSysfs(t *testing.T, root, name string, brightness, full int) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	setBrightness(t, root, name, brightness)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "max_brightness"), []byte(strconv.Itoa(full)+"\n"), 0o644))
}

func setBrightness(t *testing.T, root, name string, brightness int) {
	t.Helper()
	path := filepath.Join(root, name, "brightness")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(brightness)+"\n"), 0o644))
}

func TestOpenPicksFirstDevice(t *testing.T) {
	root := t.TempDir()
	fakeSysfs(t, root, "intel_backlight", 12000, 24000)
	fakeSysfs(t, root, "acpi_video0", 5, 10)

	dev, err := Open(root, "")
	require.NoError(t, err)
	assert.Equal(t, "acpi_video0", dev.Name)
	assert.Equal(t, 10, dev.Max())

	dev, err = Open(root, "intel_backlight")
	require.NoError(t, err)
	b, err := dev.Brightness()
	require.NoError(t, err)
	assert.Equal(t, 12000, b)
}

func TestOpenErrors(t *testing.T) {
	root := t.TempDir()

	_, err := Open(root, "")
	assert.ErrorIs(t, err, ErrNoDevice)

	_, err = Open(root, "missing")
	assert.ErrorIs(t, err, os.ErrNotExist)

	fakeSysfs(t, root, "broken", 1, 0)
	_, err = Open(root, "broken")
	assert.Error(t, err)
}

func TestBrightnessGarbage(t *testing.T) {
	root := t.TempDir()
	fakeSysfs(t, root, "dev", 1, 10)
	require.NoError(t, os.WriteFile(filepath.Join(root, "dev", "brightness"), []byte("bright"), 0o644))

	dev, err := Open(root, "dev")
	require.NoError(t, err)
	_, err = dev.Brightness()
	assert.ErrorIs(t, err, strconv.ErrSyntax)
}

func TestMonitorShowsChanges(t *testing.T) {
	rec := notifytest.New()
	s := osd.New(rec, osd.RenderConfig{Length: 4, Full: "#", Empty: "-"}, -1, zerolog.Nop())
	t.Cleanup(s.Stop)
	m := NewMonitor(s, 200, zerolog.Nop())
	ctx := context.Background()

	m.Step(ctx, 100)
	m.Step(ctx, 100)
	m.Step(ctx, 150)

	sent := rec.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "Screen brightness", sent[0].Title)
	assert.Equal(t, "##-- 50%", sent[0].Body)
	assert.Equal(t, "###- 75%", sent[1].Body)
}

func TestWatchFollowsSysfs(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		root := t.TempDir()
		fakeSysfs(t, root, "intel_backlight", 300, 1000)
		dev, err := Open(root, "")
		require.NoError(t, err)

		rec := notifytest.New()
		env := daemon.Env{
			Notifier: rec,
			Common:   config.OpenFile(filepath.Join(t.TempDir(), "common.toml"), zerolog.Nop()),
			Log:      zerolog.Nop(),
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- watch(ctx, env, dev, time.Second) }()

		synctest.Wait()
		setBrightness(t, root, "intel_backlight", 800)
		time.Sleep(1500 * time.Millisecond)
		synctest.Wait()
		cancel()

		assert.ErrorIs(t, <-done, context.Canceled)
		sent := rec.Sent()
		require.Len(t, sent, 2)
		assert.Contains(t, sent[0].Body, "30%")
		assert.Contains(t, sent[1].Body, "80%")
	})
}
