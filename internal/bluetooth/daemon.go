package bluetooth

import (
	"context"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/llehouerou/simple-osd/internal/config"
	"github.com/llehouerou/simple-osd/internal/daemon"
	"github.com/llehouerou/simple-osd/internal/errmsg"
	"github.com/llehouerou/simple-osd/internal/notify"
	"github.com/llehouerou/simple-osd/internal/osd"
)

// ConfigName is the settings file of the bluetooth daemon.
const ConfigName = "bluetooth"

const defaultRefresh = 15 // seconds

// Monitor announces changes of the connected device.
type Monitor struct {
	session *osd.Session
	adapter dbus.ObjectPath
	last    string
	log     zerolog.Logger
}

// NewMonitor returns a monitor that assumes nothing is connected yet.
func NewMonitor(s *osd.Session, adapter dbus.ObjectPath, log zerolog.Logger) *Monitor {
	s.Icon = "bluetooth"
	s.Urgency = notify.UrgencyLow
	return &Monitor{session: s, adapter: adapter, log: log}
}

// Step handles one listing of the devices.
func (m *Monitor) Step(ctx context.Context, devices []Device) {
	var name string
	if d, ok := Connected(devices, m.adapter); ok {
		name = d.Name
	}
	if name == m.last {
		return
	}
	m.log.Debug().Str("from", m.last).Str("to", name).Msg("connected device changed")
	m.last = name

	if name == "" {
		m.session.Title = "Bluetooth: disconnected"
	} else {
		m.session.Title = "Bluetooth: connected to " + name
	}
	m.session.TryUpdate(ctx)
}

// Run watches bluetooth connections until ctx is cancelled.
func Run(ctx context.Context, env daemon.Env) error {
	cfg := env.Config(ConfigName)
	interval := daemon.Seconds(cfg, defaultRefresh, env.Log)
	adapter, _ := config.Get[string](cfg, "adapter", "path")

	src, err := NewBlueZ()
	if err != nil {
		return err
	}
	defer src.Close()

	return watch(ctx, env, src, dbus.ObjectPath(adapter), interval)
}

func watch(ctx context.Context, env daemon.Env, src Source, adapter dbus.ObjectPath, interval time.Duration) error {
	s := env.Session()
	defer s.Stop()
	m := NewMonitor(s, adapter, env.Log)

	return daemon.Poll(ctx, interval, func(ctx context.Context) {
		devices, err := src.Devices(ctx)
		if err != nil {
			env.Log.Warn().Msg(errmsg.Format(errmsg.OpBluetoothRead, err))
			return
		}
		m.Step(ctx, devices)
	})
}
