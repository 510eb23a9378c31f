package battery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	upowerDest          = "org.freedesktop.UPower"
	upowerDisplayDevice = "/org/freedesktop/UPower/devices/DisplayDevice"
	upowerDevice        = "org.freedesktop.UPower.Device"
	propertiesGetAll    = "org.freedesktop.DBus.Properties.GetAll"
)

// ErrNoBattery is returned when UPower reports no battery.
var ErrNoBattery = errors.New("no battery present")

// State is the UPower device state.
type State uint32

const (
	StateUnknown State = iota
	StateCharging
	StateDischarging
	StateEmpty
	StateFullyCharged
	StatePendingCharge
	StatePendingDischarge
)

// Reading is one sample of the battery. Unknown durations are zero.
type Reading struct {
	State       State
	Percentage  float64
	TimeToEmpty time.Duration
	TimeToFull  time.Duration
}

// Source provides battery readings.
type Source interface {
	Read(ctx context.Context) (Reading, error)
}

// UPower reads the composite display device on the system bus.
type UPower struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewUPower connects to the system bus.
func NewUPower() (*UPower, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to the system bus: %w", err)
	}
	return &UPower{conn: conn, obj: conn.Object(upowerDest, upowerDisplayDevice)}, nil
}

// Read fetches the current state of the display device.
func (u *UPower) Read(ctx context.Context) (Reading, error) {
	var props map[string]dbus.Variant
	if err := u.obj.CallWithContext(ctx, propertiesGetAll, 0, upowerDevice).Store(&props); err != nil {
		return Reading{}, err
	}
	return decodeDevice(props)
}

// Close releases the bus connection.
func (u *UPower) Close() error {
	return u.conn.Close()
}

func decodeDevice(props map[string]dbus.Variant) (Reading, error) {
	if present, ok := props["IsPresent"].Value().(bool); ok && !present {
		return Reading{}, ErrNoBattery
	}

	var r Reading
	if v, ok := props["State"].Value().(uint32); ok {
		r.State = State(v)
	}
	if v, ok := props["Percentage"].Value().(float64); ok {
		r.Percentage = v
	}
	if v, ok := props["TimeToEmpty"].Value().(int64); ok {
		r.TimeToEmpty = time.Duration(v) * time.Second
	}
	if v, ok := props["TimeToFull"].Value().(int64); ok {
		r.TimeToFull = time.Duration(v) * time.Second
	}
	return r, nil
}
