// Package bluetooth announces the bluetooth device that is connected, as
// listed by BlueZ.
package bluetooth

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	bluezDest         = "org.bluez"
	bluezDevice       = "org.bluez.Device1"
	getManagedObjects = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"
)

// Device is a bluetooth device known to BlueZ.
type Device struct {
	Path      dbus.ObjectPath
	Adapter   dbus.ObjectPath
	Name      string
	Connected bool
}

// Source lists the known devices.
type Source interface {
	Devices(ctx context.Context) ([]Device, error)
}

// BlueZ reads devices from the BlueZ object manager on the system bus.
type BlueZ struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewBlueZ connects to the system bus.
func NewBlueZ() (*BlueZ, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to the system bus: %w", err)
	}
	return &BlueZ{conn: conn, obj: conn.Object(bluezDest, "/")}, nil
}

// Devices returns every device, sorted by object path.
func (b *BlueZ) Devices(ctx context.Context) ([]Device, error) {
	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	if err := b.obj.CallWithContext(ctx, getManagedObjects, 0).Store(&objects); err != nil {
		return nil, err
	}
	return decodeDevices(objects), nil
}

// Close releases the bus connection.
func (b *BlueZ) Close() error {
	return b.conn.Close()
}

func decodeDevices(objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant) []Device {
	var devices []Device
	for path, ifaces := range objects {
		props, ok := ifaces[bluezDevice]
		if !ok {
			continue
		}
		d := Device{Path: path}
		d.Adapter, _ = props["Adapter"].Value().(dbus.ObjectPath)
		d.Connected, _ = props["Connected"].Value().(bool)
		d.Name = firstString(props, "Alias", "Name", "Address")
		devices = append(devices, d)
	}
	slices.SortFunc(devices, func(a, b Device) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return devices
}

func firstString(props map[string]dbus.Variant, keys ...string) string {
	for _, k := range keys {
		if s, ok := props[k].Value().(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Connected returns the first connected device, restricted to adapter
// unless it is empty.
func Connected(devices []Device, adapter dbus.ObjectPath) (Device, bool) {
	for _, d := range devices {
		if !d.Connected {
			continue
		}
		if adapter != "" && d.Adapter != adapter {
			continue
		}
		return d, true
	}
	return Device{}, false
}
