// Package backlight shows the screen brightness whenever it changes, reading
// the kernel backlight class.
package backlight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// SysfsRoot is where the kernel lists backlight devices.
const SysfsRoot = "/sys/class/backlight"

// ErrNoDevice is returned when no backlight device exists.
var ErrNoDevice = errors.New("no backlight device found")

// Device is one backlight under SysfsRoot.
type Device struct {
	Name string
	dir  string
	max  int
}

// Open opens the device called name under root, or the first one in
// alphabetical order if name is empty.
func Open(root, name string) (*Device, error) {
	if name == "" {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("%w in %s", ErrNoDevice, root)
		}
		slices.Sort(names)
		name = names[0]
	}

	d := &Device{Name: name, dir: filepath.Join(root, name)}
	full, err := readInt(filepath.Join(d.dir, "max_brightness"))
	if err != nil {
		return nil, err
	}
	if full <= 0 {
		return nil, fmt.Errorf("%s: max_brightness is %d", d.dir, full)
	}
	d.max = full
	return d, nil
}

// Max returns the brightness at full power.
func (d *Device) Max() int {
	return d.max
}

// Brightness reads the current raw brightness.
func (d *Device) Brightness() (int, error) {
	return readInt(filepath.Join(d.dir, "brightness"))
}

func readInt(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
