// Package config reads the per-daemon TOML settings files.
//
// Each daemon owns $XDG_CONFIG_HOME/simple-osd/<name>.toml. Keys are looked up
// as section.key; a missing key read through GetDefault is written back with
// its default so the file documents every setting in use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

const appName = "simple-osd"

// Config is one settings file.
type Config struct {
	mu       sync.Mutex
	k        *koanf.Koanf
	path     string // empty: nothing is persisted
	readOnly bool   // set when the file exists but could not be parsed
	log      zerolog.Logger
}

// Value lists the types settings can be read as.
type Value interface {
	int | int64 | float64 | string | bool
}

// Open loads the settings file for name, creating it when missing.
// Problems are logged and never fatal: an unusable file just yields defaults.
func Open(name string, log zerolog.Logger) *Config {
	log = log.With().Str("component", "config").Str("config", name).Logger()

	path, err := xdg.ConfigFile(filepath.Join(appName, name+".toml"))
	if err != nil {
		log.Warn().Err(err).Msg("failed to set up the config directory, using defaults")
		return &Config{k: koanf.New("."), log: log}
	}
	return OpenFile(path, log)
}

// OpenFile loads settings from path, creating an empty file when missing.
func OpenFile(path string, log zerolog.Logger) *Config {
	c := &Config{k: koanf.New("."), path: path, log: log}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		c.log.Debug().Str("path", path).Msg("loading config file")
		if err := c.k.Load(file.Provider(path), toml.Parser()); err != nil {
			c.log.Warn().Err(err).Str("path", path).Msg("failed to load config, defaults will not be saved")
			c.readOnly = true
		}
	case errors.Is(err, fs.ErrNotExist):
		c.log.Debug().Str("path", path).Msg("creating config file")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			c.log.Warn().Err(err).Str("path", path).Msg("failed to create config file")
		}
	default:
		c.log.Warn().Err(err).Str("path", path).Msg("failed to stat config file")
		c.readOnly = true
	}

	return c
}

// Path returns the file backing c, empty if there is none.
func (c *Config) Path() string {
	return c.path
}

// Get reads section.key. Values of the wrong type are logged and reported as missing.
func Get[T Value](c *Config, section, key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return get[T](c, section+"."+key)
}

// GetDefault reads section.key, falling back to def and saving it to the file.
func GetDefault[T Value](c *Config, section, key string, def T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := section + "." + key
	if v, ok := get[T](c, path); ok {
		return v
	}
	if err := c.k.Set(path, def); err != nil {
		c.log.Warn().Err(err).Str("key", path).Msg("failed to record default")
		return def
	}
	c.save()
	return def
}

// GetPathDefault is GetDefault for filesystem paths, expanding a leading ~.
func GetPathDefault(c *Config, section, key, def string) string {
	return expandPath(GetDefault(c, section, key, def))
}

func get[T Value](c *Config, path string) (T, bool) {
	var zero T
	if !c.k.Exists(path) {
		return zero, false
	}
	raw := c.k.Get(path)
	v, err := convert[T](raw)
	if err != nil {
		c.log.Warn().Err(err).Str("key", path).Msg("failed to parse config variable")
		return zero, false
	}
	return v, true
}

// save must be called with mu held.
func (c *Config) save() {
	if c.path == "" || c.readOnly {
		return
	}
	b, err := c.k.Marshal(toml.Parser())
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to encode config")
		return
	}
	if err := os.WriteFile(c.path, b, 0o644); err != nil {
		c.log.Warn().Err(err).Str("path", c.path).Msg("failed to write config")
	}
}

func convert[T Value](raw any) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case *string:
		*p, err = toString(raw)
	case *bool:
		*p, err = toBool(raw)
	case *int:
		var n int64
		n, err = toInt(raw)
		*p = int(n)
	case *int64:
		*p, err = toInt(raw)
	case *float64:
		*p, err = toFloat(raw)
	}
	return out, err
}

func toString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case int64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("%v (%T) is not a string", raw, raw)
	}
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	default:
		return false, fmt.Errorf("%v (%T) is not a boolean", raw, raw)
	}
}

func toInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return 0, fmt.Errorf("%v (%T) is not an integer", raw, raw)
	}
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("%v (%T) is not a number", raw, raw)
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
