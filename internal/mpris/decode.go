// Package mpris reads the state of media players through their MPRIS
// interface on the session bus.
package mpris

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"
)

const (
	busPrefix   = "org.mpris.MediaPlayer2."
	objectPath  = "/org/mpris/MediaPlayer2"
	playerIface = "org.mpris.MediaPlayer2.Player"
)

// ErrNoPlayer is returned when no player is on the bus.
var ErrNoPlayer = errors.New("no media player found")

// Status is what a player reports about itself.
type Status struct {
	Bus      string // bus name, e.g. org.mpris.MediaPlayer2.spotify
	Playback types.PlaybackStatus
	Metadata types.Metadata
	Position types.Microseconds
}

// Identity is the bus name without the MPRIS prefix.
func (s Status) Identity() string {
	return strings.TrimPrefix(s.Bus, busPrefix)
}

// Pick returns the first playing player, else the first one.
func Pick(players []Status) (Status, bool) {
	if len(players) == 0 {
		return Status{}, false
	}
	if i := slices.IndexFunc(players, func(s Status) bool {
		return s.Playback == types.PlaybackStatusPlaying
	}); i >= 0 {
		return players[i], true
	}
	return players[0], true
}

func playerNames(names []string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, busPrefix) && len(n) > len(busPrefix) {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, cmp.Compare[string])
	return out
}

func decodeStatus(bus string, props map[string]dbus.Variant) Status {
	s := Status{Bus: bus, Playback: types.PlaybackStatusStopped}
	if v, ok := props["PlaybackStatus"].Value().(string); ok {
		s.Playback = types.PlaybackStatus(v)
	}
	if v, ok := toInt64(props["Position"].Value()); ok {
		s.Position = types.Microseconds(v)
	}
	if m, ok := props["Metadata"].Value().(map[string]dbus.Variant); ok {
		s.Metadata = decodeMetadata(m)
	}
	return s
}

func decodeMetadata(m map[string]dbus.Variant) types.Metadata {
	var md types.Metadata
	if v, ok := m["mpris:trackid"].Value().(dbus.ObjectPath); ok {
		md.TrackId = v
	}
	if v, ok := toInt64(m["mpris:length"].Value()); ok {
		md.Length = types.Microseconds(v)
	}
	md.Title, _ = m["xesam:title"].Value().(string)
	md.Album, _ = m["xesam:album"].Value().(string)
	md.ArtUrl, _ = m["mpris:artUrl"].Value().(string)

	// some players send a single string instead of a list
	switch v := m["xesam:artist"].Value().(type) {
	case []string:
		md.Artist = v
	case string:
		if v != "" {
			md.Artist = []string{v}
		}
	}
	return md
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
