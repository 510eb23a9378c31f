package media

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders d as mm:ss; minutes are not wrapped into hours.
func FormatDuration(d time.Duration) string {
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// FormatArtists joins names as "A", "A & B" or "A, B & C".
// It reports false when there are no names.
func FormatArtists(artists []string) (string, bool) {
	switch len(artists) {
	case 0:
		return "", false
	case 1:
		return artists[0], true
	}
	last := len(artists) - 1
	return strings.Join(artists[:last], ", ") + " & " + artists[last], true
}
