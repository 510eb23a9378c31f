package battery

import (
	"strconv"
	"strings"
	"time"
)

// FormatDuration renders d as "3h 25m 45s", dropping zero parts.
// Fractions of a second are truncated.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs == 0 {
		return "0s"
	}

	var b strings.Builder
	if secs < 0 {
		b.WriteByte('-')
		secs = -secs
	}

	parts := []struct {
		n    int64
		unit byte
	}{
		{secs / 3600, 'h'},
		{secs % 3600 / 60, 'm'},
		{secs % 60, 's'},
	}
	first := true
	for _, p := range parts {
		if p.n == 0 {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatInt(p.n, 10))
		b.WriteByte(p.unit)
		first = false
	}
	return b.String()
}
