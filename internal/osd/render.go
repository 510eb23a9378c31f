// Package osd keeps one on-screen notification up to date for a daemon.
//
// A Session holds what should be displayed and the ID the notification
// server gave the last notification, so each Update replaces it in place
// instead of stacking new ones. A watcher goroutine clears the ID when the
// server reports the notification closed and fires the OnClose callback.
package osd

import (
	"math"
	"strconv"
	"strings"
)

// Contents is what a notification body shows: Simple or Progress.
type Contents interface {
	isContents()
}

// Simple is plain body text.
type Simple string

// Progress is a ratio in [0, 1] shown as a glyph bar followed by a label.
type Progress struct {
	Ratio float64
	Label Label
}

func (Simple) isContents()   {}
func (Progress) isContents() {}

// Label follows the progress bar: Percentage or Text.
type Label interface {
	text(ratio float64) string
}

// Percentage renders the ratio as a whole percentage, truncated.
type Percentage struct{}

// Text renders a fixed string.
type Text string

func (Percentage) text(ratio float64) string {
	return strconv.Itoa(int(ratio*100)) + "%"
}

func (t Text) text(float64) string {
	return string(t)
}

// RenderConfig describes the textual progress bar.
type RenderConfig struct {
	Length int    // glyphs in the bar
	Full   string // glyph for the filled part
	Empty  string // glyph for the rest
	Start  string // left cap
	End    string // right cap

	// UseHint drops the bar and sends the progress as the "value" hint.
	UseHint bool
}

// Render builds the notification body for c.
func Render(c Contents, cfg RenderConfig) string {
	switch c := c.(type) {
	case Simple:
		return string(c)
	case Progress:
		var b strings.Builder
		if !cfg.UseHint {
			full := filled(c.Ratio, cfg.Length)
			b.WriteString(cfg.Start)
			b.WriteString(strings.Repeat(cfg.Full, full))
			b.WriteString(strings.Repeat(cfg.Empty, max(cfg.Length-full, 0)))
			b.WriteString(cfg.End)
			b.WriteByte(' ')
		}
		if c.Label != nil {
			b.WriteString(c.Label.text(c.Ratio))
		}
		return b.String()
	default:
		return ""
	}
}

// HintValue is the "value" hint for ratio: a rounded percentage in [0, 100].
func HintValue(ratio float64) int32 {
	if math.IsNaN(ratio) {
		return 0
	}
	v := math.Round(ratio * 100)
	return int32(min(max(v, 0), 100))
}

// filled is the number of full glyphs, kept within the bar.
func filled(ratio float64, length int) int {
	if length <= 0 || math.IsNaN(ratio) {
		return 0
	}
	n := math.Floor(ratio * float64(length))
	return int(min(max(n, 0), float64(length)))
}
