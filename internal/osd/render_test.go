package osd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hashBar = RenderConfig{Length: 10, Full: "#", Empty: "-", Start: "[", End: "]"}

func TestRenderBarGlyphCounts(t *testing.T) {
	cfg := RenderConfig{Length: 20, Full: "█", Empty: "░"}

	for _, ratio := range []float64{0, 0.5, 1} {
		body := Render(Progress{Ratio: ratio, Label: Text("")}, cfg)
		want := int(ratio * 20)
		assert.Equal(t, want, strings.Count(body, "█"), "full glyphs at %v", ratio)
		assert.Equal(t, 20-want, strings.Count(body, "░"), "empty glyphs at %v", ratio)
	}
}

func TestRenderProgressWithPercentage(t *testing.T) {
	got := Render(Progress{Ratio: 0.3, Label: Percentage{}}, hashBar)
	assert.Equal(t, "[###-------] 30%", got)
}

func TestRenderPercentageTruncates(t *testing.T) {
	assert.Equal(t, "99%", Render(Progress{Ratio: 0.999, Label: Percentage{}}, RenderConfig{Length: 20, UseHint: true}))
}

func TestRenderSimple(t *testing.T) {
	assert.Equal(t, "x", Render(Simple("x"), hashBar))
	assert.Equal(t, "", Render(Simple(""), hashBar))
}

func TestRenderTextLabel(t *testing.T) {
	assert.Equal(t, "[#####-----] 01:10 / 02:20", Render(Progress{Ratio: 0.5, Label: Text("01:10 / 02:20")}, hashBar))
	assert.Equal(t, "[#####-----] ", Render(Progress{Ratio: 0.5, Label: Text("")}, hashBar))
	assert.Equal(t, "[#####-----] ", Render(Progress{Ratio: 0.5}, hashBar))
}

func TestRenderHintModeDropsBar(t *testing.T) {
	cfg := hashBar
	cfg.UseHint = true

	assert.Equal(t, "30%", Render(Progress{Ratio: 0.3, Label: Percentage{}}, cfg))
	assert.Equal(t, "Headphones", Render(Progress{Ratio: 0.3, Label: Text("Headphones")}, cfg))
}

func TestRenderClampsBarButNotLabel(t *testing.T) {
	assert.Equal(t, "[##########] 150%", Render(Progress{Ratio: 1.5, Label: Percentage{}}, hashBar))
	assert.Equal(t, "[----------] -20%", Render(Progress{Ratio: -0.2, Label: Percentage{}}, hashBar))
}

func TestRenderMultiRuneGlyphs(t *testing.T) {
	cfg := RenderConfig{Length: 4, Full: "=>", Empty: "..", Start: "<", End: ">"}
	assert.Equal(t, "<=>=>....> 50%", Render(Progress{Ratio: 0.5, Label: Percentage{}}, cfg))
}

func TestHintValue(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int32
	}{
		{0, 0},
		{0.3, 30},
		{0.306, 31},
		{0.994, 99},
		{0.996, 100},
		{1.7, 100},
		{-0.1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HintValue(tt.ratio), "HintValue(%v)", tt.ratio)
	}
}
