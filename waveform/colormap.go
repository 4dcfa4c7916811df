package waveform

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/RyanBlaney/wavescope/algorithms/common"
)

// ColorStop is one anchor of a piecewise-linear color gradient over [0, 1].
// Color accepts rgb()/rgba() triples and 3- or 6-digit hex notation.
type ColorStop struct {
	Position float64 `json:"position"`
	Color    string  `json:"color"`
}

// defaultColor is returned when no stops are configured
const defaultColor = "rgb(0,0,0)"

// ColorFor maps a normalized value onto the gradient defined by stops and
// returns a color string. The value is clamped into [0, 1] and stops are
// sorted defensively, so caller order is not trusted. Values at or beyond the
// end stops return those stops' colors verbatim. Between two stops each RGB
// channel is interpolated independently; if either bracketing stop fails to
// parse, the nearer stop's literal color string is returned instead.
func ColorFor(value float64, stops []ColorStop) string {
	if len(stops) == 0 {
		return defaultColor
	}
	if len(stops) == 1 {
		return stops[0].Color
	}

	value = common.Clamp01(value)

	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	if value <= sorted[0].Position {
		return sorted[0].Color
	}
	last := sorted[len(sorted)-1]
	if value >= last.Position {
		return last.Color
	}

	var a, b ColorStop
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].Position <= value && value <= sorted[i+1].Position {
			a, b = sorted[i], sorted[i+1]
			break
		}
	}

	t := 0.0
	if span := b.Position - a.Position; span > 0 {
		t = (value - a.Position) / span
	}

	ar, ag, ab, _, aok := parseColor(a.Color)
	br, bg, bb, _, bok := parseColor(b.Color)
	if !aok || !bok {
		// Degrade to the nearer stop's literal rather than failing
		if value-a.Position <= b.Position-value {
			return a.Color
		}
		return b.Color
	}

	r := lerpChannel(ar, br, t)
	g := lerpChannel(ag, bg, t)
	bl := lerpChannel(ab, bb, t)
	return fmt.Sprintf("rgb(%d,%d,%d)", r, g, bl)
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + t*(float64(b)-float64(a))))
}

// parseColor understands rgb(r,g,b), rgba(r,g,b,a) and #-optional 3/6-digit
// hex. Alpha defaults to 1. Anything else reports ok=false.
func parseColor(s string) (r, g, b uint8, alpha float64, ok bool) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba("):
		return parseRGBFunc(lower)
	default:
		return parseHexColor(s)
	}
}

func parseRGBFunc(s string) (r, g, b uint8, alpha float64, ok bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return 0, 0, 0, 0, false
	}
	wantAlpha := strings.HasPrefix(s, "rgba")

	parts := strings.Split(s[open+1:len(s)-1], ",")
	if (wantAlpha && len(parts) != 4) || (!wantAlpha && len(parts) != 3) {
		return 0, 0, 0, 0, false
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return 0, 0, 0, 0, false
		}
		ch[i] = uint8(v)
	}

	alpha = 1.0
	if wantAlpha {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || v < 0 || v > 1 {
			return 0, 0, 0, 0, false
		}
		alpha = v
	}

	return ch[0], ch[1], ch[2], alpha, true
}

func parseHexColor(s string) (r, g, b uint8, alpha float64, ok bool) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 3 && len(hex) != 6 {
		return 0, 0, 0, 0, false
	}
	for _, c := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return 0, 0, 0, 0, false
		}
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return 0, 0, 0, 0, false
	}
	cr, cg, cb := c.RGB255()
	return cr, cg, cb, 1.0, true
}
