package dna

import (
	"fmt"
	"math"
)

// HSL is a hue/saturation/lightness triple with integer channels.
// Hue is in [0,360), saturation and lightness in [0,100].
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// FallbackColor is returned by Blend when no weight is positive.
var FallbackColor = HSL{H: 193, S: 100, L: 50}

// DefaultAccent is the accent used before any profile exists.
const DefaultAccent = "#00c8ff"

// Blend computes the weighted average of the base colors of the known emotions in weights.
// Keys must be exact emotion names. Unknown keys, negative, NaN and infinite weights are ignored.
// Weights are divided by the largest one before summing so huge finite values cannot overflow.
func Blend(weights map[string]float64) HSL {
	var peak float64
	for name, w := range weights {
		if _, ok := baseColors[Emotion(name)]; ok && validWeight(w) {
			peak = max(peak, w)
		}
	}
	if peak == 0 {
		return FallbackColor
	}

	var totalH, totalS, totalL, totalWeight float64
	for name, w := range weights {
		c, ok := baseColors[Emotion(name)]
		if !ok || !validWeight(w) {
			continue
		}
		w /= peak
		totalH += float64(c.H) * w
		totalS += float64(c.S) * w
		totalL += float64(c.L) * w
		totalWeight += w
	}

	return HSL{
		H: roundHalfUp(totalH / totalWeight),
		S: roundHalfUp(totalS / totalWeight),
		L: roundHalfUp(totalL / totalWeight),
	}
}

func validWeight(w float64) bool {
	return w > 0 && !math.IsInf(w, 0)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// String renders the color as a CSS hsl() expression.
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.H, c.S, c.L)
}

// Hex converts the color to #rrggbb.
func (c HSL) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// RGB converts the color to 8-bit red, green and blue channels.
func (c HSL) RGB() (r, g, b uint8) {
	h := math.Mod(float64(c.H), 360)
	if h < 0 {
		h += 360
	}
	s := clamp01(float64(c.S) / 100)
	l := clamp01(float64(c.L) / 100)

	chroma := (1 - math.Abs(2*l-1)) * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - chroma/2

	var rf, gf, bf float64
	switch {
	case h < 60:
		rf, gf, bf = chroma, x, 0
	case h < 120:
		rf, gf, bf = x, chroma, 0
	case h < 180:
		rf, gf, bf = 0, chroma, x
	case h < 240:
		rf, gf, bf = 0, x, chroma
	case h < 300:
		rf, gf, bf = x, 0, chroma
	default:
		rf, gf, bf = chroma, 0, x
	}

	return to8(rf + m), to8(gf + m), to8(bf + m)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
