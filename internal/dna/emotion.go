// Package dna holds the emotion profile model and the color blending used to render it.
package dna

import "strings"

// Emotion identifies one of the five scored dimensions.
type Emotion string

const (
	Empathy    Emotion = "empathy"
	Curiosity  Emotion = "curiosity"
	Chaos      Emotion = "chaos"
	Confidence Emotion = "confidence"
	Creativity Emotion = "creativity"
)

// Emotions lists every emotion in canonical display order.
var Emotions = []Emotion{Empathy, Curiosity, Chaos, Confidence, Creativity}

var baseColors = map[Emotion]HSL{
	Empathy:    {H: 340, S: 100, L: 60},
	Curiosity:  {H: 210, S: 100, L: 55},
	Chaos:      {H: 270, S: 100, L: 60},
	Confidence: {H: 25, S: 100, L: 55},
	Creativity: {H: 160, S: 100, L: 50},
}

// ParseEmotion resolves a case-insensitive emotion name.
func ParseEmotion(name string) (Emotion, bool) {
	e := Emotion(strings.ToLower(strings.TrimSpace(name)))
	_, ok := baseColors[e]
	return e, ok
}

// Label returns the capitalized display name.
func (e Emotion) Label() string {
	if e == "" {
		return ""
	}
	return strings.ToUpper(string(e[:1])) + string(e[1:])
}

// Color returns the base color of the emotion. Unknown emotions get the fallback color.
func (e Emotion) Color() HSL {
	if c, ok := baseColors[e]; ok {
		return c
	}
	return FallbackColor
}

// IntensityLabel buckets a 0-100 score for display.
func IntensityLabel(value float64) string {
	switch {
	case value > 75:
		return "Very High"
	case value > 50:
		return "High"
	case value > 25:
		return "Moderate"
	default:
		return "Low"
	}
}
