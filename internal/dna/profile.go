package dna

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when an analysis payload does not have the expected shape.
var ErrMalformedResponse = errors.New("invalid response from AI")

// Profile is the result of one analysis: five scores in [0,100] and a textual summary.
type Profile struct {
	Empathy    float64 `json:"empathy" yaml:"empathy"`
	Curiosity  float64 `json:"curiosity" yaml:"curiosity"`
	Chaos      float64 `json:"chaos" yaml:"chaos"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Creativity float64 `json:"creativity" yaml:"creativity"`
	Summary    string  `json:"summary" yaml:"summary"`
}

// Score returns the value of one emotion.
func (p Profile) Score(e Emotion) float64 {
	switch e {
	case Empathy:
		return p.Empathy
	case Curiosity:
		return p.Curiosity
	case Chaos:
		return p.Chaos
	case Confidence:
		return p.Confidence
	case Creativity:
		return p.Creativity
	}
	return 0
}

// Weights returns the scores keyed by emotion name, the input shape of Blend.
func (p Profile) Weights() map[string]float64 {
	w := make(map[string]float64, len(Emotions))
	for _, e := range Emotions {
		w[string(e)] = p.Score(e)
	}
	return w
}

// Color is the blended helix color of the profile.
func (p Profile) Color() HSL {
	return Blend(p.Weights())
}

// Top returns the highest scoring emotion. Ties keep the earliest in canonical order.
func (p Profile) Top() Emotion {
	top := Emotions[0]
	for _, e := range Emotions[1:] {
		if p.Score(e) > p.Score(top) {
			top = e
		}
	}
	return top
}

// DominantColor is the base color of the top emotion.
func (p Profile) DominantColor() HSL {
	return p.Top().Color()
}

// ParseProfile validates a raw analysis payload. All five scores must be present
// JSON numbers and the summary a non-empty string.
func ParseProfile(raw []byte) (*Profile, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedResponse)
	}

	var p Profile
	for _, e := range Emotions {
		v, ok := fields[string(e)]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, e)
		}
		n, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a number", ErrMalformedResponse, e)
		}
		p.set(e, n)
	}

	summary, _ := fields["summary"].(string)
	if summary == "" {
		return nil, fmt.Errorf("%w: missing summary", ErrMalformedResponse)
	}
	p.Summary = summary

	return &p, nil
}

func (p *Profile) set(e Emotion, v float64) {
	switch e {
	case Empathy:
		p.Empathy = v
	case Curiosity:
		p.Curiosity = v
	case Chaos:
		p.Chaos = v
	case Confidence:
		p.Confidence = v
	case Creativity:
		p.Creativity = v
	}
}
