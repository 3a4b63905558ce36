package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/dohr-michael/promptdna/internal/dna"
)

// SystemPrompt instructs a chat model to answer with the profile JSON object.
const SystemPrompt = `You are an emotional analysis engine. Read the user's text and rate how strongly it expresses each of these traits, from 0 to 100:

- empathy: care, warmth, concern for others
- curiosity: questions, wonder, desire to learn
- chaos: disorder, impulsiveness, unpredictability
- confidence: assertiveness, certainty, self-belief
- creativity: imagination, novelty, playfulness

Also write "summary": one poetic sentence (max 25 words) describing the writer's emotional DNA.

Respond with ONLY a JSON object of this exact shape, no prose and no code fences:
{"empathy": 0, "curiosity": 0, "chaos": 0, "confidence": 0, "creativity": 0, "summary": ""}`

// ParseModelOutput extracts the profile from a model reply. Code fences and
// surrounding prose are stripped and malformed JSON is repaired before the
// payload is validated. Scores are clamped to [0,100].
func ParseModelOutput(content string) (*dna.Profile, error) {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		} else {
			s = s[start:]
		}
	}

	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dna.ErrMalformedResponse, err)
	}

	p, err := dna.ParseProfile([]byte(repaired))
	if err != nil {
		return nil, err
	}

	p.Empathy = clampScore(p.Empathy)
	p.Curiosity = clampScore(p.Curiosity)
	p.Chaos = clampScore(p.Chaos)
	p.Confidence = clampScore(p.Confidence)
	p.Creativity = clampScore(p.Creativity)
	p.Summary = strings.TrimSpace(p.Summary)
	return p, nil
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
