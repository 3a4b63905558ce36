package models

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/dohr-michael/promptdna/internal/dna"
)

// lexicon holds the cue words counted for each emotion by the mock provider.
var lexicon = map[dna.Emotion][]string{
	dna.Empathy:    {"love", "care", "kind", "help", "feel", "friend", "together", "sorry", "thank", "heart", "hope", "support"},
	dna.Curiosity:  {"why", "how", "what", "wonder", "learn", "explore", "discover", "question", "curious", "maybe", "if", "understand"},
	dna.Chaos:      {"chaos", "random", "crazy", "wild", "mess", "suddenly", "storm", "break", "everything", "whatever", "fire", "spin"},
	dna.Confidence: {"will", "must", "always", "never", "sure", "certain", "definitely", "know", "can", "best", "win", "lead"},
	dna.Creativity: {"imagine", "create", "dream", "idea", "art", "color", "invent", "design", "story", "build", "magic", "new"},
}

var summaries = map[dna.Emotion]string{
	dna.Empathy:    "A warm current runs through these words, reaching outward to hold someone close.",
	dna.Curiosity:  "A restless mind leans into the unknown, turning every line into a question worth chasing.",
	dna.Chaos:      "Sparks fly in every direction here, a beautiful storm that refuses to sit still.",
	dna.Confidence: "These words stand tall and certain, striding forward without looking back.",
	dna.Creativity: "An inventive spirit paints with language, sketching worlds that do not exist yet.",
}

// MockProvider is a deterministic keyword scorer for local development and tests.
type MockProvider struct {
	name string
}

// NewMock returns a mock provider.
func NewMock(name string) *MockProvider {
	if name == "" {
		name = "mock"
	}
	return &MockProvider{name: name}
}

func (m *MockProvider) Name() string { return m.name }

// Analyze scores text by cue word frequency with a stable per-text baseline.
func (m *MockProvider) Analyze(ctx context.Context, text string) (*dna.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: nothing to analyze", dna.ErrMalformedResponse)
	}

	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	scores := make(map[dna.Emotion]float64, len(dna.Emotions))
	for i, e := range dna.Emotions {
		hits := 0
		for _, w := range words {
			for _, cue := range lexicon[e] {
				if w == cue {
					hits++
				}
			}
		}
		base := float64((seed>>(i*5))%21) + 10
		scores[e] = math.Min(100, base+float64(hits)*100/math.Sqrt(float64(len(words))+1))
	}
	if strings.Contains(text, "?") {
		scores[dna.Curiosity] = math.Min(100, scores[dna.Curiosity]+15)
	}
	if strings.Contains(text, "!") {
		scores[dna.Confidence] = math.Min(100, scores[dna.Confidence]+10)
		scores[dna.Chaos] = math.Min(100, scores[dna.Chaos]+5)
	}

	p := &dna.Profile{
		Empathy:    math.Round(scores[dna.Empathy]),
		Curiosity:  math.Round(scores[dna.Curiosity]),
		Chaos:      math.Round(scores[dna.Chaos]),
		Confidence: math.Round(scores[dna.Confidence]),
		Creativity: math.Round(scores[dna.Creativity]),
	}
	p.Summary = summaries[p.Top()]
	return p, nil
}
