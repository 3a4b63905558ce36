package dna

import (
	"errors"
	"strings"
	"testing"
)

func TestParseProfile_Valid(t *testing.T) {
	raw := `{"empathy": 80, "curiosity": 62.5, "chaos": 10, "confidence": 45, "creativity": 90, "summary": "A gentle dreamer."}`

	p, err := ParseProfile([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}

	want := Profile{Empathy: 80, Curiosity: 62.5, Chaos: 10, Confidence: 45, Creativity: 90, Summary: "A gentle dreamer."}
	if *p != want {
		t.Errorf("got %+v, want %+v", *p, want)
	}
}

func TestParseProfile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"not json", `<html>`, "invalid response"},
		{"null", `null`, "empty payload"},
		{"missing field", `{"empathy": 1, "curiosity": 1, "chaos": 1, "confidence": 1, "summary": "x"}`, "missing creativity"},
		{"string score", `{"empathy": "80", "curiosity": 1, "chaos": 1, "confidence": 1, "creativity": 1, "summary": "x"}`, "empathy is not a number"},
		{"null score", `{"empathy": 1, "curiosity": null, "chaos": 1, "confidence": 1, "creativity": 1, "summary": "x"}`, "curiosity is not a number"},
		{"missing summary", `{"empathy": 1, "curiosity": 1, "chaos": 1, "confidence": 1, "creativity": 1}`, "missing summary"},
		{"empty summary", `{"empathy": 1, "curiosity": 1, "chaos": 1, "confidence": 1, "creativity": 1, "summary": ""}`, "missing summary"},
		{"array", `[1,2,3]`, "invalid response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestProfile_Top(t *testing.T) {
	tests := []struct {
		p    Profile
		want Emotion
	}{
		{Profile{Empathy: 10, Curiosity: 20, Chaos: 5, Confidence: 1, Creativity: 19}, Curiosity},
		{Profile{Creativity: 99}, Creativity},
		{Profile{}, Empathy},
		{Profile{Chaos: 50, Confidence: 50}, Chaos},
	}

	for _, tt := range tests {
		if got := tt.p.Top(); got != tt.want {
			t.Errorf("Top(%+v) = %s, want %s", tt.p, got, tt.want)
		}
	}
}

func TestProfile_ColorMatchesBlend(t *testing.T) {
	p := Profile{Empathy: 10}
	if got := p.Color(); got != (HSL{H: 340, S: 100, L: 60}) {
		t.Errorf("got %v", got)
	}
	if got := (Profile{}).Color(); got != FallbackColor {
		t.Errorf("zero profile: got %v, want fallback", got)
	}
	if got := (Profile{Confidence: 3, Chaos: 1}).DominantColor(); got != Confidence.Color() {
		t.Errorf("dominant: got %v", got)
	}
}

func TestIntensityLabel(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "Low"}, {25, "Low"}, {25.1, "Moderate"}, {50, "Moderate"},
		{51, "High"}, {75, "High"}, {76, "Very High"}, {100, "Very High"},
	}
	for _, tt := range tests {
		if got := IntensityLabel(tt.v); got != tt.want {
			t.Errorf("IntensityLabel(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestParseEmotion(t *testing.T) {
	if e, ok := ParseEmotion(" Chaos "); !ok || e != Chaos {
		t.Errorf("got %q, %v", e, ok)
	}
	if _, ok := ParseEmotion("joy"); ok {
		t.Error("joy should not parse")
	}
	if got := Creativity.Label(); got != "Creativity" {
		t.Errorf("Label() = %q", got)
	}
}

func TestParseProfile_HugeScoresColor(t *testing.T) {
	raw := `{"empathy": 1e308, "curiosity": 1e308, "chaos": 0, "confidence": 0, "creativity": 0, "summary": "loud"}`

	p, err := ParseProfile([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := p.Color(), (HSL{H: 275, S: 100, L: 58}); got != want {
		t.Errorf("Color() = %v, want %v", got, want)
	}
}
