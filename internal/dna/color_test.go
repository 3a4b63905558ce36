package dna

import "testing"

func TestBlend_AllZeroReturnsFallback(t *testing.T) {
	tests := []map[string]float64{
		nil,
		{},
		{"empathy": 0, "curiosity": 0, "chaos": 0, "confidence": 0, "creativity": 0},
		{"unknown": 42},
		{"empathy": -5},
	}

	for _, weights := range tests {
		if got := Blend(weights); got != FallbackColor {
			t.Errorf("Blend(%v) = %v, want fallback %v", weights, got, FallbackColor)
		}
	}
}

func TestBlend_SingleWeightReturnsBaseColor(t *testing.T) {
	for _, e := range Emotions {
		weights := map[string]float64{
			"empathy": 0, "curiosity": 0, "chaos": 0, "confidence": 0, "creativity": 0,
		}
		weights[string(e)] = 10

		if got := Blend(weights); got != e.Color() {
			t.Errorf("%s: got %v, want %v", e, got, e.Color())
		}
	}

	got := Blend(map[string]float64{"empathy": 10})
	want := HSL{H: 340, S: 100, L: 60}
	if got != want {
		t.Errorf("empathy only: got %v, want %v", got, want)
	}
}

func TestBlend_WeightedAverage(t *testing.T) {
	got := Blend(map[string]float64{"empathy": 10, "curiosity": 10})
	want := HSL{H: 275, S: 100, L: 58} // 57.5 rounds up
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	got = Blend(map[string]float64{"empathy": 3, "chaos": 7, "creativity": 5})
	want = HSL{H: 247, S: 100, L: 57}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBlend_ScaleInvariant(t *testing.T) {
	base := map[string]float64{"empathy": 12, "curiosity": 40, "chaos": 3, "confidence": 77, "creativity": 25}
	want := Blend(base)

	for _, k := range []float64{0.5, 2, 4, 1024} {
		scaled := make(map[string]float64, len(base))
		for name, w := range base {
			scaled[name] = w * k
		}
		if got := Blend(scaled); got != want {
			t.Errorf("scale %v: got %v, want %v", k, got, want)
		}
	}
}

func TestBlend_IgnoresUnknownKeys(t *testing.T) {
	got := Blend(map[string]float64{"confidence": 50, "summary": 99, "joy": 10})
	if got != Confidence.Color() {
		t.Errorf("got %v, want %v", got, Confidence.Color())
	}
}

func TestBlend_HugeWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights map[string]float64
		want    HSL
	}{
		{"single max float", map[string]float64{"empathy": 1e308}, Empathy.Color()},
		{"two max floats", map[string]float64{"empathy": 1e308, "curiosity": 1e308}, HSL{H: 275, S: 100, L: 58}},
		{"huge and small", map[string]float64{"chaos": 1.7e308, "confidence": 1e-300}, Chaos.Color()},
		{"subnormal", map[string]float64{"creativity": 5e-324}, Creativity.Color()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Blend(tt.weights); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlend_ExactKeysOnly(t *testing.T) {
	got := Blend(map[string]float64{"Empathy": 10, "empathy": 10, "curiosity": 10})
	want := HSL{H: 275, S: 100, L: 58}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := Blend(map[string]float64{" Chaos ": 50, "CHAOS": 20}); got != FallbackColor {
		t.Errorf("non-canonical keys: got %v, want fallback", got)
	}
}

func TestHSL_Formatting(t *testing.T) {
	if got := FallbackColor.String(); got != "hsl(193, 100%, 50%)" {
		t.Errorf("String() = %q", got)
	}
	if got := FallbackColor.Hex(); got != DefaultAccent {
		t.Errorf("Hex() = %q, want %q", got, DefaultAccent)
	}
	if got := Empathy.Color().Hex(); got != "#ff3377" {
		t.Errorf("empathy Hex() = %q, want #ff3377", got)
	}
}
