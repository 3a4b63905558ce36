package organisms

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/promptdna/internal/dna"
	"github.com/dohr-michael/promptdna/internal/workflow"
)

func TestEmotionBarsStartGeneration(t *testing.T) {
	b := NewEmotionBars(20)
	p := dna.Profile{Empathy: 90, Curiosity: 10, Chaos: 50, Confidence: 30, Creativity: 70, Summary: "s"}

	if cmd := b.Start(p); cmd == nil {
		t.Fatal("Start should schedule the bars")
	}
	gen := b.gen

	b, _ = b.Update(BarStartMsg{Gen: gen - 1, Index: 0})
	if b.Started(0) {
		t.Error("start from an older generation must be ignored")
	}

	b, cmd := b.Update(BarStartMsg{Gen: gen, Index: 2})
	if !b.Started(2) {
		t.Error("bar 2 should be started")
	}
	if cmd == nil {
		t.Error("starting a bar should animate it")
	}
	if b.Started(1) {
		t.Error("bar 1 should still be pending")
	}

	b.Clear()
	if b.Started(2) {
		t.Error("Clear should drop started bars")
	}
}

func TestEmotionBarsView(t *testing.T) {
	b := NewEmotionBars(10)
	b.Start(dna.Profile{Empathy: 80, Curiosity: 60, Chaos: 30, Confidence: 10, Creativity: 100, Summary: "s"})

	lines := strings.Split(b.View(), "\n")
	if len(lines) != len(dna.Emotions) {
		t.Fatalf("expected %d lines, got %d", len(dna.Emotions), len(lines))
	}
	for i, e := range dna.Emotions {
		if !strings.Contains(lines[i], e.Label()) {
			t.Errorf("line %d = %q, want label %s", i, lines[i], e.Label())
		}
	}
	for i, line := range lines {
		if !strings.Contains(line, "  0%") || strings.Contains(line, "High") {
			t.Errorf("line %d before start = %q, want 0%%", i, line)
		}
	}

	b, _ = b.Update(BarStartMsg{Gen: b.gen, Index: 0})
	lines = strings.Split(b.View(), "\n")
	if !strings.Contains(lines[0], "80%") || !strings.Contains(lines[0], "Very High") {
		t.Errorf("empathy 80 should read Very High once started: %q", lines[0])
	}
	if !strings.Contains(lines[4], "  0%") {
		t.Errorf("creativity not started yet: %q", lines[4])
	}
}

func TestHints(t *testing.T) {
	tests := []struct {
		state workflow.State
		want  string
	}{
		{workflow.StateInput, "ctrl+s"},
		{workflow.StateAnalyzing, "cancel"},
		{workflow.StateResults, "ctrl+y share"},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := Hints(tt.state); !strings.Contains(got, tt.want) {
				t.Errorf("Hints(%s) = %q, want %q", tt.state, got, tt.want)
			}
		})
	}
}

func TestStatusBarNotice(t *testing.T) {
	s := NewStatusBar(lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle())
	s.SetSession("0123456789abcdef")
	s.SetState(workflow.StateInput)
	s.SetWidth(100)

	v := s.View()
	if !strings.Contains(v, "sess:01234567") || strings.Contains(v, "89abcdef") {
		t.Errorf("session id should be shortened: %q", v)
	}

	s.SetNotice(&workflow.Notice{Title: "Copied to clipboard!", Description: "Share your Prompt DNA result"})
	if v := s.View(); !strings.Contains(v, "Copied to clipboard!: Share your Prompt DNA result") {
		t.Errorf("notice missing: %q", v)
	}
}

func TestIntro(t *testing.T) {
	v := Intro(60, 0)
	for _, want := range []string{"Prompt DNA", "Decode the Soul of Your Words"} {
		if !strings.Contains(v, want) {
			t.Errorf("intro missing %q", want)
		}
	}
}
