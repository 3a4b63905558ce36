package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/promptdna/internal/dna"
)

// LabelWidth is the padded width of the emotion name column.
const LabelWidth = 11

// NewBar returns a progress bar filled with the emotion's base color.
func NewBar(e dna.Emotion, width int) progress.Model {
	bar := progress.New(
		progress.WithSolidFill(e.Color().Hex()),
		progress.WithoutPercentage(),
	)
	bar.Width = width
	return bar
}

// Fraction converts a 0-100 score to a bar fill, clamped to [0,1].
func Fraction(value float64) float64 {
	return max(0, min(1, value/100))
}

// BarLine lays out one emotion row around an already rendered bar.
func BarLine(e dna.Emotion, value float64, bar string) string {
	label := lipgloss.NewStyle().
		Foreground(lipgloss.Color(e.Color().Hex())).
		Bold(true).
		Width(LabelWidth).
		Render(e.Label())
	meta := lipgloss.NewStyle().Faint(true).
		Render(fmt.Sprintf("%3.0f%%  %s", value, dna.IntensityLabel(value)))
	return label + " " + bar + " " + meta
}

// Bars renders the five emotion bars of p at their final fill.
func Bars(p dna.Profile, width int) string {
	lines := make([]string, 0, len(dna.Emotions))
	for _, e := range dna.Emotions {
		v := p.Score(e)
		bar := NewBar(e, width)
		lines = append(lines, BarLine(e, v, bar.ViewAs(Fraction(v))))
	}
	return strings.Join(lines, "\n")
}
