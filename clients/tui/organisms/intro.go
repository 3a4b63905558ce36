package organisms

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/promptdna/internal/dna"
	"github.com/dohr-michael/promptdna/internal/render"
)

// Intro is the banner shown until the first result.
func Intro(width int, phase float64) string {
	accent := lipgloss.Color(dna.DefaultAccent)
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	title := center.Foreground(accent).Bold(true).Render("🧬 Prompt DNA")
	tagline := center.Faint(true).Render("Decode the Soul of Your Words")
	helix := center.Render(render.Helix(dna.FallbackColor, 6, 14, phase))

	return lipgloss.JoinVertical(lipgloss.Left, helix, "", title, tagline)
}
