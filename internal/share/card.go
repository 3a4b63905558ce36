package share

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/promptdna/internal/dna"
)

// Card is the shareable summary of one analysis.
type Card struct {
	Text    string
	Profile dna.Profile
}

// Markdown is the card body: quote, dominant emotion and summary.
func (c Card) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "> \"%s\"\n\n", strings.ReplaceAll(Quote(c.Text), "\n", " "))
	fmt.Fprintf(&b, "**Dominated by: %s**\n\n", c.Profile.Top().Label())
	b.WriteString(c.Profile.Summary)
	b.WriteString("\n")
	return b.String()
}

// Render draws the card inside a border of the dominant color. The body goes
// through glamour and falls back to plain markdown if that fails.
func (c Card) Render(width int) string {
	if width < 24 {
		width = 24
	}
	accent := lipgloss.Color(c.Profile.DominantColor().Hex())
	inner := width - 4

	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Width(inner).Align(lipgloss.Center).
		Render("🧬 Prompt DNA")
	tag := lipgloss.NewStyle().Faint(true).Width(inner).Align(lipgloss.Center).
		Render("#PromptDNA")

	body := c.Markdown()
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(inner)); err == nil {
		if out, err := r.Render(body); err == nil {
			body = strings.Trim(out, "\n")
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, tag, "", body, "", lipgloss.NewStyle().Foreground(accent).Width(inner).Align(lipgloss.Center).Render("🧬")))
}
