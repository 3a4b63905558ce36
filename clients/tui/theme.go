// Package tui provides the interactive terminal client of Prompt DNA.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/promptdna/internal/dna"
)

// Adaptive colors (light/dark terminal detection).
var (
	ColorAccent   = lipgloss.Color(dna.DefaultAccent)
	ColorError    = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF6B6B"}
	ColorSuccess  = lipgloss.AdaptiveColor{Light: "#065F46", Dark: "#7EE2B8"}
	ColorMuted    = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorStatusBg = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"}
	ColorStatusFg = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#D1D5DB"}
)

// Component styles.
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorStatusBg).
			Foreground(ColorStatusFg)

	HeadingStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// AccentStyle colors text with the profile's blended color.
func AccentStyle(c dna.HSL) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Bold(true)
}
