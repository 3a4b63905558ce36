package atoms

import "github.com/charmbracelet/lipgloss"

// Badge renders text as a pill on a colored background.
func Badge(text string, bg lipgloss.TerminalColor) string {
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(lipgloss.Color("#ffffff")).
		Bold(true).
		Padding(0, 2).
		Render(text)
}
