// Package render draws the DNA helix and emotion bars for terminals.
package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/promptdna/internal/dna"
)

// helixPeriod is the number of rows for one full turn of the helix.
const helixPeriod = 12

// HelixLines draws a plain double helix of the given size. phase is in
// radians and rotates the helix; animating it spins the strands.
func HelixLines(rows, width int, phase float64) []string {
	if rows <= 0 || width < 5 {
		return nil
	}

	center := float64(width-1) / 2
	amp := center - 1
	lines := make([]string, rows)

	for y := 0; y < rows; y++ {
		a := phase + 2*math.Pi*float64(y)/helixPeriod
		s := math.Sin(a)
		left := int(math.Round(center - amp*s))
		right := int(math.Round(center + amp*s))

		row := []rune(strings.Repeat(" ", width))
		lo, hi := min(left, right), max(left, right)

		// Rungs on alternating rows, only where the strands are apart.
		if y%2 == 0 && hi-lo > 2 {
			for x := lo + 1; x < hi; x++ {
				row[x] = '-'
			}
		}

		front, back := 'O', 'o'
		if math.Cos(a) < 0 {
			front, back = back, front
		}
		if left == right {
			row[left] = 'X'
		} else {
			row[left] = front
			row[right] = back
		}
		lines[y] = strings.TrimRight(string(row), " ")
	}
	return lines
}

// Helix renders the helix colored with c.
func Helix(c dna.HSL, rows, width int, phase float64) string {
	strand := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Bold(true)
	rung := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Faint(true)

	lines := HelixLines(rows, width, phase)
	var b strings.Builder
	for i, line := range lines {
		for _, r := range line {
			switch r {
			case '-':
				b.WriteString(rung.Render(string(r)))
			case ' ':
				b.WriteRune(r)
			default:
				b.WriteString(strand.Render(string(r)))
			}
		}
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
