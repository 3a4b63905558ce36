package tui

import (
	"github.com/dohr-michael/promptdna/internal/dna"
	"github.com/dohr-michael/promptdna/internal/render"
)

func renderHelix(c dna.HSL, phase float64) string {
	return render.Helix(c, helixRows, helixWidth, phase)
}

// barWidth leaves room for the label and the percentage column.
func barWidth(total int) int {
	return max(10, min(40, total-render.LabelWidth-20))
}
