package organisms

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dohr-michael/promptdna/internal/dna"
	"github.com/dohr-michael/promptdna/internal/render"
)

// BarStagger is the delay between the start of consecutive bars.
const BarStagger = 100 * time.Millisecond

// BarStartMsg starts filling bar Index of the matching generation.
type BarStartMsg struct {
	Gen   int
	Index int
}

// EmotionBars animates one progress bar per emotion. Each bar starts
// filling after its own staggered delay; the spring animation comes
// from bubbles/progress.
type EmotionBars struct {
	bars    []progress.Model
	values  []float64
	started []bool
	gen     int
	width   int
}

// NewEmotionBars creates empty bars.
func NewEmotionBars(width int) EmotionBars {
	b := EmotionBars{width: width}
	b.reset()
	return b
}

func (b *EmotionBars) reset() {
	b.bars = make([]progress.Model, len(dna.Emotions))
	for i, e := range dna.Emotions {
		b.bars[i] = render.NewBar(e, b.width)
	}
	b.values = make([]float64, len(dna.Emotions))
	b.started = make([]bool, len(dna.Emotions))
}

// SetWidth resizes the bars.
func (b *EmotionBars) SetWidth(w int) {
	b.width = w
	for i := range b.bars {
		b.bars[i].Width = w
	}
}

// Start empties the bars and schedules their fill toward p's scores.
func (b *EmotionBars) Start(p dna.Profile) tea.Cmd {
	b.gen++
	b.reset()

	gen := b.gen
	cmds := make([]tea.Cmd, len(dna.Emotions))
	for i, e := range dna.Emotions {
		b.values[i] = p.Score(e)
		idx := i
		cmds[i] = tea.Tick(time.Duration(i+1)*BarStagger, func(time.Time) tea.Msg {
			return BarStartMsg{Gen: gen, Index: idx}
		})
	}
	return tea.Batch(cmds...)
}

// Clear drops the bars and any pending start.
func (b *EmotionBars) Clear() {
	b.gen++
	b.reset()
}

// Started reports whether bar i has begun filling.
func (b EmotionBars) Started(i int) bool {
	return i >= 0 && i < len(b.started) && b.started[i]
}

// Update handles bar start and animation frame messages.
func (b EmotionBars) Update(msg tea.Msg) (EmotionBars, tea.Cmd) {
	switch msg := msg.(type) {
	case BarStartMsg:
		if msg.Gen != b.gen || msg.Index < 0 || msg.Index >= len(b.bars) {
			return b, nil
		}
		b.started[msg.Index] = true
		return b, b.bars[msg.Index].SetPercent(render.Fraction(b.values[msg.Index]))

	case progress.FrameMsg:
		var cmds []tea.Cmd
		for i := range b.bars {
			m, cmd := b.bars[i].Update(msg)
			b.bars[i] = m.(progress.Model)
			cmds = append(cmds, cmd)
		}
		return b, tea.Batch(cmds...)
	}
	return b, nil
}

// View renders the bars in canonical order. A bar reads 0% until its fill starts.
func (b EmotionBars) View() string {
	lines := make([]string, len(dna.Emotions))
	for i, e := range dna.Emotions {
		var v float64
		if b.started[i] {
			v = b.values[i]
		}
		lines[i] = render.BarLine(e, v, b.bars[i].View())
	}
	return strings.Join(lines, "\n")
}
