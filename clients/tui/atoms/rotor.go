package atoms

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RotorInterval is the frame interval of the helix rotation.
const RotorInterval = 90 * time.Millisecond

// RotorTickMsg advances the rotor of the matching generation.
type RotorTickMsg struct {
	gen int
}

// Rotor turns a phase angle at a fixed rate for spinning drawings.
type Rotor struct {
	Phase   float64
	step    float64
	gen     int
	running bool
}

// NewRotor creates a rotor advancing step radians per frame.
func NewRotor(step float64) Rotor {
	return Rotor{step: step}
}

// Start begins ticking. Calling it on a running rotor is a no-op.
func (r *Rotor) Start() tea.Cmd {
	if r.running {
		return nil
	}
	r.running = true
	r.gen++
	return r.tick()
}

// Stop halts the rotor; pending ticks are dropped.
func (r *Rotor) Stop() {
	r.running = false
	r.gen++
}

// Running reports whether the rotor ticks.
func (r Rotor) Running() bool { return r.running }

func (r Rotor) tick() tea.Cmd {
	gen := r.gen
	return tea.Tick(RotorInterval, func(time.Time) tea.Msg {
		return RotorTickMsg{gen: gen}
	})
}

// Update advances the phase on tick messages.
func (r Rotor) Update(msg tea.Msg) (Rotor, tea.Cmd) {
	if m, ok := msg.(RotorTickMsg); ok && r.running && m.gen == r.gen {
		r.Phase = math.Mod(r.Phase+r.step, 2*math.Pi)
		return r, r.tick()
	}
	return r, nil
}
