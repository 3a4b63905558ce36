package atoms

import "testing"

func TestRotorIgnoresStaleTicks(t *testing.T) {
	r := NewRotor(0.5)
	if r.Start() == nil {
		t.Fatal("Start should return a tick")
	}
	if r.Start() != nil {
		t.Error("second Start on a running rotor should be a no-op")
	}

	r, cmd := r.Update(RotorTickMsg{gen: r.gen})
	if cmd == nil || r.Phase != 0.5 {
		t.Errorf("phase = %v, want 0.5 and a next tick", r.Phase)
	}

	old := r.gen
	r.Stop()
	r, cmd = r.Update(RotorTickMsg{gen: old})
	if cmd != nil || r.Phase != 0.5 {
		t.Error("stopped rotor must not advance")
	}
	if r.Running() {
		t.Error("rotor should be stopped")
	}
}
