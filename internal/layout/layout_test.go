package layout

import "testing"

func TestPlace_LeftCornerShift(t *testing.T) {
	tests := []struct {
		left      float64
		wantShift int
	}{
		{-10, 10},
		{-0.5, 1},  // rounded up
		{-12.2, 13},
	}
	for _, tt := range tests {
		state, shift := Place(Rect{Left: tt.left, Width: 200}, Rect{Left: 20, Width: 40}, 800)
		if state != StateLeftCorner {
			t.Errorf("left=%v: state = %q, want left-corner", tt.left, state)
		}
		if shift != tt.wantShift {
			t.Errorf("left=%v: shift = %d, want %d", tt.left, shift, tt.wantShift)
		}
	}
}

func TestPlace_InMiddle(t *testing.T) {
	// Anchor centered at 400, popup half-width 100: 500 <= 800 fits.
	state, shift := Place(Rect{Left: 300, Width: 200}, Rect{Left: 380, Width: 40}, 800)
	if state != StateInMiddle {
		t.Errorf("state = %q, want in-middle", state)
	}
	if shift != 0 {
		t.Errorf("shift = %d, want 0", shift)
	}
}

func TestPlace_RightOverflowDefault(t *testing.T) {
	// Anchor near the right edge: centered placement would overflow.
	state, _ := Place(Rect{Left: 600, Width: 300}, Rect{Left: 760, Width: 40}, 800)
	if state != StateDefault {
		t.Errorf("state = %q, want default", state)
	}
}

func TestHover_Transitions(t *testing.T) {
	h := NewHover()
	if h.State() != StateIdle {
		t.Fatalf("initial state = %q", h.State())
	}

	state, shift := h.Enter(Rect{Left: -5, Width: 100}, Rect{Left: 0, Width: 30}, 800)
	if state != StateLeftCorner || shift != 5 {
		t.Errorf("enter = %q/%d, want left-corner/5", state, shift)
	}
	if h.State() != StateLeftCorner {
		t.Errorf("stored state = %q", h.State())
	}

	if got := h.Leave(); got != StateIdle {
		t.Errorf("leave = %q, want idle", got)
	}

	// Re-entry recomputes from fresh measurements, nothing is cached.
	state, _ = h.Enter(Rect{Left: 100, Width: 100}, Rect{Left: 120, Width: 30}, 800)
	if state != StateInMiddle {
		t.Errorf("re-entry state = %q, want in-middle", state)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name   string
		popup  Rect
		vw     float64
		want   float64
		wantOK bool
	}{
		{"fits", Rect{Left: 100, Width: 200}, 800, 0, false},
		{"right overflow", Rect{Left: 700, Width: 200}, 800, -100, true},
		{"left of origin", Rect{Left: -30, Width: 200}, 800, 30, true},
		{"exact fit", Rect{Left: 600, Width: 200}, 800, 0, false},
	}
	for _, tt := range tests {
		got, ok := Clamp(tt.popup, tt.vw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("%s: Clamp = %v/%v, want %v/%v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}
