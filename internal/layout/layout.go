// Package layout decides tooltip placement from measured rectangles.
//
// The rendering host owns the real geometry; it reports a popup's rendered
// rectangle and the viewport width, and gets back a placement class and a
// pixel shift. Nothing here touches a document tree.
package layout

import "math"

// Rect is a measured bounding rectangle in viewport coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// State is the hover placement of a tooltip popup.
type State string

const (
	// StateIdle: not hovered, no placement class applied.
	StateIdle State = "idle"
	// StateLeftCorner: the popup would overflow the left viewport edge and
	// is shifted right by the reported amount.
	StateLeftCorner State = "left-corner"
	// StateInMiddle: the popup fits centered over its anchor.
	StateInMiddle State = "in-middle"
	// StateDefault: right-side overflow; the creation-time clamp already
	// anchored the popup, so no placement class is applied.
	StateDefault State = "default"
)

// Hover tracks the placement state of one tooltip across hover events.
// Placement is recomputed from fresh measurements on every entry.
type Hover struct {
	state State
}

// NewHover starts in the idle state.
func NewHover() *Hover {
	return &Hover{state: StateIdle}
}

// State returns the current placement state.
func (h *Hover) State() State {
	if h.state == "" {
		return StateIdle
	}
	return h.state
}

// Enter classifies placement for a hover entry and returns the state plus
// the rightward shift in whole pixels (nonzero only for StateLeftCorner).
func (h *Hover) Enter(popup Rect, anchor Rect, viewportWidth float64) (State, int) {
	state, shift := Place(popup, anchor, viewportWidth)
	h.state = state
	return state, shift
}

// Leave clears any placement class.
func (h *Hover) Leave() State {
	h.state = StateIdle
	return h.state
}

// Place computes hover placement without touching stored state.
func Place(popup Rect, anchor Rect, viewportWidth float64) (State, int) {
	if popup.Left < 0 {
		// Shift right by the overflow amount, rounded up so the popup edge
		// never stays off-screen by a fraction of a pixel.
		return StateLeftCorner, int(math.Ceil(-popup.Left))
	}
	center := anchor.Left + anchor.Width/2
	if center+popup.Width/2 <= viewportWidth {
		return StateInMiddle, 0
	}
	return StateDefault, 0
}

// Clamp computes the one-time horizontal offset applied when a popup is
// created: an explicit left offset that keeps the popup inside the viewport
// when it would overflow the right edge or start left of the origin. The
// boolean reports whether an offset is needed at all.
func Clamp(popup Rect, viewportWidth float64) (float64, bool) {
	if popup.Left < 0 {
		return -popup.Left, true
	}
	if right := popup.Left + popup.Width; right > viewportWidth {
		return viewportWidth - right, true
	}
	return 0, false
}
