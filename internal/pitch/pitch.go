// Package pitch turns compact pitch-accent notation into styled markup.
//
// A word's contour is rendered as one span per contiguous pitch level, using
// the same style vocabulary accent dictionaries ship in their formatted
// notation: low_rise, high, high_drop, low, plus a trailing pitch_number tag.
package pitch

import (
	"fmt"

	"github.com/kumoshiro/pitchcard/internal/dom"
	"github.com/kumoshiro/pitchcard/internal/mora"
	"golang.org/x/net/html"
)

// Contour classifies where (if anywhere) the pitch drops.
type Contour string

const (
	// Heiban: low first mora, high for the rest, no drop.
	Heiban Contour = "heiban"
	// Atamadaka: high first mora, drop immediately after it.
	Atamadaka Contour = "atamadaka"
	// Odaka: rises after the first mora, drops after the word ends.
	Odaka Contour = "odaka"
	// Nakadaka: rises after the first mora, drops mid-word at Drop.
	Nakadaka Contour = "nakadaka"
)

// Style class names, matching the formatted notation stored in accent
// dictionaries.
const (
	ClassLowRise     = "low_rise"
	ClassHigh        = "high"
	ClassHighDrop    = "high_drop"
	ClassLow         = "low"
	ClassPitchNumber = "pitch_number"
)

// Accent is one pronunciation of one word (or part of a compound word).
type Accent struct {
	Reading string
	Contour Contour
	Drop    int // mora index of the downstep; meaningful only for Nakadaka
}

// UnknownContourError reports a contour tag outside the fixed enumeration.
type UnknownContourError struct {
	Contour Contour
}

func (e *UnknownContourError) Error() string {
	return fmt.Sprintf("unknown contour type %q", string(e.Contour))
}

// DropRangeError reports a nakadaka drop index outside [1, moraCount-1].
type DropRangeError struct {
	Drop      int
	MoraCount int
}

func (e *DropRangeError) Error() string {
	return fmt.Sprintf("nakadaka drop %d out of range [1,%d]", e.Drop, e.MoraCount-1)
}

// partition is a run of morae sharing one pitch level.
type partition struct {
	class string
	morae []string
}

// Format renders one accent as styled spans followed by a numeric tag span.
// Adjacent same-level morae always share a single span.
func Format(a Accent) ([]*html.Node, error) {
	morae := mora.Segment(a.Reading)
	if len(morae) == 0 {
		return nil, fmt.Errorf("empty reading")
	}

	var parts []partition
	var tag int

	switch a.Contour {
	case Atamadaka:
		parts = []partition{
			{ClassHighDrop, morae[:1]},
			{ClassLow, morae[1:]},
		}
		tag = 1
	case Heiban:
		parts = []partition{
			{ClassLowRise, morae[:1]},
			{ClassHigh, morae[1:]},
		}
		tag = 0
	case Odaka:
		parts = []partition{
			{ClassLowRise, morae[:1]},
			{ClassHighDrop, morae[1:]},
		}
		tag = len(morae)
	case Nakadaka:
		if a.Drop < 1 || a.Drop > len(morae)-1 {
			return nil, &DropRangeError{Drop: a.Drop, MoraCount: len(morae)}
		}
		parts = []partition{
			{ClassLowRise, morae[:1]},
			{ClassHighDrop, morae[1:a.Drop]},
			{ClassLow, morae[a.Drop:]},
		}
		tag = a.Drop
	default:
		return nil, &UnknownContourError{Contour: a.Contour}
	}

	var out []*html.Node
	for _, p := range parts {
		if len(p.morae) == 0 {
			continue
		}
		text := ""
		for _, m := range p.morae {
			text += m
		}
		out = append(out, dom.Span(p.class, text))
	}
	out = append(out, dom.Span(ClassPitchNumber, fmt.Sprintf("%d", tag)))
	return out, nil
}
