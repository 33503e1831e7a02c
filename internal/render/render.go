// Package render applies pitch-accent formatting and furigana reflow to a
// flashcard's HTML fragment.
package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/kumoshiro/pitchcard/internal/dom"
	"github.com/kumoshiro/pitchcard/internal/furigana"
	"github.com/kumoshiro/pitchcard/internal/pitch"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// AttrPitch is the host-markup attribute carrying accent-group notation.
const AttrPitch = "pitch"

// ClassPitchPopup marks popups this renderer creates; stale ones are
// removed before every render.
const ClassPitchPopup = "pitch_popup"

// Report summarizes one card render.
type Report struct {
	PitchPopups  int      `json:"pitch_popups"`
	RubySeen     int      `json:"ruby_seen"`
	RubyReflowed int      `json:"ruby_reflowed"`
	Tooltips     int      `json:"tooltips"`
	Cleaned      int      `json:"cleaned"`
	Errors       []string `json:"errors,omitempty"`
}

// Renderer transforms card fragments. Safe for concurrent use.
type Renderer struct {
	log    *slog.Logger
	budget int
	md     goldmark.Markdown
}

func New(log *slog.Logger, inlineBudget int) *Renderer {
	if inlineBudget <= 0 {
		inlineBudget = furigana.DefaultInlineBudget
	}
	return &Renderer{
		log:    log,
		budget: inlineBudget,
		md:     goldmark.New(),
	}
}

// Card renders one fragment: stale popups are cleared, a pitch popup is
// built for every element carrying the pitch attribute, and over-budget
// furigana is reflowed into tooltips. Per-element failures land in the
// report; only an unparseable fragment is a hard error.
func (r *Renderer) Card(fragment string) (string, Report, error) {
	var rep Report

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", rep, fmt.Errorf("parse card: %w", err)
	}
	body := dom.FindBody(doc)
	if body == nil {
		return "", rep, fmt.Errorf("parse card: no body")
	}

	rep.Cleaned = r.clearStale(body)
	r.buildPitchPopups(body, &rep)

	fres := furigana.Reflow(body, r.budget, r.log)
	rep.RubySeen = fres.Seen
	rep.RubyReflowed = fres.Reflowed
	rep.Tooltips = fres.Tooltips
	rep.Errors = append(rep.Errors, fres.Errors...)

	var sb strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return "", rep, fmt.Errorf("serialize card: %w", err)
		}
	}
	return sb.String(), rep, nil
}

// clearStale removes popups left by a previous render and restores
// reflowed ruby, making re-rendering idempotent.
func (r *Renderer) clearStale(body *html.Node) int {
	var stale []*html.Node
	dom.Walk(body, func(n *html.Node) bool {
		if n.Type == html.ElementNode && dom.HasClass(n, ClassPitchPopup) {
			stale = append(stale, n)
			return false
		}
		return true
	})
	for _, n := range stale {
		dom.Detach(n)
	}
	return len(stale) + furigana.Cleanup(body)
}

// buildPitchPopups appends an accent-list popup to every element carrying
// the pitch attribute. A malformed attribute fails that element only.
func (r *Renderer) buildPitchPopups(body *html.Node, rep *Report) {
	var targets []*html.Node
	dom.Walk(body, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if _, ok := dom.Attr(n, AttrPitch); ok {
				targets = append(targets, n)
			}
		}
		return true
	})

	for i, elem := range targets {
		notation, _ := dom.Attr(elem, AttrPitch)
		popup, err := r.buildPopup(notation, i)
		if err != nil {
			rep.Errors = append(rep.Errors, err.Error())
			r.log.Warn("pitch popup failed", "notation", notation, "error", err)
			continue
		}
		elem.AppendChild(popup)
		rep.PitchPopups++
	}
}

func (r *Renderer) buildPopup(notation string, idx int) (*html.Node, error) {
	groups, err := pitch.ParseGroups(notation)
	if err != nil {
		return nil, fmt.Errorf("pitch %q: %w", notation, err)
	}
	list, err := pitch.BuildList(groups)
	if err != nil {
		return nil, fmt.Errorf("pitch %q: %w", notation, err)
	}
	popup := dom.Element("span", ClassPitchPopup)
	dom.SetAttr(popup, "data-popup", strconv.Itoa(idx))
	popup.AppendChild(list)
	return popup, nil
}

// Notes converts a card's Markdown notes field to HTML.
func (r *Renderer) Notes(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert notes: %w", err)
	}
	return buf.String(), nil
}
