// Package furigana reflows ruby annotations whose readings exceed the
// inline display budget into hover tooltips.
package furigana

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kumoshiro/pitchcard/internal/dom"
	"golang.org/x/net/html"
)

// DefaultInlineBudget is how many stacked readings a ruby element may show
// inline before it degrades to a tooltip.
const DefaultInlineBudget = 2

// Class names consumed by the accompanying stylesheet.
const (
	ClassWordInfo    = "word-info"
	ClassWordTooltip = "word-tooltip"
	ClassReading     = "reading"
)

// Result summarizes one reflow pass.
type Result struct {
	Seen     int      // top-level ruby elements visited
	Reflowed int      // elements rebuilt with nested readings
	Tooltips int      // elements degraded to a tooltip wrapper
	Errors   []string // per-element failures, one entry each
}

// SplitReadings splits a reading string on the separator class: whitespace,
// comma, period, middle dot, and their ideographic forms. Empty segments
// are dropped.
func SplitReadings(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ',', '.', '、', '。', '・', '，', '．':
			return true
		}
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '　'
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Reflow rebuilds every top-level ruby element under root whose reading
// splits into multiple segments. Elements over budget are replaced with a
// tooltip wrapper listing all readings. A failure on one element is logged
// and does not stop the batch.
func Reflow(root *html.Node, budget int, log *slog.Logger) Result {
	if budget <= 0 {
		budget = DefaultInlineBudget
	}

	var res Result
	for _, ruby := range topLevelRuby(root) {
		res.Seen++
		outcome, err := reflowElement(ruby, budget)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			log.Warn("furigana reflow failed", "base", baseText(ruby), "error", err)
			continue
		}
		switch outcome {
		case outcomeReflowed:
			res.Reflowed++
		case outcomeTooltip:
			res.Reflowed++
			res.Tooltips++
		}
	}
	return res
}

type outcome int

const (
	outcomeUntouched outcome = iota
	outcomeReflowed
	outcomeTooltip
)

func reflowElement(ruby *html.Node, budget int) (outcome, error) {
	base := baseText(ruby)
	readings := SplitReadings(readingText(ruby))

	if len(readings) <= 1 {
		return outcomeUntouched, nil
	}
	if base == "" {
		return outcomeUntouched, fmt.Errorf("ruby element has readings but no base text")
	}

	inline := readings
	if len(inline) > budget {
		inline = inline[:budget]
	}
	rebuilt := nestedRuby(base, inline)

	if len(readings) <= budget {
		dom.ReplaceWith(ruby, rebuilt)
		return outcomeReflowed, nil
	}

	wrapper := dom.Element("span", ClassWordInfo)
	wrapper.AppendChild(rebuilt)
	wrapper.AppendChild(tooltipPanel(readings))
	dom.ReplaceWith(ruby, wrapper)
	return outcomeTooltip, nil
}

// nestedRuby builds stepped ruby markup: all-but-last readings wrap the
// base as inner ruby/rt pairs, the last reading becomes the outer rt.
func nestedRuby(base string, readings []string) *html.Node {
	if len(readings) == 1 {
		r := dom.Element("ruby", "")
		r.AppendChild(dom.Text(base))
		rt := dom.Element("rt", "")
		rt.AppendChild(dom.Text(readings[0]))
		r.AppendChild(rt)
		return r
	}
	outer := dom.Element("ruby", "")
	outer.AppendChild(nestedRuby(base, readings[:len(readings)-1]))
	rt := dom.Element("rt", "")
	rt.AppendChild(dom.Text(readings[len(readings)-1]))
	outer.AppendChild(rt)
	return outer
}

// tooltipPanel lists every reading inside the hidden tooltip element.
func tooltipPanel(readings []string) *html.Node {
	panel := dom.Element("span", ClassWordTooltip)
	for _, r := range readings {
		panel.AppendChild(dom.Span(ClassReading, r))
	}
	return panel
}

// topLevelRuby collects ruby elements under root without descending into
// ruby subtrees, so nested ruby markup is never reflowed twice.
func topLevelRuby(root *html.Node) []*html.Node {
	var out []*html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if dom.IsElement(n, "ruby") {
			out = append(out, n)
			return false
		}
		return true
	})
	return out
}

// baseText is the trimmed text of the ruby's subtree with annotation (rt,
// rp) text excluded at every depth, so nested ruby yields its base only.
func baseText(ruby *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if dom.IsElement(n, "rt") || dom.IsElement(n, "rp") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := ruby.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return strings.TrimSpace(sb.String())
}

// readingText concatenates the text of every rt child.
func readingText(ruby *html.Node) string {
	var parts []string
	for c := ruby.FirstChild; c != nil; c = c.NextSibling {
		if dom.IsElement(c, "rt") {
			if t := dom.TextContent(c); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

// Cleanup undoes tooltip wrappers created by a previous pass: each wrapper
// is replaced with a flat ruby element carrying the base text and the full
// reading list recovered from its tooltip panel. Reflow after Cleanup
// reproduces the previous output exactly.
func Cleanup(root *html.Node) int {
	var wrappers []*html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && dom.HasClass(n, ClassWordInfo) {
			wrappers = append(wrappers, n)
			return false
		}
		return true
	})
	for _, w := range wrappers {
		if restored := restoreRuby(w); restored != nil {
			dom.ReplaceWith(w, restored)
		} else {
			dom.Detach(w)
		}
	}
	return len(wrappers)
}

// restoreRuby rebuilds the pre-reflow ruby element from a tooltip wrapper.
func restoreRuby(wrapper *html.Node) *html.Node {
	var visible, panel *html.Node
	for c := wrapper.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case dom.IsElement(c, "ruby"):
			visible = c
		case dom.HasClass(c, ClassWordTooltip):
			panel = c
		}
	}
	if visible == nil {
		return nil
	}
	if panel == nil {
		dom.Detach(visible)
		return visible
	}

	var readings []string
	for c := panel.FirstChild; c != nil; c = c.NextSibling {
		if dom.HasClass(c, ClassReading) {
			if t := dom.TextContent(c); t != "" {
				readings = append(readings, t)
			}
		}
	}

	r := dom.Element("ruby", "")
	r.AppendChild(dom.Text(baseText(visible)))
	rt := dom.Element("rt", "")
	rt.AppendChild(dom.Text(strings.Join(readings, readingDividerRune)))
	r.AppendChild(rt)
	return r
}

// readingDividerRune joins restored readings the way host markup writes
// them.
const readingDividerRune = "・"
