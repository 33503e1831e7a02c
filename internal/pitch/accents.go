package pitch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kumoshiro/pitchcard/internal/dom"
	"golang.org/x/net/html"
)

// Accent-group grammar: space-separated "reading:contour" tokens, e.g.
//
//	ワタクシ:heiban ワタシ:heiban
//
// A compound reading is divided by the middle dot and paired positionally
// with a comma-separated contour list:
//
//	ニンゲン・カンケイ:heiban,nakadaka-1
//
// A nakadaka contour carries its drop index after a hyphen.
const (
	readingDivider = "・"
	contourDivider = ","
	dropDivider    = "-"
)

// CountMismatchError reports an accent group whose compound reading and
// contour list have different lengths.
type CountMismatchError struct {
	Token    string
	Readings int
	Contours int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("accent group %q: %d readings but %d contours", e.Token, e.Readings, e.Contours)
}

// Group is one alternate pronunciation: an ordered list of accents, one per
// part of a (possibly compound) word.
type Group struct {
	Accents []Accent
}

// ParseGroups parses a full accent attribute value into ordered groups.
func ParseGroups(s string) ([]Group, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty accent notation")
	}

	groups := make([]Group, 0, len(tokens))
	for _, tok := range tokens {
		g, err := parseGroup(tok)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func parseGroup(tok string) (Group, error) {
	// The reading itself may not contain a colon, but split on the last one
	// anyway so a surprising reading fails loudly downstream, not silently.
	idx := strings.LastIndex(tok, ":")
	if idx < 0 {
		return Group{}, fmt.Errorf("accent group %q: missing ':' separator", tok)
	}

	readings := strings.Split(tok[:idx], readingDivider)
	contours := strings.Split(tok[idx+1:], contourDivider)
	if len(readings) != len(contours) {
		return Group{}, &CountMismatchError{Token: tok, Readings: len(readings), Contours: len(contours)}
	}

	g := Group{Accents: make([]Accent, 0, len(readings))}
	for i, reading := range readings {
		typ, numStr, hasNum := strings.Cut(contours[i], dropDivider)
		a := Accent{Reading: reading, Contour: Contour(typ)}
		if hasNum {
			n, err := strconv.Atoi(numStr)
			if err != nil {
				return Group{}, fmt.Errorf("accent group %q: bad drop number %q", tok, numStr)
			}
			a.Drop = n
		}
		g.Accents = append(g.Accents, a)
	}
	return g, nil
}

// BuildList renders accent groups as an ordered list, one item per group.
// Each accent's spans are wrapped in a span classed by its contour type;
// a compound word's accents are concatenated in order within the item.
func BuildList(groups []Group) (*html.Node, error) {
	ol := dom.Element("ol", "pitch_variants")
	for _, g := range groups {
		li := dom.Element("li", "")
		for _, a := range g.Accents {
			spans, err := Format(a)
			if err != nil {
				return nil, fmt.Errorf("format %q: %w", a.Reading, err)
			}
			wrap := dom.Element("span", string(a.Contour))
			for _, s := range spans {
				wrap.AppendChild(s)
			}
			li.AppendChild(wrap)
		}
		ol.AppendChild(li)
	}
	return ol, nil
}
