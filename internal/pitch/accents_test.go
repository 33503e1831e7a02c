package pitch

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestParseGroups_Simple(t *testing.T) {
	groups, err := ParseGroups("ワタクシ:heiban ワタシ:heiban")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Accents[0].Reading != "ワタクシ" {
		t.Errorf("first reading = %q", groups[0].Accents[0].Reading)
	}
	if groups[1].Accents[0].Contour != Heiban {
		t.Errorf("second contour = %q", groups[1].Accents[0].Contour)
	}
}

func TestParseGroups_Compound(t *testing.T) {
	groups, err := ParseGroups("ニンゲン・カンケイ:heiban,nakadaka-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	accents := groups[0].Accents
	if len(accents) != 2 {
		t.Fatalf("expected 2 accents in compound group, got %d", len(accents))
	}
	if accents[0].Reading != "ニンゲン" || accents[0].Contour != Heiban {
		t.Errorf("first accent = %+v", accents[0])
	}
	if accents[1].Reading != "カンケイ" || accents[1].Contour != Nakadaka || accents[1].Drop != 1 {
		t.Errorf("second accent = %+v", accents[1])
	}
}

func TestParseGroups_CountMismatch(t *testing.T) {
	_, err := ParseGroups("ニンゲン・カンケイ:heiban")
	var mismatch *CountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected CountMismatchError, got %v", err)
	}
	if mismatch.Readings != 2 || mismatch.Contours != 1 {
		t.Errorf("mismatch counts = %d/%d", mismatch.Readings, mismatch.Contours)
	}
}

func TestParseGroups_Malformed(t *testing.T) {
	for _, in := range []string{"", "   ", "ワタシ", "ワタシ:nakadaka-x"} {
		if _, err := ParseGroups(in); err == nil {
			t.Errorf("ParseGroups(%q): expected error", in)
		}
	}
}

func TestBuildList_TwoVariants(t *testing.T) {
	groups, err := ParseGroups("ワタクシ:heiban ワタシ:heiban")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ol, err := BuildList(groups)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var items, pitchSpans int
	for li := ol.FirstChild; li != nil; li = li.NextSibling {
		if li.Data != "li" {
			continue
		}
		items++
		spans := 0
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Data == "span" {
				spans++
			}
		}
		pitchSpans += spans
		if spans != 1 {
			t.Errorf("list item has %d pitch spans, want 1", spans)
		}
	}
	if items != 2 {
		t.Errorf("expected 2 list items, got %d", items)
	}
	if pitchSpans != 2 {
		t.Errorf("expected 2 pitch spans total, got %d", pitchSpans)
	}
}

func TestBuildList_ContourClassWrapping(t *testing.T) {
	groups, err := ParseGroups("オトコ:nakadaka-2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ol, err := BuildList(groups)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var sb strings.Builder
	if err := html.Render(&sb, ol); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, `<span class="nakadaka">`) {
		t.Errorf("output missing contour wrapper span: %s", out)
	}
	if !strings.Contains(out, `<span class="pitch_number">2</span>`) {
		t.Errorf("output missing numeric tag: %s", out)
	}
}

func TestBuildList_SurfacesFormatError(t *testing.T) {
	groups := []Group{{Accents: []Accent{{Reading: "ワタシ", Contour: "bogus"}}}}
	if _, err := BuildList(groups); err == nil {
		t.Error("expected error for unknown contour")
	}
}
