package pitch

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func renderNodes(t *testing.T, nodes []*html.Node) string {
	t.Helper()
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	return sb.String()
}

func TestFormat_Atamadaka(t *testing.T) {
	nodes, err := Format(Accent{Reading: "キシ", Contour: Atamadaka})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := renderNodes(t, nodes)
	want := `<span class="high_drop">キ</span><span class="low">シ</span><span class="pitch_number">1</span>`
	if got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestFormat_Heiban(t *testing.T) {
	nodes, err := Format(Accent{Reading: "ワタシ", Contour: Heiban})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := renderNodes(t, nodes)
	want := `<span class="low_rise">ワ</span><span class="high">タシ</span><span class="pitch_number">0</span>`
	if got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestFormat_Odaka(t *testing.T) {
	nodes, err := Format(Accent{Reading: "ハシ", Contour: Odaka})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := renderNodes(t, nodes)
	// The drop lands after the word, so the tag equals the mora count.
	want := `<span class="low_rise">ハ</span><span class="high_drop">シ</span><span class="pitch_number">2</span>`
	if got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestFormat_Nakadaka(t *testing.T) {
	nodes, err := Format(Accent{Reading: "オトコ", Contour: Nakadaka, Drop: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := renderNodes(t, nodes)
	want := `<span class="low_rise">オ</span><span class="high_drop">ト</span><span class="low">コ</span><span class="pitch_number">2</span>`
	if got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestFormat_PartitionsAreSingleSpans(t *testing.T) {
	// Contiguous same-level morae must share one span, never one per mora.
	nodes, err := Format(Accent{Reading: "ワタクシ", Contour: Heiban})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// low_rise + high + pitch_number = 3 spans for a 4-mora word.
	if len(nodes) != 3 {
		t.Errorf("expected 3 spans, got %d: %s", len(nodes), renderNodes(t, nodes))
	}
}

func TestFormat_SingleMora(t *testing.T) {
	// A one-mora atamadaka word has no low partition; the empty partition
	// produces no span.
	nodes, err := Format(Accent{Reading: "ヒ", Contour: Atamadaka})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := renderNodes(t, nodes)
	want := `<span class="high_drop">ヒ</span><span class="pitch_number">1</span>`
	if got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestFormat_UnknownContour(t *testing.T) {
	_, err := Format(Accent{Reading: "ワタシ", Contour: "kifuku"})
	var unkErr *UnknownContourError
	if !errors.As(err, &unkErr) {
		t.Fatalf("expected UnknownContourError, got %v", err)
	}
	if unkErr.Contour != "kifuku" {
		t.Errorf("error carries %q, want kifuku", unkErr.Contour)
	}
}

func TestFormat_DropOutOfRange(t *testing.T) {
	for _, drop := range []int{0, 3, -1} {
		_, err := Format(Accent{Reading: "ハシ", Contour: Nakadaka, Drop: drop})
		var rangeErr *DropRangeError
		if !errors.As(err, &rangeErr) {
			t.Errorf("drop=%d: expected DropRangeError, got %v", drop, err)
		}
	}
}

func TestFormat_EmptyReading(t *testing.T) {
	if _, err := Format(Accent{Reading: "", Contour: Heiban}); err == nil {
		t.Error("expected error for empty reading")
	}
}
