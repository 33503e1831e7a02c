package mora

import (
	"strings"
	"testing"
)

func TestSegment_Basic(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"キシ", []string{"キ", "シ"}},
		{"ワタシ", []string{"ワ", "タ", "シ"}},
		{"シャシン", []string{"シャ", "シ", "ン"}},
		{"チョウチョ", []string{"チョ", "ウ", "チョ"}},
		{"ガッコウ", []string{"ガ", "ッ", "コ", "ウ"}},
		{"きょう", []string{"きょ", "う"}},
	}
	for _, tt := range tests {
		got := Segment(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("Segment(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Segment(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestSegment_Empty(t *testing.T) {
	if got := Segment(""); got != nil {
		t.Errorf("Segment(\"\") = %v, want nil", got)
	}
	if Count("") != 0 {
		t.Errorf("Count(\"\") = %d, want 0", Count(""))
	}
}

func TestSegment_NasalHandakuten(t *testing.T) {
	// Standalone handakuten marks a nasalized mora; it must stay glued to
	// its base character after normalization.
	in := "カ°キ"
	got := Segment(in)
	if len(got) != 2 {
		t.Fatalf("Segment(%q) = %v, want 2 morae", in, got)
	}
	if got[0] != "カ゚" {
		t.Errorf("first mora = %q, want combining-handakuten form", got[0])
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	in := "カ°キ°"
	once := Normalize(in)
	twice := Normalize(once)
	if once != twice {
		t.Errorf("Normalize not idempotent: %q vs %q", once, twice)
	}
	if strings.ContainsRune(once, '°') {
		t.Errorf("standalone handakuten survived normalization: %q", once)
	}
}

func TestSegment_ConcatenationPreservesBoundaries(t *testing.T) {
	// Segmenting A+B where A and B end on valid mora boundaries equals
	// segment(A) followed by segment(B).
	pairs := [][2]string{
		{"キシ", "ワタシ"},
		{"シャ", "チョウ"},
		{"カ°", "キ"},
	}
	for _, p := range pairs {
		joined := Segment(p[0] + p[1])
		var want []string
		want = append(want, Segment(p[0])...)
		want = append(want, Segment(p[1])...)
		if len(joined) != len(want) {
			t.Errorf("Segment(%q+%q) = %v, want %v", p[0], p[1], joined, want)
			continue
		}
		for i := range joined {
			if joined[i] != want[i] {
				t.Errorf("Segment(%q+%q)[%d] = %q, want %q", p[0], p[1], i, joined[i], want[i])
			}
		}
	}
}

func TestKanaConversion(t *testing.T) {
	if got := ToHiragana("ワタシ"); got != "わたし" {
		t.Errorf("ToHiragana = %q, want わたし", got)
	}
	if got := ToKatakana("わたし"); got != "ワタシ" {
		t.Errorf("ToKatakana = %q, want ワタシ", got)
	}
	// Non-kana passes through untouched.
	if got := ToHiragana("abc漢"); got != "abc漢" {
		t.Errorf("ToHiragana non-kana = %q", got)
	}
}
