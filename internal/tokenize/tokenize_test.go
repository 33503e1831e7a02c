package tokenize

import "testing"

func TestReading(t *testing.T) {
	tk, err := New()
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	tests := []struct {
		word string
		want string
	}{
		{"私", "ワタシ"},
		{"学校", "ガッコウ"},
		{"わたし", "ワタシ"}, // kana input round-trips through katakana
		{"", ""},
	}
	for _, tt := range tests {
		if got := tk.Reading(tt.word); got != tt.want {
			t.Errorf("Reading(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}
