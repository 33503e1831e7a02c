// Package mora segments kana strings into morae, the unit pitch-accent
// notation is measured in.
package mora

import "strings"

const (
	// Accent dictionaries mark nasalized morae with the standalone
	// handakuten; segmentation expects the combining form.
	standaloneHandakuten = '°'
	combiningDakuten     = '゙'
	combiningHandakuten  = '゚'
)

// Small vowels and glides attach to the preceding kana and do not count as
// a mora of their own.
const smallKana = "ァィゥェォャュョヮぁぃぅぇぉゃゅょゎ"

// Normalize maps the standalone handakuten (U+00B0) to its combining
// variant (U+309A). Idempotent.
func Normalize(s string) string {
	return strings.ReplaceAll(s, string(standaloneHandakuten), string(combiningHandakuten))
}

// Segment splits a kana string into morae. A mora is one base character,
// optionally followed by a combining diacritic, optionally followed by a
// small vowel or glide. Empty input yields nil.
func Segment(s string) []string {
	runes := []rune(Normalize(s))
	if len(runes) == 0 {
		return nil
	}
	var out []string
	for i := 0; i < len(runes); {
		j := i + 1
		if j < len(runes) && isCombining(runes[j]) {
			j++
		}
		if j < len(runes) && isSmall(runes[j]) {
			j++
		}
		out = append(out, string(runes[i:j]))
		i = j
	}
	return out
}

// Count returns the number of morae in a kana string.
func Count(s string) int {
	return len(Segment(s))
}

func isCombining(r rune) bool {
	return r == combiningDakuten || r == combiningHandakuten
}

func isSmall(r rune) bool {
	return strings.ContainsRune(smallKana, r)
}

// IsKana reports whether r is in the hiragana or katakana block.
func IsKana(r rune) bool {
	return (r >= 0x3040 && r <= 0x309F) || (r >= 0x30A0 && r <= 0x30FF)
}

// ToHiragana converts katakana to hiragana, leaving other runes alone.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

// ToKatakana converts hiragana to katakana, leaving other runes alone.
func ToKatakana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x3041 && r <= 0x3096 {
			runes[i] = r + 0x60
		}
	}
	return string(runes)
}
