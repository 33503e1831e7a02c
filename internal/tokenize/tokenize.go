// Package tokenize derives katakana readings for headwords that arrive
// without one, using the kagome morphological analyzer.
package tokenize

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"github.com/kumoshiro/pitchcard/internal/mora"
)

// Tokenizer wraps a kagome tokenizer with the IPA dictionary.
type Tokenizer struct {
	t *tokenizer.Tokenizer
}

func New() (*Tokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("init tokenizer: %w", err)
	}
	return &Tokenizer{t: t}, nil
}

// Reading returns the katakana reading of word, concatenated across its
// morphemes. Tokens the dictionary has no reading for contribute their
// surface converted to katakana, so kana-only input round-trips.
func (tk *Tokenizer) Reading(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}

	var sb strings.Builder
	for _, t := range tk.t.Tokenize(word) {
		if r, ok := t.Reading(); ok && r != "" && r != "*" {
			sb.WriteString(r)
			continue
		}
		sb.WriteString(mora.ToKatakana(t.Surface))
	}
	return sb.String()
}
