package accentdb

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
)

// TSV dictionary column order, matching the formatted accent dictionaries
// the importer consumes.
const tsvColumns = 5 // headword, katakana_reading, html_notation, pitch_number, frequency

// ReadTSV parses a tab-separated accent dictionary. Rows with the wrong
// column count fail the import; dictionaries are machine-generated and a
// short row means a truncated file.
func ReadTSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = tsvColumns
	cr.LazyQuotes = true

	var out []Entry
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("tsv line %d: %w", line, err)
		}
		freq, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, fmt.Errorf("tsv line %d: bad frequency %q", line, rec[4])
		}
		out = append(out, Entry{
			Headword:        rec[0],
			KatakanaReading: rec[1],
			HTMLNotation:    rec[2],
			PitchNumber:     rec[3],
			Frequency:       freq,
		})
	}
	return out, nil
}

// DiscoverDicts matches dictionary files under dir against a glob pattern
// (doublestar syntax, e.g. "**/*.tsv") and returns their full paths.
func DiscoverDicts(dir, pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q under %s: %w", pattern, dir, err)
	}
	return matches, nil
}
