package accentdb

import (
	"context"
	"fmt"
)

// Entry is one formatted dictionary row for a headword.
type Entry struct {
	Headword        string `json:"headword"`
	KatakanaReading string `json:"katakana_reading"`
	HTMLNotation    string `json:"html_notation"`
	PitchNumber     string `json:"pitch_number"`
	Frequency       int    `json:"frequency"`
	Source          string `json:"source"`
}

// Search returns accent entries matching word by headword or reading.
// Rows from preferSource override all other sources when any exist;
// otherwise every matching row is returned. Ordered by frequency, then
// pitch number, then reading.
func (d *DB) Search(ctx context.Context, word, preferSource string) ([]Entry, error) {
	const query = `
	SELECT DISTINCT headword, katakana_reading, html_notation, pitch_number, frequency, source FROM (
	    WITH all_results AS (
	        SELECT * FROM pitch_accents_formatted
	        WHERE ( headword = ? OR katakana_reading = ? )
	    ),
	    preferred_results AS (
	        SELECT * FROM all_results
	        WHERE source = ?
	    )
	    SELECT * FROM preferred_results
	    UNION ALL
	    SELECT * FROM all_results WHERE NOT EXISTS (SELECT 1 FROM preferred_results)
	)
	ORDER BY frequency DESC, pitch_number ASC, katakana_reading ASC ;
	`
	rows, err := d.QueryContext(ctx, query, word, word, preferSource)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", word, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Headword, &e.KatakanaReading, &e.HTMLNotation, &e.PitchNumber, &e.Frequency, &e.Source); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Insert writes entries for one provider in a single transaction.
func (d *DB) Insert(ctx context.Context, entries []Entry, source string) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO pitch_accents_formatted
	(headword, katakana_reading, html_notation, pitch_number, frequency, source)
	VALUES(?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Headword, e.KatakanaReading, e.HTMLNotation, e.PitchNumber, e.Frequency, source); err != nil {
			return fmt.Errorf("insert %q: %w", e.Headword, err)
		}
	}
	return tx.Commit()
}

// ClearSource removes every entry loaded from one provider.
func (d *DB) ClearSource(ctx context.Context, source string) error {
	_, err := d.ExecContext(ctx, `DELETE FROM pitch_accents_formatted WHERE source = ? ;`, source)
	if err != nil {
		return fmt.Errorf("clear source %q: %w", source, err)
	}
	return nil
}

// HeadwordCount reports how many distinct headwords are loaded.
func (d *DB) HeadwordCount(ctx context.Context) (int, error) {
	var n int
	err := d.QueryRowContext(ctx, `SELECT COUNT(DISTINCT headword) FROM pitch_accents_formatted;`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("headword count: %w", err)
	}
	return n, nil
}
