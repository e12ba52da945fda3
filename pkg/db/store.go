package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Execer is the seam that lets store operations run against either a
// *sql.DB or a *sql.Tx.
type Execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

const wordColumns = `id, word, definition, part_of_speech, audio_ref, added_at, review_count`

// SaveWord inserts a word row or refreshes an existing one. Re-saving a
// word updates its definition, part of speech and audio reference but
// keeps the review count, so repeated searches do not reset progress.
func SaveWord(db Execer, word, definition, partOfSpeech, audioRef string) (int64, error) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return 0, fmt.Errorf("word must be non-empty")
	}

	var id int64
	query := `INSERT INTO words (word, definition, part_of_speech, audio_ref, added_at, review_count)
			  VALUES (?, ?, ?, ?, ?, 1)
			  ON CONFLICT(word)
			  DO UPDATE SET
			    definition = COALESCE(NULLIF(excluded.definition, ''), words.definition),
				part_of_speech = COALESCE(NULLIF(excluded.part_of_speech, ''), words.part_of_speech),
				audio_ref = COALESCE(NULLIF(excluded.audio_ref, ''), words.audio_ref)
			  RETURNING id`

	err := db.QueryRow(query, w, definition, partOfSpeech, audioRef, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert word: %w", err)
	}
	return id, nil
}

// GetWord returns the row for word, or sql.ErrNoRows when it was never
// saved.
func GetWord(db Execer, word string) (*Word, error) {
	w := strings.ToLower(strings.TrimSpace(word))
	row := db.QueryRow(`SELECT `+wordColumns+` FROM words WHERE word = ?`, w)
	out, err := scanWord(row)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListWords returns the whole list, most recently added first.
func ListWords(db Execer) ([]Word, error) {
	rows, err := db.Query(`SELECT ` + wordColumns + ` FROM words ORDER BY added_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collectWords(rows)
}

// LeastReviewed returns up to n words with the lowest review counts, the
// pool the flashcard deck draws from. Ties break alphabetically so a deck
// is stable across runs.
func LeastReviewed(db Execer, n int) ([]Word, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := db.Query(`SELECT `+wordColumns+` FROM words ORDER BY review_count ASC, word ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	return collectWords(rows)
}

// IncrementReviewCount bumps the review counter for word by one.
func IncrementReviewCount(db Execer, word string) error {
	w := strings.ToLower(strings.TrimSpace(word))
	res, err := db.Exec(`UPDATE words SET review_count = review_count + 1 WHERE word = ?`, w)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("word %q not in list", w)
	}
	return nil
}

// UpdateAudioRef replaces the audio reference for word.
func UpdateAudioRef(db Execer, word, audioRef string) error {
	w := strings.ToLower(strings.TrimSpace(word))
	_, err := db.Exec(`UPDATE words SET audio_ref = ? WHERE word = ?`, audioRef, w)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWord(r rowScanner) (*Word, error) {
	var w Word
	var def, pos, audio sql.NullString
	if err := r.Scan(&w.ID, &w.Word, &def, &pos, &audio, &w.AddedAt, &w.ReviewCount); err != nil {
		return nil, err
	}
	w.Definition = def.String
	w.PartOfSpeech = pos.String
	w.AudioRef = audio.String
	return &w, nil
}

func collectWords(rows *sql.Rows) ([]Word, error) {
	defer rows.Close()
	var out []Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
