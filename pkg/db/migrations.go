package db

// migrationsSQL holds the word-list schema. Statements are split on ";"
// and executed in order by InitDB.
const migrationsSQL = `
CREATE TABLE IF NOT EXISTS words (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    word TEXT NOT NULL UNIQUE,
    definition TEXT NOT NULL DEFAULT '',
    part_of_speech TEXT NOT NULL DEFAULT '',
    audio_ref TEXT NOT NULL DEFAULT '',
    added_at DATETIME NOT NULL,
    review_count INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_words_review_count ON words(review_count);
`
