package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Corpora: one row per imported frequency table.
-- total_weight is stored because duplicate rows in the source count toward
-- the total but not toward the per-word weight.
CREATE TABLE IF NOT EXISTS corpora (
    corpus_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    source TEXT,
    word_count INTEGER NOT NULL,
    total_weight REAL NOT NULL,
    imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Corpus words: word -> weight, lowercased
CREATE TABLE IF NOT EXISTS corpus_words (
    corpus_id INTEGER NOT NULL,
    word TEXT NOT NULL,
    weight REAL NOT NULL,
    PRIMARY KEY (corpus_id, word),
    FOREIGN KEY (corpus_id) REFERENCES corpora(corpus_id) ON DELETE CASCADE
) WITHOUT ROWID;

CREATE INDEX IF NOT EXISTS idx_corpus_words_weight ON corpus_words(corpus_id, weight DESC);
`
