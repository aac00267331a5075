package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/essay-obscurity/pkg/corpus"
)

// CorpusInfo describes an imported corpus.
type CorpusInfo struct {
	Name        string    `json:"name" yaml:"name"`
	Source      string    `json:"source" yaml:"source"`
	WordCount   int       `json:"word_count" yaml:"word_count"`
	TotalWeight float64   `json:"total_weight" yaml:"total_weight"`
	ImportedAt  time.Time `json:"imported_at" yaml:"imported_at"`
}

// ImportCorpus stores c under name, replacing any corpus with the same name.
// The import runs in one transaction.
func (db *DB) ImportCorpus(ctx context.Context, name, source string, c *corpus.Corpus) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM corpus_words WHERE corpus_id IN (SELECT corpus_id FROM corpora WHERE name = ?)", name); err != nil {
		return fmt.Errorf("failed to replace corpus %q: %w", name, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM corpora WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to replace corpus %q: %w", name, err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO corpora (name, source, word_count, total_weight)
		VALUES (?, ?, ?, ?)
	`, name, source, c.Len(), c.Total())
	if err != nil {
		return fmt.Errorf("failed to insert corpus: %w", err)
	}
	corpusID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get corpus ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO corpus_words (corpus_id, word, weight) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare word insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range c.Entries() {
		if _, err = stmt.ExecContext(ctx, corpusID, e.Word, e.Weight); err != nil {
			return fmt.Errorf("failed to insert word %q: %w", e.Word, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// LoadCorpus reads the corpus stored under name. Unknown names and empty
// corpora are load errors matching corpus.ErrCorpusLoad.
func (db *DB) LoadCorpus(ctx context.Context, name string) (*corpus.Corpus, error) {
	where := db.path + "#" + name

	var corpusID int64
	var total float64
	err := db.QueryRowContext(ctx, "SELECT corpus_id, total_weight FROM corpora WHERE name = ?", name).Scan(&corpusID, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &corpus.LoadError{Path: where, Err: errors.New("corpus not found (run 'corpus import' first)")}
	}
	if err != nil {
		return nil, &corpus.LoadError{Path: where, Err: err}
	}

	rows, err := db.QueryContext(ctx, "SELECT word, weight FROM corpus_words WHERE corpus_id = ?", corpusID)
	if err != nil {
		return nil, &corpus.LoadError{Path: where, Err: err}
	}
	defer rows.Close()

	weights := make(map[string]float64)
	for rows.Next() {
		var word string
		var weight float64
		if err := rows.Scan(&word, &weight); err != nil {
			return nil, &corpus.LoadError{Path: where, Err: err}
		}
		weights[word] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, &corpus.LoadError{Path: where, Err: err}
	}

	c, err := corpus.New(weights, total)
	if err != nil {
		return nil, &corpus.LoadError{Path: where, Err: err}
	}
	return c, nil
}

// ListCorpora returns every imported corpus ordered by name.
func (db *DB) ListCorpora(ctx context.Context) ([]CorpusInfo, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name, COALESCE(source, ''), word_count, total_weight, imported_at
		FROM corpora
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list corpora: %w", err)
	}
	defer rows.Close()

	var infos []CorpusInfo
	for rows.Next() {
		var info CorpusInfo
		if err := rows.Scan(&info.Name, &info.Source, &info.WordCount, &info.TotalWeight, &info.ImportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan corpus: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
