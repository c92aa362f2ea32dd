// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/history.go
// Summary: SQLite-backed prompt history (find/replace/goto/file names).
// Usage: Recalled with Up/Down inside line prompts. A nil *Store is a
//        valid, disabled store, so history failures never block editing.

package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Prompt kinds recorded in the store.
const (
	KindFind    = "find"
	KindReplace = "replace"
	KindGoto    = "goto"
	KindFile    = "file"
)

// Schema for the prompt history store.
const schema = `
CREATE TABLE IF NOT EXISTS prompt_history (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    kind    TEXT NOT NULL,
    entry   TEXT NOT NULL,
    used_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_kind ON prompt_history(kind, used_at DESC);
`

// keepPerKind bounds how many entries survive per prompt kind.
const keepPerKind = 100

// Store is a prompt history database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(2000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Add records a confirmed prompt entry. Re-adding an entry moves it to the
// front. Empty entries are ignored.
func (s *Store) Add(kind, entry string) error {
	if s == nil || s.db == nil || entry == "" {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("history add: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM prompt_history WHERE kind = ? AND entry = ?`, kind, entry); err != nil {
		return fmt.Errorf("history dedupe: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO prompt_history (kind, entry, used_at) VALUES (?, ?, ?)`,
		kind, entry, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("history insert: %w", err)
	}
	if _, err := tx.Exec(
		`DELETE FROM prompt_history WHERE kind = ? AND id NOT IN (
		    SELECT id FROM prompt_history WHERE kind = ? ORDER BY used_at DESC LIMIT ?
		)`, kind, kind, keepPerKind); err != nil {
		return fmt.Errorf("history trim: %w", err)
	}
	return tx.Commit()
}

// Recent returns up to limit entries for kind, newest first.
func (s *Store) Recent(kind string, limit int) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT entry FROM prompt_history WHERE kind = ? ORDER BY used_at DESC LIMIT ?`,
		kind, limit)
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database. Safe on a nil store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
