// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists completed dataset runs and builds a retrieval index.
// The full-text index needs mattn/go-sqlite3 compiled with the sqlite_fts5
// build tag; the mage Build and Test targets pass it.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/dataset-forge/pkg/types"
)

const dbFile = "archive.db"

// Run is an archived pipeline invocation together with its entries.
type Run struct {
	ID           string        `json:"id" yaml:"id"`
	Topic        string        `json:"topic" yaml:"topic"`
	CreatedAt    time.Time     `json:"created_at" yaml:"created_at"`
	DocumentPath string        `json:"document_path" yaml:"document_path"`
	CSVPath      string        `json:"csv_path" yaml:"csv_path"`
	Entries      types.Dataset `json:"entries" yaml:"entries"`
}

// Store manages the run archive SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the archive database at dir/archive.db. It
// creates the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			created_at TEXT NOT NULL,
			entry_count INTEGER NOT NULL,
			document_path TEXT,
			csv_path TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			entry_id TEXT,
			title TEXT,
			description TEXT,
			attributes TEXT,
			relations TEXT,
			source TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_run_id ON entries(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='entries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE entries_fts USING fts5(title, description, content=entries, content_rowid=rowid)`,
			`CREATE TRIGGER entries_ai AFTER INSERT ON entries BEGIN
				INSERT INTO entries_fts(rowid, title, description) VALUES (new.rowid, new.title, new.description);
			END`,
			`CREATE TRIGGER entries_ad AFTER DELETE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, title, description) VALUES('delete', old.rowid, old.title, old.description);
			END`,
			`CREATE TRIGGER entries_au AFTER UPDATE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, title, description) VALUES('delete', old.rowid, old.title, old.description);
				INSERT INTO entries_fts(rowid, title, description) VALUES (new.rowid, new.title, new.description);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Save stores a completed run and its entries in a single transaction.
// Saving the same run ID twice replaces the earlier record.
func (s *Store) Save(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("deleting old entries: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, topic, created_at, entry_count, document_path, csv_path)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			topic=excluded.topic, created_at=excluded.created_at,
			entry_count=excluded.entry_count,
			document_path=excluded.document_path, csv_path=excluded.csv_path`,
		run.ID, run.Topic, run.CreatedAt.UTC().Format(time.RFC3339),
		len(run.Entries), run.DocumentPath, run.CSVPath,
	)
	if err != nil {
		return fmt.Errorf("upserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (run_id, position, entry_id, title, description, attributes, relations, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, entry := range run.Entries {
		attrsJSON, _ := json.Marshal(entry.Attributes)
		relsJSON, _ := json.Marshal(entry.Relations)
		_, err := stmt.ExecContext(ctx,
			run.ID, i+1, entry.ID, entry.Title, entry.Description,
			string(attrsJSON), string(relsJSON), entry.Source,
		)
		if err != nil {
			return fmt.Errorf("inserting entry %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}
