// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/dataset-forge/pkg/types"
)

// QueryOptions holds parameters for archive queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string matched against entry
	// titles and descriptions.
	Query string

	// Topic filters by run topic.
	Topic string

	// RunID filters by run.
	RunID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// RunSummary describes an archived run without its entries.
type RunSummary struct {
	ID           string
	Topic        string
	CreatedAt    time.Time
	EntryCount   int
	DocumentPath string
	CSVPath      string
}

// EntryResult is a DatasetEntry with its run provenance.
type EntryResult struct {
	types.DatasetEntry `yaml:",inline"`

	RunID    string `json:"run_id" yaml:"run_id"`
	Topic    string `json:"topic" yaml:"topic"`
	Position int    `json:"position" yaml:"position"`
}

// List returns all archived runs, newest first.
func (s *Store) List(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, created_at, entry_count, document_path, csv_path
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var (
			rs        RunSummary
			createdAt string
			docPath   sql.NullString
			csvPath   sql.NullString
		)
		if err := rows.Scan(&rs.ID, &rs.Topic, &createdAt, &rs.EntryCount, &docPath, &csvPath); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rs.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rs.DocumentPath = docPath.String
		rs.CSVPath = csvPath.String
		summaries = append(summaries, rs)
	}

	return summaries, rows.Err()
}

// Search queries archived entries with optional full-text search and
// structured filters. Results are ranked by relevance for full-text
// queries or sorted by run and position otherwise.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]EntryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT e.run_id, e.position, e.entry_id, e.title, e.description,
				e.attributes, e.relations, e.source, r.topic
			FROM entries_fts
			JOIN entries e ON e.rowid = entries_fts.rowid
			LEFT JOIN runs r ON e.run_id = r.id
			WHERE entries_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT e.run_id, e.position, e.entry_id, e.title, e.description,
				e.attributes, e.relations, e.source, r.topic
			FROM entries e
			LEFT JOIN runs r ON e.run_id = r.id
			WHERE 1=1`)
	}

	if opts.Topic != "" {
		qb.WriteString(` AND r.topic = ?`)
		args = append(args, opts.Topic)
	}

	if opts.RunID != "" {
		qb.WriteString(` AND e.run_id = ?`)
		args = append(args, opts.RunID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY entries_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY e.run_id, e.position`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var results []EntryResult
	for rows.Next() {
		var (
			er        EntryResult
			attrsJSON sql.NullString
			relsJSON  sql.NullString
			topic     sql.NullString
		)

		if err := rows.Scan(
			&er.RunID, &er.Position, &er.ID, &er.Title, &er.Description,
			&attrsJSON, &relsJSON, &er.Source, &topic,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if attrsJSON.Valid {
			json.Unmarshal([]byte(attrsJSON.String), &er.Attributes)
		}
		if relsJSON.Valid {
			json.Unmarshal([]byte(relsJSON.String), &er.Relations)
		}
		er.Topic = topic.String

		results = append(results, er)
	}

	return results, rows.Err()
}

// Get returns a full archived run with its entries in position order.
func (s *Store) Get(ctx context.Context, runID string) (Run, error) {
	var (
		run       Run
		createdAt string
		docPath   sql.NullString
		csvPath   sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, topic, created_at, document_path, csv_path FROM runs WHERE id = ?`, runID,
	).Scan(&run.ID, &run.Topic, &createdAt, &docPath, &csvPath)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, fmt.Errorf("run %s not found", runID)
		}
		return Run{}, fmt.Errorf("looking up run: %w", err)
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	run.DocumentPath = docPath.String
	run.CSVPath = csvPath.String

	entries, err := s.Search(ctx, QueryOptions{RunID: runID, MaxResults: exportLimit})
	if err != nil {
		return Run{}, err
	}
	for _, e := range entries {
		run.Entries = append(run.Entries, e.DatasetEntry)
	}

	return run, nil
}
