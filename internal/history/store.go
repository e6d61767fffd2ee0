// Package history persists conversion results. It is the storage
// collaborator sitting outside the pipeline: the converter only returns
// trees and warnings, and callers that want a record of what was converted
// (the CLI does) write one here afterwards.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Record is a single stored conversion: the trees on both sides plus every
// warning the converter emitted.
type Record struct {
	ID           string
	SourceFormat string
	TargetFormat string
	SourceTree   map[string]any
	TargetTree   map[string]any
	Warnings     []string
	CreatedAt    time.Time
}

// Store manages the SQLite database holding conversion records
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a Store and initializes the database schema.
// The parent directory is created for file-based databases.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout must come first so the remaining pragmas wait on locks
	// held by concurrent openers of the same file.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on
// "database is locked" errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordConversion stores a successful conversion and returns the record id.
func (s *Store) RecordConversion(ctx context.Context, sourceFormat, targetFormat string, sourceTree, targetTree map[string]any, warnings []string) (string, error) {
	sourceJSON, err := json.Marshal(sourceTree)
	if err != nil {
		return "", fmt.Errorf("marshal source tree: %w", err)
	}
	targetJSON, err := json.Marshal(targetTree)
	if err != nil {
		return "", fmt.Errorf("marshal target tree: %w", err)
	}
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return "", fmt.Errorf("marshal warnings: %w", err)
	}

	id := uuid.NewString()
	query := `INSERT INTO conversions
		(id, source_format, target_format, source_tree, target_tree, warnings)
		VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query,
		id, sourceFormat, targetFormat,
		string(sourceJSON), string(targetJSON), string(warningsJSON),
	); err != nil {
		return "", fmt.Errorf("insert conversion: %w", err)
	}

	return id, nil
}

// List returns the most recent conversion records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, source_format, target_format, source_tree, target_tree, warnings, created_at
		FROM conversions ORDER BY created_at DESC, id LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec          Record
			sourceJSON   string
			targetJSON   string
			warningsJSON string
		)
		if err := rows.Scan(&rec.ID, &rec.SourceFormat, &rec.TargetFormat,
			&sourceJSON, &targetJSON, &warningsJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		if err := json.Unmarshal([]byte(sourceJSON), &rec.SourceTree); err != nil {
			return nil, fmt.Errorf("unmarshal source tree for %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(targetJSON), &rec.TargetTree); err != nil {
			return nil, fmt.Errorf("unmarshal target tree for %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(warningsJSON), &rec.Warnings); err != nil {
			return nil, fmt.Errorf("unmarshal warnings for %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored conversions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count conversions: %w", err)
	}
	return n, nil
}
