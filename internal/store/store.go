// Package store caches completed analysis reports in a SQLite database,
// keyed by a content hash of the inputs, so re-analyzing the same replay
// is a lookup instead of a recomputation.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nvandessel/tilelens/internal/analysis"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when no cached report exists for a hash.
var ErrNotFound = errors.New("analysis not found")

// Store is a SQLite-backed cache of analysis reports.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path and applies the
// schema. An empty path opens an in-memory database, used in tests.
func Open(path string) (*Store, error) {
	dsn := "file::memory:?cache=shared"
	if path != "" {
		// Pragmas ride the DSN so every pooled connection gets them.
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ContentHash derives the cache key for a log/review input pair.
func ContentHash(logText, reviewText string) string {
	h := sha256.New()
	h.Write([]byte(logText))
	h.Write([]byte{0}) // separator so boundaries can't collide
	h.Write([]byte(reviewText))
	return hex.EncodeToString(h.Sum(nil))
}

// Save stores a report under the given content hash, replacing any
// previous report for the same inputs.
func (s *Store) Save(ctx context.Context, hash string, report analysis.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (content_hash, report, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(content_hash) DO UPDATE SET report = excluded.report, created_at = excluded.created_at`,
		hash, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Get loads the cached report for a content hash, or ErrNotFound.
func (s *Store) Get(ctx context.Context, hash string) (analysis.Report, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT report FROM analyses WHERE content_hash = ?`, hash,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return analysis.Report{}, ErrNotFound
	}
	if err != nil {
		return analysis.Report{}, fmt.Errorf("load report: %w", err)
	}

	var report analysis.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return analysis.Report{}, fmt.Errorf("decode report: %w", err)
	}
	return report, nil
}
