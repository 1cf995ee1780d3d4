package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edulog/plagiarism-check/pkg/storage"
)

type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wraps an existing pool. Call EnsureSchema before using it.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the plagiarism_checks table if it is missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ddl := `
CREATE TABLE IF NOT EXISTS plagiarism_checks (
  post_id TEXT PRIMARY KEY,
  id TEXT NOT NULL,
  author_id TEXT NOT NULL DEFAULT '',
  scan_id TEXT NOT NULL DEFAULT '',
  percentage DOUBLE PRECISION NOT NULL,
  allowed BOOLEAN NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  verdict TEXT NOT NULL,
  error TEXT NOT NULL DEFAULT '',
  checked_at TIMESTAMPTZ NOT NULL
);`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ERROR creating plagiarism_checks table: %w", err)
	}
	return nil
}

// UpsertLatest persists the newest check of a post. Older checks are
// ignored to protect against out-of-order deliveries.
func (r *Repository) UpsertLatest(ctx context.Context, record storage.CheckRecord) error {
	const query = `
INSERT INTO plagiarism_checks (post_id, id, author_id, scan_id, percentage, allowed, source, verdict, error, checked_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (post_id)
DO UPDATE SET
  id = EXCLUDED.id,
  author_id = EXCLUDED.author_id,
  scan_id = EXCLUDED.scan_id,
  percentage = EXCLUDED.percentage,
  allowed = EXCLUDED.allowed,
  source = EXCLUDED.source,
  verdict = EXCLUDED.verdict,
  error = EXCLUDED.error,
  checked_at = EXCLUDED.checked_at
WHERE EXCLUDED.checked_at >= plagiarism_checks.checked_at;
`
	_, err := r.pool.Exec(ctx, query,
		record.PostID,
		record.ID,
		record.AuthorID,
		record.ScanID,
		record.Percentage,
		record.Allowed,
		record.Source,
		string(record.Verdict),
		record.Error,
		record.CheckedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert check: %w", err)
	}
	return nil
}

// Latest returns the stored check of a post or storage.ErrNotFound.
func (r *Repository) Latest(ctx context.Context, postID string) (storage.CheckRecord, error) {
	const query = `
SELECT id, post_id, author_id, scan_id, percentage, allowed, source, verdict, error, checked_at
FROM plagiarism_checks WHERE post_id = $1`

	var rec storage.CheckRecord
	var verdict string
	err := r.pool.QueryRow(ctx, query, postID).Scan(
		&rec.ID, &rec.PostID, &rec.AuthorID, &rec.ScanID, &rec.Percentage,
		&rec.Allowed, &rec.Source, &verdict, &rec.Error, &rec.CheckedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.CheckRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.CheckRecord{}, fmt.Errorf("select check: %w", err)
	}
	rec.Verdict = storage.Verdict(verdict)
	rec.CheckedAt = rec.CheckedAt.UTC()
	return rec, nil
}

// Close helps when wiring Repository to a lifecycle manager.
func (r *Repository) Close() {
	r.pool.Close()
}

// NewDB opens a pgx pool with tuned defaults.
func NewDB(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	// Checks are slow and few; a small pool is plenty.
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}
