package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/edulog/plagiarism-check/pkg/storage"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := NewDB(ctx, dsn)
	if err != nil {
		t.Fatalf("database unavailable: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := pool.Exec(ctx, "TRUNCATE plagiarism_checks"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return NewRepository(pool)
}

// Integration test that ensures the upsert keeps the newest check only.
func TestUpsertLatestHonorsNewestCheck(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)

	old := storage.CheckRecord{
		ID: "01A", PostID: "post-1", Percentage: 12, Allowed: true,
		Source: "upstream", Verdict: storage.VerdictAccepted, CheckedAt: base,
	}
	newer := storage.CheckRecord{
		ID: "01B", PostID: "post-1", Percentage: 55, Allowed: false,
		Source: "upstream", Verdict: storage.VerdictRejected, CheckedAt: base.Add(time.Hour),
	}
	older := storage.CheckRecord{
		ID: "01C", PostID: "post-1", Percentage: 1, Allowed: true,
		Source: "fallback", Verdict: storage.VerdictAccepted, CheckedAt: base.Add(-time.Hour),
	}

	for _, rec := range []storage.CheckRecord{old, newer, older} {
		if err := repo.UpsertLatest(ctx, rec); err != nil {
			t.Fatalf("upsert %s: %v", rec.ID, err)
		}
	}

	got, err := repo.Latest(ctx, "post-1")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if !got.CheckedAt.Equal(newer.CheckedAt) {
		t.Fatalf("checked_at mismatch: got %s want %s", got.CheckedAt, newer.CheckedAt)
	}
	if got.ID != newer.ID || got.Verdict != storage.VerdictRejected || got.Allowed {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestLatestNotFound(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.Latest(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
