package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a post has no stored check.
var ErrNotFound = errors.New("check record not found")

// Verdict is the publication decision derived from a check.
type Verdict string

const (
	VerdictAccepted Verdict = "accepted"
	VerdictRejected Verdict = "rejected"
	// VerdictReview means the check could not complete; the author may
	// still publish anyway.
	VerdictReview Verdict = "review"
	// VerdictSkipped is recorded for edits of already published posts.
	VerdictSkipped Verdict = "skipped"
)

// CheckRecord holds the latest plagiarism check of a blog post.
type CheckRecord struct {
	ID         string
	PostID     string
	AuthorID   string
	ScanID     string
	Percentage float64
	Allowed    bool
	Source     string
	Verdict    Verdict
	Error      string
	CheckedAt  time.Time
}

// Repository defines persistence operations for check records.
type Repository interface {
	UpsertLatest(ctx context.Context, record CheckRecord) error
	Latest(ctx context.Context, postID string) (CheckRecord, error)
}
