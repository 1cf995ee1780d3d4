package processing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CheckRequest is published by the blog client when an author wants to
// publish a post.
type CheckRequest struct {
	PostID      string `json:"post_id" validate:"required"`
	AuthorID    string `json:"author_id"`
	Title       string `json:"title"`
	Category    string `json:"category" validate:"omitempty,oneof=technical research interview"`
	Content     string `json:"content" validate:"required"`
	Editing     bool   `json:"editing"`
	RequestedAt int64  `json:"requested_at"`
}

// ParseCheckRequest unmarshals and validates a check request payload.
func ParseCheckRequest(raw []byte) (CheckRequest, error) {
	var msg CheckRequest
	if err := json.Unmarshal(raw, &msg); err != nil {
		return CheckRequest{}, fmt.Errorf("unmarshal check request: %w", err)
	}
	msg.Category = strings.ToLower(strings.TrimSpace(msg.Category))
	if err := validate.Struct(msg); err != nil {
		return CheckRequest{}, fmt.Errorf("invalid check request: %w", err)
	}
	return msg, nil
}

// RequestTime is when the author asked for the check, or fallback when
// the client did not say.
func (m CheckRequest) RequestTime(fallback time.Time) time.Time {
	if m.RequestedAt <= 0 {
		return fallback.UTC()
	}
	return time.UnixMilli(m.RequestedAt).UTC()
}

// CheckCompleted is published once a request has been settled.
type CheckCompleted struct {
	PostID     string  `json:"post_id"`
	ScanID     string  `json:"scan_id,omitempty"`
	Percentage float64 `json:"percentage"`
	Allowed    bool    `json:"allowed"`
	Source     string  `json:"source,omitempty"`
	Degraded   bool    `json:"degraded"`
	Verdict    string  `json:"verdict"`
	Message    string  `json:"message"`
}
