package processing

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseCheckRequest(t *testing.T) {
	tests := []struct {
		name        string
		payload     any
		wantPost    string
		wantCat     string
		expectError bool
	}{
		{
			name: "full request",
			payload: map[string]any{
				"post_id":      "p-1",
				"author_id":    "u-1",
				"title":        "Compilers",
				"category":     "technical",
				"content":      "body",
				"requested_at": 1,
			},
			wantPost: "p-1",
			wantCat:  "technical",
		},
		{
			name:     "category is normalized",
			payload:  map[string]any{"post_id": "p-2", "category": " Interview ", "content": "body"},
			wantPost: "p-2",
			wantCat:  "interview",
		},
		{
			name:     "category is optional",
			payload:  map[string]any{"post_id": "p-3", "content": "body"},
			wantPost: "p-3",
		},
		{
			name:        "unknown category",
			payload:     map[string]any{"post_id": "p-4", "category": "gossip", "content": "body"},
			expectError: true,
		},
		{
			name:        "missing content",
			payload:     map[string]any{"post_id": "p-5"},
			expectError: true,
		},
		{
			name:        "missing post id",
			payload:     map[string]any{"content": "body"},
			expectError: true,
		},
		{
			name:        "not an object",
			payload:     []int{1, 2},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.payload)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			msg, err := ParseCheckRequest(raw)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got %+v", msg)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCheckRequest error: %v", err)
			}
			if msg.PostID != tt.wantPost || msg.Category != tt.wantCat {
				t.Fatalf("got post=%q category=%q", msg.PostID, msg.Category)
			}
		})
	}
}

func TestRequestTime(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := (CheckRequest{}).RequestTime(now); !got.Equal(now) {
		t.Fatalf("got %s want fallback %s", got, now)
	}
	got := CheckRequest{RequestedAt: 1700000000123}.RequestTime(now)
	if got.UnixMilli() != 1700000000123 {
		t.Fatalf("got %d ms", got.UnixMilli())
	}
}
