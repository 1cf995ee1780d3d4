package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/edulog/plagiarism-check/pkg/obs"
	"github.com/edulog/plagiarism-check/pkg/plagiarism"
	"github.com/edulog/plagiarism-check/pkg/storage"
)

const maxBodyBytes = 1 << 20

// Checker runs one plagiarism check.
type Checker interface {
	Check(ctx context.Context, text string) (plagiarism.Result, error)
}

// RecordReader looks up stored checks.
type RecordReader interface {
	Latest(ctx context.Context, postID string) (storage.CheckRecord, error)
}

// Server exposes synchronous checks and stored results over HTTP.
type Server struct {
	checker Checker
	records RecordReader
	log     *slog.Logger
	timeout time.Duration
}

// NewServer builds the API. timeout bounds one synchronous check; zero
// means no bound beyond the client's own connection.
func NewServer(checker Checker, records RecordReader, log *slog.Logger, timeout time.Duration) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{checker: checker, records: records, log: log, timeout: timeout}
}

// Router returns the instrumented route table.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/v1/checks", s.CheckHandler).Methods(http.MethodPost)
	router.HandleFunc("/v1/posts/{id}/check", s.GetCheckHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	router.Handle("/metrics", obs.Handler()).Methods(http.MethodGet)
	// Middleware runs after matching, so the route template is known.
	router.Use(func(next http.Handler) http.Handler {
		return obs.Instrument(routeName, next)
	})
	return router
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type checkRequest struct {
	Text string `json:"text"`
}

type checkResponse struct {
	Percentage float64 `json:"percentage"`
	Allowed    bool    `json:"allowed"`
	Source     string  `json:"source"`
	Degraded   bool    `json:"degraded"`
	ScanID     string  `json:"scan_id,omitempty"`
	Message    string  `json:"message"`
}

type recordResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id,omitempty"`
	ScanID     string    `json:"scan_id,omitempty"`
	Percentage float64   `json:"percentage"`
	Allowed    bool      `json:"allowed"`
	Source     string    `json:"source,omitempty"`
	Verdict    string    `json:"verdict"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// CheckHandler runs a check and answers once it has a terminal outcome.
func (s *Server) CheckHandler(w http.ResponseWriter, r *http.Request) {
	var body checkRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.checker.Check(ctx, body.Text)
	if err != nil {
		s.log.Warn("Synchronous check failed", "error", err)
		var status int
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
		case plagiarism.IsTerminalError(err):
			status = http.StatusBadGateway
		default:
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{
		Percentage: res.Percentage,
		Allowed:    res.Allowed,
		Source:     string(res.Source),
		Degraded:   res.Degraded(),
		ScanID:     res.ScanID,
		Message:    res.Message(),
	})
}

// GetCheckHandler returns the latest stored check of a post.
func (s *Server) GetCheckHandler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]
	rec, err := s.records.Latest(r.Context(), postID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "check not found")
		return
	}
	if err != nil {
		s.log.Error("Reading check failed", "post_id", postID, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{
		ID:         rec.ID,
		PostID:     rec.PostID,
		AuthorID:   rec.AuthorID,
		ScanID:     rec.ScanID,
		Percentage: rec.Percentage,
		Allowed:    rec.Allowed,
		Source:     rec.Source,
		Verdict:    string(rec.Verdict),
		Error:      rec.Error,
		CheckedAt:  rec.CheckedAt,
	})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
