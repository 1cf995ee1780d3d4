//go:generate go run go.uber.org/mock/mockgen -source=handler.go -destination=mock_handler_test.go -package=processing

package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/samber/lo"

	"github.com/edulog/plagiarism-check/pkg/ids"
	"github.com/edulog/plagiarism-check/pkg/obs"
	"github.com/edulog/plagiarism-check/pkg/plagiarism"
	"github.com/edulog/plagiarism-check/pkg/storage"
)

// Checker runs one plagiarism check.
type Checker interface {
	Check(ctx context.Context, text string) (plagiarism.Result, error)
}

// CheckDB represents the storage dependency used by the handler.
type CheckDB interface {
	UpsertLatest(ctx context.Context, record storage.CheckRecord) error
}

// DLQPublisher publishes malformed messages to a dead-letter topic.
type DLQPublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message, reason string) error
}

// ResultPublisher announces settled checks to the blog client.
type ResultPublisher interface {
	Publish(ctx context.Context, event CheckCompleted) error
}

// PubSubDLQPublisher implements DLQPublisher using a Pub/Sub topic.
type PubSubDLQPublisher struct {
	topic *pubsub.Topic
}

// NewPubSubDLQPublisher constructs a DLQ publisher for the given topic. If the
// topic is nil, publishes are treated as no-ops.
func NewPubSubDLQPublisher(topic *pubsub.Topic) *PubSubDLQPublisher {
	return &PubSubDLQPublisher{topic: topic}
}

// Publish sends the message to the DLQ topic. If topic is nil, it is a no-op.
func (p *PubSubDLQPublisher) Publish(ctx context.Context, msg *pubsub.Message, reason string) error {
	if p.topic == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	attrs := map[string]string{
		"reason":      reason,
		"orig_msg_id": msg.ID,
	}
	if msg.DeliveryAttempt != nil {
		attrs["delivery_attempt"] = strconv.Itoa(*msg.DeliveryAttempt)
	}
	_, err := p.topic.Publish(ctx, &pubsub.Message{Data: msg.Data, Attributes: attrs}).Get(ctx)
	return err
}

// NoopDLQPublisher is used when no DLQ topic is configured.
type NoopDLQPublisher struct{}

func (n *NoopDLQPublisher) Publish(ctx context.Context, msg *pubsub.Message, reason string) error {
	return nil
}

// PubSubResultPublisher implements ResultPublisher using a Pub/Sub topic.
type PubSubResultPublisher struct {
	topic *pubsub.Topic
}

func NewPubSubResultPublisher(topic *pubsub.Topic) *PubSubResultPublisher {
	return &PubSubResultPublisher{topic: topic}
}

// Publish sends the event keyed by post so one post's results stay in
// order for subscribers that enable message ordering.
func (p *PubSubResultPublisher) Publish(ctx context.Context, event CheckCompleted) error {
	if p.topic == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal check completed: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err = p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"post_id": event.PostID, "verdict": event.Verdict},
	}).Get(ctx)
	return err
}

// NoopResultPublisher is used when no results topic is configured.
type NoopResultPublisher struct{}

func (n *NoopResultPublisher) Publish(ctx context.Context, event CheckCompleted) error {
	return nil
}

// Handler settles check request messages.
type Handler struct {
	checker Checker
	db      CheckDB
	dlq     DLQPublisher
	results ResultPublisher
	log     *slog.Logger
	now     func() time.Time
}

// NewHandler wires a handler. Nil publishers become no-ops.
func NewHandler(checker Checker, db CheckDB, dlq DLQPublisher, results ResultPublisher, log *slog.Logger) *Handler {
	if dlq == nil {
		dlq = &NoopDLQPublisher{}
	}
	if results == nil {
		results = &NoopResultPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{checker: checker, db: db, dlq: dlq, results: results, log: log, now: time.Now}
}

// HandleMessage processes a Pub/Sub message and returns true if it should be
// acked (even when sent to DLQ or when the check itself failed) or false to
// Nack (for retriable errors).
func (h *Handler) HandleMessage(ctx context.Context, msg *pubsub.Message) bool {
	ack := h.handle(ctx, msg)
	obs.ObserveMessage(lo.Ternary(ack, "ack", "nack"))
	return ack
}

func (h *Handler) handle(ctx context.Context, msg *pubsub.Message) bool {
	req, err := ParseCheckRequest(msg.Data)
	if err != nil {
		h.log.Warn("Pushing message to DLQ", "msg_id", msg.ID, "error", err)
		if err := h.dlq.Publish(ctx, msg, "parse_error"); err != nil {
			h.log.Error("Error publishing to DLQ", "msg_id", msg.ID, "error", err)
			return false
		}
		obs.ObserveMessage("dlq")
		return true
	}

	log := h.log.With("post_id", req.PostID)
	record := storage.CheckRecord{
		ID:        ids.New(),
		PostID:    req.PostID,
		AuthorID:  req.AuthorID,
		CheckedAt: req.RequestTime(h.now()),
	}
	var (
		message  string
		degraded bool
	)

	if req.Editing {
		// Edits of published posts are not re-checked.
		record.Allowed = true
		record.Verdict = storage.VerdictSkipped
		message = "Plagiarism check skipped for edit"
	} else {
		res, err := h.checker.Check(ctx, req.Content)
		switch {
		case err != nil && ctx.Err() != nil:
			log.Warn("Check interrupted, leaving message for redelivery", "error", err)
			return false
		case err != nil && !plagiarism.IsTerminalError(err):
			// Not an upstream verdict, e.g. a recovered panic.
			log.Error("Check aborted, pushing message to DLQ", "error", err)
			if err := h.dlq.Publish(ctx, msg, "check_aborted"); err != nil {
				log.Error("Error publishing to DLQ", "msg_id", msg.ID, "error", err)
				return false
			}
			obs.ObserveMessage("dlq")
			return true
		case err != nil:
			log.Warn("Plagiarism check failed, author may publish anyway", "error", err)
			record.Verdict = storage.VerdictReview
			record.Error = err.Error()
			message = err.Error()
		default:
			record.ScanID = res.ScanID
			record.Percentage = res.Percentage
			record.Allowed = res.Allowed
			record.Source = string(res.Source)
			record.Verdict = lo.Ternary(res.Allowed, storage.VerdictAccepted, storage.VerdictRejected)
			message = res.Message()
			degraded = res.Degraded()
		}
	}

	if err := h.db.UpsertLatest(ctx, record); err != nil {
		log.Error("Upsert failed", "error", err)
		return false
	}

	event := CheckCompleted{
		PostID:     record.PostID,
		ScanID:     record.ScanID,
		Percentage: record.Percentage,
		Allowed:    record.Allowed,
		Source:     record.Source,
		Degraded:   degraded,
		Verdict:    string(record.Verdict),
		Message:    message,
	}
	if err := h.results.Publish(ctx, event); err != nil {
		// The record is stored; clients can still read it over HTTP.
		log.Warn("Error publishing check result", "error", err)
	}
	log.Info("Check request settled", "verdict", record.Verdict, "percentage", record.Percentage)
	return true
}
