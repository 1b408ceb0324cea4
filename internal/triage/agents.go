package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/teemow/jobagent/internal/classify"
)

// TaskContext carries the message details a handler may need beyond the
// descriptor itself.
type TaskContext struct {
	Subject  string
	Sender   string
	Category classify.Category
}

// Handler executes one task and returns a human-readable result.
type Handler interface {
	Execute(ctx context.Context, task Descriptor, tc TaskContext) (string, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, task Descriptor, tc TaskContext) (string, error)

// Execute calls f.
func (f HandlerFunc) Execute(ctx context.Context, task Descriptor, tc TaskContext) (string, error) {
	return f(ctx, task, tc)
}

// ReviewerHandler flags messages for human follow-up.
type ReviewerHandler struct {
	Name string
}

// Execute summarizes the review outcome.
func (h *ReviewerHandler) Execute(_ context.Context, task Descriptor, tc TaskContext) (string, error) {
	return fmt.Sprintf("%s reviewed %q (category: %s); flagged for human follow-up", h.Name, tc.Subject, tc.Category), nil
}

// SchedulerHandler notes onboarding follow-ups for accepted applications.
type SchedulerHandler struct {
	Name string
}

// Execute records a scheduling note.
func (h *SchedulerHandler) Execute(_ context.Context, task Descriptor, tc TaskContext) (string, error) {
	return fmt.Sprintf("%s queued onboarding follow-up for %q", h.Name, tc.Subject), nil
}

// FeedbackWriterHandler drafts a polite reply matching the classification.
// Drafts are German because that is the language of the correspondence the
// agent was built for.
type FeedbackWriterHandler struct {
	Name string
}

// Execute returns the draft reply text.
func (h *FeedbackWriterHandler) Execute(_ context.Context, task Descriptor, tc TaskContext) (string, error) {
	var draft string
	switch tc.Category {
	case classify.CategoryRejection:
		draft = "Sehr geehrte Damen und Herren,\n\n" +
			"vielen Dank für Ihre Rückmeldung. Wir bedauern die Entscheidung " +
			"und bedanken uns für die Berücksichtigung.\n\n" +
			"Mit freundlichen Grüßen"
	case classify.CategoryAcceptance:
		draft = "Sehr geehrte Damen und Herren,\n\n" +
			"vielen Dank für die positive Rückmeldung. Wir freuen uns sehr " +
			"und melden uns zeitnah zu den nächsten Schritten.\n\n" +
			"Mit freundlichen Grüßen"
	default:
		draft = "Sehr geehrte Damen und Herren,\n\n" +
			"vielen Dank für Ihre Nachricht. Wir kümmern uns um Ihr Anliegen.\n\n" +
			"Mit freundlichen Grüßen"
	}
	return draft, nil
}

// ArchiverHandler emits a JSON archive record for traceability.
type ArchiverHandler struct {
	Name string
	now  func() time.Time
}

// Execute returns the archive record.
func (h *ArchiverHandler) Execute(_ context.Context, task Descriptor, tc TaskContext) (string, error) {
	clock := h.now
	if clock == nil {
		clock = time.Now
	}
	record := map[string]string{
		"message_id":  task.MessageID,
		"subject":     tc.Subject,
		"category":    string(tc.Category),
		"archived_at": clock().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal archive record: %w", err)
	}
	return "Archived: " + string(data), nil
}
