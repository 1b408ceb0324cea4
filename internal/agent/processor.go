package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/teemow/jobagent/internal/classify"
	"github.com/teemow/jobagent/internal/config"
	"github.com/teemow/jobagent/internal/domain"
	"github.com/teemow/jobagent/internal/extract"
	"github.com/teemow/jobagent/internal/gmail"
	"github.com/teemow/jobagent/internal/logging"
	"github.com/teemow/jobagent/internal/triage"
)

// Mailbox is the Gmail surface the processor needs.
type Mailbox interface {
	ListMessages(ctx context.Context, q string, maxResults int64) ([]*gmailapi.Message, error)
	GetMessage(ctx context.Context, messageID string) (*gmailapi.Message, error)
	GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
	MoveToLabel(ctx context.Context, messageID, labelName string) error
	MarkRead(ctx context.Context, messageID string) error
}

// Classifier assigns a category to a message.
type Classifier interface {
	Classify(ctx context.Context, messageID, subject, body string, attachmentTexts []string) (classify.Result, error)
}

// Dispatcher executes routed tasks.
type Dispatcher interface {
	Dispatch(ctx context.Context, tasks []triage.Descriptor, tc triage.TaskContext) []triage.Descriptor
}

// Store is the persistence surface the processor needs.
type Store interface {
	EmailSeen(ctx context.Context, messageID string) (bool, error)
	RecordEmail(ctx context.Context, e domain.Email) error
	AppendTaskRecords(ctx context.Context, tasks []triage.Descriptor) error
}

// Summary reports what one triage run did.
type Summary struct {
	RunID      string
	Processed  int
	Skipped    int
	Errored    int
	ByCategory map[classify.Category]int
}

// Processor runs the fetch, classify, file and dispatch loop over an inbox.
// With DryRun set, classification and routing run as usual but nothing is
// moved, marked or persisted.
type Processor struct {
	mailbox    Mailbox
	classifier Classifier
	executor   Dispatcher
	store      Store
	cfg        *config.Config
	logger     *slog.Logger

	DryRun bool
	UserID int64

	// extractText is swappable for tests.
	extractText func(data []byte, mimeType string) (string, error)
}

func NewProcessor(mailbox Mailbox, classifier Classifier, executor Dispatcher, store Store, cfg *config.Config, logger *slog.Logger) *Processor {
	return &Processor{
		mailbox:     mailbox,
		classifier:  classifier,
		executor:    executor,
		store:       store,
		cfg:         cfg,
		logger:      logging.WithComponent(logger, "agent"),
		extractText: extract.Extract,
	}
}

// Run triages up to maxMessages messages matching the Gmail query. A failure
// on one message is logged and counted; the loop always continues to the
// next message.
func (p *Processor) Run(ctx context.Context, query string, maxMessages int64) (Summary, error) {
	summary := Summary{
		RunID:      uuid.NewString(),
		ByCategory: make(map[classify.Category]int),
	}
	logger := p.logger.With(slog.String("run_id", summary.RunID), slog.Bool("dry_run", p.DryRun))

	msgs, err := p.mailbox.ListMessages(ctx, query, maxMessages)
	if err != nil {
		return summary, fmt.Errorf("list messages: %w", err)
	}
	logger.Info("triage run started",
		logging.Operation("run"),
		slog.String("query", query),
		slog.Int("messages", len(msgs)))

	for _, m := range msgs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		seen, err := p.store.EmailSeen(ctx, m.Id)
		if err != nil {
			logger.Error("seen check failed", logging.MessageID(m.Id), logging.Err(err))
			summary.Errored++
			continue
		}
		if seen {
			logger.Debug("message already processed",
				logging.MessageID(m.Id),
				logging.Status(logging.StatusSkipped))
			summary.Skipped++
			continue
		}

		category, err := p.processMessage(ctx, logger, m.Id)
		if err != nil {
			logger.Error("message processing failed",
				logging.MessageID(m.Id),
				logging.Status(logging.StatusError),
				logging.Err(err))
			summary.Errored++
			continue
		}

		summary.Processed++
		summary.ByCategory[category]++
	}

	logger.Info("triage run finished",
		logging.Operation("run"),
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("errored", summary.Errored))
	return summary, nil
}

func (p *Processor) processMessage(ctx context.Context, logger *slog.Logger, messageID string) (classify.Category, error) {
	msg, err := p.mailbox.GetMessage(ctx, messageID)
	if err != nil {
		return "", err
	}

	subject := gmail.HeaderValue(msg, "Subject")
	sender := gmail.HeaderValue(msg, "From")
	body, err := gmail.MessageBody(msg)
	if err != nil {
		// Attachment-only messages still get classified on subject alone.
		body = ""
	}

	attachmentTexts := p.attachmentTexts(ctx, logger, msg)

	res, err := p.classifier.Classify(ctx, messageID, subject, body, attachmentTexts)
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}
	logger.Info("message classified",
		logging.MessageID(messageID),
		logging.Category(string(res.Category)),
		logging.Sender(sender),
		slog.Float64("confidence", res.Confidence))

	tasks, err := triage.Route(res)
	if err != nil {
		return "", fmt.Errorf("route: %w", err)
	}

	if p.DryRun {
		for _, task := range tasks {
			logger.Info("would dispatch task",
				logging.MessageID(messageID),
				slog.String(logging.KeyAgent, string(task.Agent)),
				slog.String(logging.KeyAction, task.Action))
		}
		return res.Category, nil
	}

	label := p.cfg.LabelFor(string(res.Category))
	if err := p.mailbox.MoveToLabel(ctx, messageID, label); err != nil {
		return "", fmt.Errorf("move to label %q: %w", label, err)
	}
	if err := p.mailbox.MarkRead(ctx, messageID); err != nil {
		return "", fmt.Errorf("mark read: %w", err)
	}

	executed := p.executor.Dispatch(ctx, tasks, triage.TaskContext{
		Subject:  subject,
		Sender:   sender,
		Category: res.Category,
	})
	if err := p.store.AppendTaskRecords(ctx, executed); err != nil {
		return "", fmt.Errorf("record tasks: %w", err)
	}

	// Job alerts stay unprocessed until the prepare step turns them into
	// draft applications.
	err = p.store.RecordEmail(ctx, domain.Email{
		UserID:     p.UserID,
		MessageID:  messageID,
		ThreadID:   msg.ThreadId,
		Subject:    subject,
		Sender:     sender,
		Category:   string(res.Category),
		Confidence: res.Confidence,
		BodyText:   body,
		Processed:  res.Category != classify.CategoryJobAlert,
	})
	if err != nil {
		return "", fmt.Errorf("record email: %w", err)
	}

	return res.Category, nil
}

// attachmentTexts extracts what text it can from the message's attachments.
// Unsupported or broken attachments are skipped, never fatal.
func (p *Processor) attachmentTexts(ctx context.Context, logger *slog.Logger, msg *gmailapi.Message) []string {
	var texts []string
	for _, att := range gmail.ListAttachments(msg) {
		data, err := p.mailbox.GetAttachment(ctx, att.MessageID, att.AttachmentID)
		if err != nil {
			logger.Warn("attachment fetch failed",
				logging.MessageID(att.MessageID),
				slog.String("filename", att.Filename),
				logging.Err(err))
			continue
		}
		text, err := p.extractText(data, att.MimeType)
		if err != nil {
			if errors.Is(err, extract.ErrUnsupported) {
				logger.Debug("attachment type not extractable",
					logging.MessageID(att.MessageID),
					slog.String("mime_type", att.MimeType),
					logging.Status(logging.StatusSkipped))
			} else {
				logger.Warn("attachment extraction failed",
					logging.MessageID(att.MessageID),
					slog.String("filename", att.Filename),
					logging.Err(err))
			}
			continue
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}
