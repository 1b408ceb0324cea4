package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teemow/jobagent/internal/domain"
	"github.com/teemow/jobagent/internal/logging"
	"github.com/teemow/jobagent/internal/match"
	"github.com/teemow/jobagent/internal/workflow"
)

// PrepareStore is the persistence surface the preparer needs.
type PrepareStore interface {
	GetProfile(ctx context.Context, userID int64) (*domain.Profile, error)
	ListUnprocessedJobAlerts(ctx context.Context, userID int64, limit int) ([]domain.Email, error)
	CreateJob(ctx context.Context, j domain.Job) (*domain.Job, error)
	MarkEmailProcessed(ctx context.Context, messageID string, jobID *int64) error
}

// Workflow is the application lifecycle surface the preparer needs.
type Workflow interface {
	Create(ctx context.Context, userID, jobID int64, fitScore *float64) (*domain.Application, error)
	MarkForReview(ctx context.Context, id int64) (*domain.Application, error)
}

// DocGenerator produces the document set for a draft application.
type DocGenerator interface {
	Generate(ctx context.Context, app *domain.Application, profile *domain.Profile, job *domain.Job) (*domain.Document, error)
}

// PrepareSummary reports what one prepare pass did.
type PrepareSummary struct {
	Created int
	Failed  int
}

// Preparer turns stored job alert emails into draft applications awaiting
// review: job record, fit score, documents, then the review_required status.
type Preparer struct {
	store    PrepareStore
	workflow Workflow
	docs     DocGenerator
	logger   *slog.Logger
}

func NewPreparer(store PrepareStore, wf Workflow, docs DocGenerator, logger *slog.Logger) *Preparer {
	return &Preparer{
		store:    store,
		workflow: wf,
		docs:     docs,
		logger:   logging.WithComponent(logger, "prepare"),
	}
}

// Prepare processes up to limit unprocessed job alerts for the user. A
// failure on one alert is counted and the loop continues, except when the
// user's plan quota is hit: that stops the pass and is returned so the
// caller can tell the user, never silently downgraded.
func (p *Preparer) Prepare(ctx context.Context, userID int64, limit int) (PrepareSummary, error) {
	var summary PrepareSummary

	profile, err := p.store.GetProfile(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("load profile: %w", err)
	}

	alerts, err := p.store.ListUnprocessedJobAlerts(ctx, userID, limit)
	if err != nil {
		return summary, fmt.Errorf("list job alerts: %w", err)
	}

	for _, alert := range alerts {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		err := p.prepareOne(ctx, userID, profile, alert)
		if err != nil {
			if errors.Is(err, workflow.ErrQuotaExceeded) {
				p.logger.Warn("stopping prepare pass, quota reached",
					logging.Operation("prepare"),
					slog.Int64("user_id", userID),
					logging.Err(err))
				return summary, err
			}
			p.logger.Error("prepare failed for alert",
				logging.MessageID(alert.MessageID),
				logging.Err(err))
			summary.Failed++
			continue
		}
		summary.Created++
	}

	p.logger.Info("prepare pass finished",
		logging.Operation("prepare"),
		slog.Int64("user_id", userID),
		slog.Int("created", summary.Created),
		slog.Int("failed", summary.Failed))
	return summary, nil
}

func (p *Preparer) prepareOne(ctx context.Context, userID int64, profile *domain.Profile, alert domain.Email) error {
	job, err := p.store.CreateJob(ctx, jobFromAlert(alert))
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}

	score := match.FitScore(*profile, *job)

	app, err := p.workflow.Create(ctx, userID, job.ID, &score)
	if err != nil {
		return err
	}

	if _, err := p.docs.Generate(ctx, app, profile, job); err != nil {
		return err
	}

	if _, err := p.workflow.MarkForReview(ctx, app.ID); err != nil {
		return err
	}

	if err := p.store.MarkEmailProcessed(ctx, alert.MessageID, &job.ID); err != nil {
		return fmt.Errorf("mark alert processed: %w", err)
	}

	p.logger.Info("draft application prepared",
		logging.MessageID(alert.MessageID),
		slog.Int64("application_id", app.ID),
		slog.Int64("job_id", job.ID),
		slog.Float64("fit_score", score))
	return nil
}

// jobFromAlert builds a job record from an alert email. Subjects commonly
// read "Role at Company" or "Role bei Company"; anything else keeps the full
// subject as the role and falls back to the sender's domain for the company.
func jobFromAlert(alert domain.Email) domain.Job {
	job := domain.Job{
		Source:      domain.JobSourceGmail,
		Role:        strings.TrimSpace(alert.Subject),
		Company:     senderDomain(alert.Sender),
		Description: alert.BodyText,
	}

	for _, sep := range []string{" at ", " bei ", " @ "} {
		if i := strings.Index(alert.Subject, sep); i > 0 {
			job.Role = strings.TrimSpace(alert.Subject[:i])
			job.Company = strings.TrimSpace(alert.Subject[i+len(sep):])
			break
		}
	}

	if job.Role == "" {
		job.Role = "Unknown role"
	}
	if job.Company == "" {
		job.Company = "Unknown company"
	}
	return job
}

// senderDomain extracts the domain part of a From header as a company
// fallback, e.g. "Jobs <noreply@acme.example>" yields "acme.example".
func senderDomain(sender string) string {
	addr := sender
	if i := strings.LastIndexByte(addr, '<'); i >= 0 {
		addr = addr[i+1:]
		addr = strings.TrimSuffix(addr, ">")
	}
	if i := strings.LastIndexByte(addr, '@'); i >= 0 {
		return strings.TrimSpace(addr[i+1:])
	}
	return ""
}
