package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/jobagent/internal/domain"
	"github.com/teemow/jobagent/internal/logging"
)

// ErrInvalidTransition is returned when an operation is called on an
// application whose current status does not allow it. The record is left
// untouched.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrQuotaExceeded is wrapped by QuotaError and matchable with errors.Is.
var ErrQuotaExceeded = errors.New("application quota exceeded")

// QuotaError reports that a user's plan cap was reached.
type QuotaError struct {
	Plan  domain.Plan
	Limit int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("plan %q allows at most %d applications", e.Plan, e.Limit)
}

func (e *QuotaError) Unwrap() error { return ErrQuotaExceeded }

// Store is the persistence surface the workflow service needs.
type Store interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetApplication(ctx context.Context, id int64) (*domain.Application, error)
	CreateApplication(ctx context.Context, a domain.Application) (*domain.Application, error)
	UpdateApplication(ctx context.Context, a *domain.Application) error
	CountApplications(ctx context.Context, userID int64) (int, error)
}

// Service drives applications through the approval chain
// draft -> review_required -> user_approved -> ready_to_submit -> submitted,
// one step at a time, and enforces per-plan quotas on creation.
type Service struct {
	store  Store
	caps   func(domain.Plan) int
	logger *slog.Logger
	now    func() time.Time
}

// New returns a workflow service. caps maps a plan to its application cap.
func New(store Store, caps func(domain.Plan) int, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		caps:   caps,
		logger: logging.WithComponent(logger, "workflow"),
		now:    time.Now,
	}
}

// Create inserts a draft application after checking the owner's plan quota.
// The cap counts all of the user's applications regardless of status.
func (s *Service) Create(ctx context.Context, userID, jobID int64, fitScore *float64) (*domain.Application, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	limit := s.caps(user.Plan)
	count, err := s.store.CountApplications(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= limit {
		s.logger.Warn("application quota reached",
			logging.Operation("create"),
			slog.Int64("user_id", userID),
			slog.String("plan", string(user.Plan)),
			slog.Int("limit", limit))
		return nil, &QuotaError{Plan: user.Plan, Limit: limit}
	}

	app, err := s.store.CreateApplication(ctx, domain.Application{
		UserID:   userID,
		JobID:    jobID,
		Status:   domain.StatusDraft,
		FitScore: fitScore,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("application created",
		logging.Operation("create"),
		slog.Int64("application_id", app.ID),
		slog.Int64("user_id", userID),
		slog.Int64("job_id", jobID))
	return app, nil
}

// MarkForReview advances a draft to review_required.
func (s *Service) MarkForReview(ctx context.Context, id int64) (*domain.Application, error) {
	return s.advance(ctx, id, "mark_for_review", domain.StatusDraft, domain.StatusReviewRequired, nil)
}

// Approve advances review_required to user_approved and stamps ApprovedAt.
// Approval is the only way into user_approved; the timestamp is set once
// and never overwritten.
func (s *Service) Approve(ctx context.Context, id int64) (*domain.Application, error) {
	return s.advance(ctx, id, "approve", domain.StatusReviewRequired, domain.StatusUserApproved,
		func(a *domain.Application) {
			if a.ApprovedAt == nil {
				t := s.now().UTC()
				a.ApprovedAt = &t
			}
		})
}

// MarkReadyToSubmit advances user_approved to ready_to_submit.
func (s *Service) MarkReadyToSubmit(ctx context.Context, id int64) (*domain.Application, error) {
	return s.advance(ctx, id, "mark_ready", domain.StatusUserApproved, domain.StatusReadyToSubmit, nil)
}

// MarkSubmitted advances ready_to_submit to submitted and stamps
// SubmittedAt once.
func (s *Service) MarkSubmitted(ctx context.Context, id int64) (*domain.Application, error) {
	return s.advance(ctx, id, "mark_submitted", domain.StatusReadyToSubmit, domain.StatusSubmitted,
		func(a *domain.Application) {
			if a.SubmittedAt == nil {
				t := s.now().UTC()
				a.SubmittedAt = &t
			}
		})
}

// UpdateStatus assigns one of the tracking states (rejected, interview,
// offer). It overwrites the current status regardless of where the
// application sits in the approval chain; a rejection can land while a draft
// is still under review. Timestamps are never touched here.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Application, error) {
	if !status.Tracking() {
		return nil, fmt.Errorf("status %q is not a tracking state: %w", status, ErrInvalidTransition)
	}
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	app.Status = status
	if err := s.store.UpdateApplication(ctx, app); err != nil {
		return nil, err
	}
	s.logger.Info("application status updated",
		logging.Operation("update_status"),
		slog.Int64("application_id", id),
		slog.String(logging.KeyStatus, string(status)))
	return app, nil
}

// AddNotes replaces the user's notes on an application. Notes may be edited
// in any status.
func (s *Service) AddNotes(ctx context.Context, id int64, notes string) (*domain.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	app.UserNotes = notes
	if err := s.store.UpdateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *Service) advance(ctx context.Context, id int64, op string, from, to domain.Status, stamp func(*domain.Application)) (*domain.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != from {
		return nil, fmt.Errorf("cannot %s application %d in status %q: %w",
			op, id, app.Status, ErrInvalidTransition)
	}
	app.Status = to
	if stamp != nil {
		stamp(app)
	}
	if err := s.store.UpdateApplication(ctx, app); err != nil {
		return nil, err
	}
	s.logger.Info("application advanced",
		logging.Operation(op),
		slog.Int64("application_id", id),
		slog.String(logging.KeyStatus, string(to)))
	return app, nil
}
