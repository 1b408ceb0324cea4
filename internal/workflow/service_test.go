package workflow

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/jobagent/internal/domain"
)

type fakeStore struct {
	users  map[int64]*domain.User
	apps   map[int64]*domain.Application
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: map[int64]*domain.User{
			1: {ID: 1, Email: "anna@example.com", Plan: domain.PlanFree},
		},
		apps:   map[int64]*domain.Application{},
		nextID: 1,
	}
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeStore) GetApplication(_ context.Context, id int64) (*domain.Application, error) {
	a, ok := f.apps[id]
	if !ok {
		return nil, errors.New("application not found")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) CreateApplication(_ context.Context, a domain.Application) (*domain.Application, error) {
	a.ID = f.nextID
	f.nextID++
	a.CreatedAt = time.Now()
	f.apps[a.ID] = &a
	cp := a
	return &cp, nil
}

func (f *fakeStore) UpdateApplication(_ context.Context, a *domain.Application) error {
	if _, ok := f.apps[a.ID]; !ok {
		return errors.New("application not found")
	}
	cp := *a
	f.apps[a.ID] = &cp
	return nil
}

func (f *fakeStore) CountApplications(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, a := range f.apps {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func newTestService(store Store, cap int) *Service {
	svc := New(store, func(domain.Plan) int { return cap }, slog.New(slog.DiscardHandler))
	return svc
}

func TestCreateEnforcesQuota(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f, 2)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, 10, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, 11, nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, 12, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	var qe *QuotaError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, domain.PlanFree, qe.Plan)
	assert.Equal(t, 2, qe.Limit)

	count, _ := f.CountApplications(ctx, 1)
	assert.Equal(t, 2, count, "failed create must not insert")
}

func TestForwardChainStampsTimestampsOnce(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f, 10)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	score := 76.7
	app, err := svc.Create(ctx, 1, 10, &score)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, app.Status)

	app, err = svc.MarkForReview(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReviewRequired, app.Status)
	assert.Nil(t, app.ApprovedAt)

	app, err = svc.Approve(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUserApproved, app.Status)
	require.NotNil(t, app.ApprovedAt)
	assert.Equal(t, fixed, *app.ApprovedAt)
	assert.Nil(t, app.SubmittedAt)

	svc.now = func() time.Time { return fixed.Add(time.Hour) }
	app, err = svc.MarkReadyToSubmit(ctx, app.ID)
	require.NoError(t, err)
	app, err = svc.MarkSubmitted(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, app.Status)
	require.NotNil(t, app.SubmittedAt)
	assert.Equal(t, fixed.Add(time.Hour), *app.SubmittedAt)
	assert.Equal(t, fixed, *app.ApprovedAt, "approval timestamp never rewritten")
}

func TestChainRejectsSkippedSteps(t *testing.T) {
	tests := []struct {
		name string
		from domain.Status
		call func(svc *Service, id int64) error
	}{
		{
			name: "approve from draft",
			from: domain.StatusDraft,
			call: func(svc *Service, id int64) error { _, err := svc.Approve(context.Background(), id); return err },
		},
		{
			name: "submit from draft",
			from: domain.StatusDraft,
			call: func(svc *Service, id int64) error { _, err := svc.MarkSubmitted(context.Background(), id); return err },
		},
		{
			name: "ready without approval",
			from: domain.StatusReviewRequired,
			call: func(svc *Service, id int64) error {
				_, err := svc.MarkReadyToSubmit(context.Background(), id)
				return err
			},
		},
		{
			name: "review a submitted application",
			from: domain.StatusSubmitted,
			call: func(svc *Service, id int64) error { _, err := svc.MarkForReview(context.Background(), id); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeStore()
			svc := newTestService(f, 10)
			f.apps[1] = &domain.Application{ID: 1, UserID: 1, JobID: 10, Status: tt.from}

			err := tt.call(svc, 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTransition)

			got, _ := f.GetApplication(context.Background(), 1)
			assert.Equal(t, tt.from, got.Status, "record stays untouched")
		})
	}
}

func TestUpdateStatusTrackingOnly(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f, 10)
	ctx := context.Background()

	submitted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.apps[1] = &domain.Application{
		ID: 1, UserID: 1, JobID: 10,
		Status:      domain.StatusSubmitted,
		SubmittedAt: &submitted,
	}

	app, err := svc.UpdateStatus(ctx, 1, domain.StatusInterview)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInterview, app.Status)
	require.NotNil(t, app.SubmittedAt)
	assert.Equal(t, submitted, *app.SubmittedAt)

	app, err = svc.UpdateStatus(ctx, 1, domain.StatusOffer)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOffer, app.Status)

	_, err = svc.UpdateStatus(ctx, 1, domain.StatusDraft)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusBypassesChain(t *testing.T) {
	tests := []struct {
		name string
		from domain.Status
		to   domain.Status
	}{
		{name: "rejection during review", from: domain.StatusReviewRequired, to: domain.StatusRejected},
		{name: "interview invite before submission", from: domain.StatusDraft, to: domain.StatusInterview},
		{name: "offer while ready to submit", from: domain.StatusReadyToSubmit, to: domain.StatusOffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeStore()
			svc := newTestService(f, 10)
			f.apps[1] = &domain.Application{ID: 1, UserID: 1, JobID: 10, Status: tt.from}

			app, err := svc.UpdateStatus(context.Background(), 1, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.to, app.Status)
			assert.Nil(t, app.ApprovedAt, "tracking updates never stamp timestamps")
			assert.Nil(t, app.SubmittedAt)
		})
	}
}

func TestAddNotes(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f, 10)
	ctx := context.Background()

	f.apps[1] = &domain.Application{ID: 1, UserID: 1, JobID: 10, Status: domain.StatusReviewRequired}

	app, err := svc.AddNotes(ctx, 1, "ask about remote policy")
	require.NoError(t, err)
	assert.Equal(t, "ask about remote policy", app.UserNotes)
	assert.Equal(t, domain.StatusReviewRequired, app.Status, "notes never change status")
}
