package agent

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/jobagent/internal/domain"
	"github.com/teemow/jobagent/internal/workflow"
)

type fakePrepareStore struct {
	profile   *domain.Profile
	alerts    []domain.Email
	jobs      []domain.Job
	processed map[string]int64
	nextJobID int64
}

func newFakePrepareStore(alerts ...domain.Email) *fakePrepareStore {
	return &fakePrepareStore{
		profile: &domain.Profile{
			UserID:   1,
			FullName: "Anna Schmidt",
			Skills:   []string{"Go", "SQL"},
			Location: "Berlin",
		},
		alerts:    alerts,
		processed: map[string]int64{},
		nextJobID: 100,
	}
}

func (f *fakePrepareStore) GetProfile(_ context.Context, _ int64) (*domain.Profile, error) {
	return f.profile, nil
}

func (f *fakePrepareStore) ListUnprocessedJobAlerts(_ context.Context, _ int64, limit int) ([]domain.Email, error) {
	if len(f.alerts) > limit {
		return f.alerts[:limit], nil
	}
	return f.alerts, nil
}

func (f *fakePrepareStore) CreateJob(_ context.Context, j domain.Job) (*domain.Job, error) {
	j.ID = f.nextJobID
	f.nextJobID++
	f.jobs = append(f.jobs, j)
	return &j, nil
}

func (f *fakePrepareStore) MarkEmailProcessed(_ context.Context, messageID string, jobID *int64) error {
	if jobID != nil {
		f.processed[messageID] = *jobID
	}
	return nil
}

type fakeWorkflow struct {
	created    []domain.Application
	reviewed   []int64
	quotaAfter int // fail Create once this many applications exist
	nextAppID  int64
}

func (f *fakeWorkflow) Create(_ context.Context, userID, jobID int64, fitScore *float64) (*domain.Application, error) {
	if f.quotaAfter > 0 && len(f.created) >= f.quotaAfter {
		return nil, &workflow.QuotaError{Plan: domain.PlanFree, Limit: f.quotaAfter}
	}
	f.nextAppID++
	app := domain.Application{
		ID:       f.nextAppID,
		UserID:   userID,
		JobID:    jobID,
		Status:   domain.StatusDraft,
		FitScore: fitScore,
	}
	f.created = append(f.created, app)
	return &app, nil
}

func (f *fakeWorkflow) MarkForReview(_ context.Context, id int64) (*domain.Application, error) {
	f.reviewed = append(f.reviewed, id)
	return &domain.Application{ID: id, Status: domain.StatusReviewRequired}, nil
}

type fakeDocGen struct {
	generated []int64
	errFor    map[int64]error
}

func (f *fakeDocGen) Generate(_ context.Context, app *domain.Application, _ *domain.Profile, _ *domain.Job) (*domain.Document, error) {
	if err := f.errFor[app.ID]; err != nil {
		return nil, err
	}
	f.generated = append(f.generated, app.ID)
	return &domain.Document{ApplicationID: app.ID}, nil
}

func alert(messageID, subject string) domain.Email {
	return domain.Email{
		UserID:    1,
		MessageID: messageID,
		Subject:   subject,
		Sender:    "Jobs <noreply@jobboard.example>",
		Category:  "job_alert",
		BodyText:  "We found a matching position requiring Go and SQL.",
	}
}

func TestPrepareCreatesDraftApplications(t *testing.T) {
	st := newFakePrepareStore(alert("a1", "Backend Engineer at Acme"))
	wf := &fakeWorkflow{}
	dg := &fakeDocGen{}

	summary, err := NewPreparer(st, wf, dg, slog.New(slog.DiscardHandler)).
		Prepare(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Failed)

	require.Len(t, st.jobs, 1)
	assert.Equal(t, "Backend Engineer", st.jobs[0].Role)
	assert.Equal(t, "Acme", st.jobs[0].Company)
	assert.Equal(t, domain.JobSourceGmail, st.jobs[0].Source)

	require.Len(t, wf.created, 1)
	require.NotNil(t, wf.created[0].FitScore)
	assert.Len(t, dg.generated, 1)
	assert.Equal(t, []int64{wf.created[0].ID}, wf.reviewed)
	assert.Contains(t, st.processed, "a1")
}

func TestPrepareQuotaStopsPass(t *testing.T) {
	st := newFakePrepareStore(
		alert("a1", "Role One at Acme"),
		alert("a2", "Role Two at Widgets"),
		alert("a3", "Role Three at Globex"),
	)
	wf := &fakeWorkflow{quotaAfter: 1}
	dg := &fakeDocGen{}

	summary, err := NewPreparer(st, wf, dg, slog.New(slog.DiscardHandler)).
		Prepare(context.Background(), 1, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrQuotaExceeded)

	var qe *workflow.QuotaError
	assert.ErrorAs(t, err, &qe)

	assert.Equal(t, 1, summary.Created)
	assert.NotContains(t, st.processed, "a2", "pass stops at the quota")
	assert.NotContains(t, st.processed, "a3")
}

func TestPrepareContinuesAfterSingleFailure(t *testing.T) {
	st := newFakePrepareStore(
		alert("a1", "Role One at Acme"),
		alert("a2", "Role Two at Widgets"),
	)
	wf := &fakeWorkflow{}
	dg := &fakeDocGen{errFor: map[int64]error{1: errors.New("template broken")}}

	summary, err := NewPreparer(st, wf, dg, slog.New(slog.DiscardHandler)).
		Prepare(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, st.processed, "a2")
	assert.NotContains(t, st.processed, "a1", "failed alert stays unprocessed for a retry")
}

func TestJobFromAlertSubjectParsing(t *testing.T) {
	tests := []struct {
		name        string
		subject     string
		sender      string
		wantRole    string
		wantCompany string
	}{
		{
			name:        "english separator",
			subject:     "Backend Engineer at Acme GmbH",
			sender:      "jobs@board.example",
			wantRole:    "Backend Engineer",
			wantCompany: "Acme GmbH",
		},
		{
			name:        "german separator",
			subject:     "Entwickler bei Widgets AG",
			sender:      "jobs@board.example",
			wantRole:    "Entwickler",
			wantCompany: "Widgets AG",
		},
		{
			name:        "no separator falls back to sender domain",
			subject:     "Neue Jobs für Sie",
			sender:      "Jobs <noreply@jobboard.example>",
			wantRole:    "Neue Jobs für Sie",
			wantCompany: "jobboard.example",
		},
		{
			name:        "empty subject",
			subject:     "",
			sender:      "",
			wantRole:    "Unknown role",
			wantCompany: "Unknown company",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := jobFromAlert(domain.Email{Subject: tt.subject, Sender: tt.sender})
			assert.Equal(t, tt.wantRole, job.Role)
			assert.Equal(t, tt.wantCompany, job.Company)
		})
	}
}
