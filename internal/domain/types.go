package domain

import "time"

// Plan identifies a subscription tier. Each tier carries a fixed cap on the
// number of applications a user may hold.
type Plan string

const (
	PlanFree   Plan = "free"
	PlanPro    Plan = "pro"
	PlanAgency Plan = "agency"
)

// Valid reports whether p is one of the known plan tiers.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanAgency:
		return true
	}
	return false
}

// Status is the lifecycle state of an Application.
//
// The first five form the forward approval chain and may only be advanced
// one step at a time through the workflow service. The remaining three are
// tracking states for external outcomes and bypass the chain.
type Status string

const (
	StatusDraft          Status = "draft"
	StatusReviewRequired Status = "review_required"
	StatusUserApproved   Status = "user_approved"
	StatusReadyToSubmit  Status = "ready_to_submit"
	StatusSubmitted      Status = "submitted"

	StatusRejected  Status = "rejected"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
)

// Tracking reports whether s is one of the informational outcome states
// that may be assigned directly, outside the forward chain.
func (s Status) Tracking() bool {
	switch s {
	case StatusRejected, StatusInterview, StatusOffer:
		return true
	}
	return false
}

// JobSource records where a job posting came from.
type JobSource string

const (
	JobSourceGmail  JobSource = "gmail"
	JobSourceManual JobSource = "manual"
)

// User is an account holder. Plan determines the application quota.
type User struct {
	ID        int64
	Email     string
	Plan      Plan
	CreatedAt time.Time
}

// Profile holds a user's CV data. At most one per user; read-only input to
// fit scoring and document generation.
type Profile struct {
	ID              int64
	UserID          int64
	FullName        string
	Skills          []string
	ExperienceYears int
	Location        string
	CVText          string
	UpdatedAt       time.Time
}

// Job is a job posting. Immutable once created.
type Job struct {
	ID           int64
	Source       JobSource
	Company      string
	Role         string
	Description  string
	Requirements string
	Location     string
	CreatedAt    time.Time
}

// Application tracks one user's application to one job through the approval
// workflow. ApprovedAt and SubmittedAt are set exactly once by the forward
// chain and never cleared.
type Application struct {
	ID          int64
	UserID      int64
	JobID       int64
	Status      Status
	FitScore    *float64
	UserNotes   string
	CreatedAt   time.Time
	ApprovedAt  *time.Time
	SubmittedAt *time.Time
}

// Document holds the generated artifacts for an application. Generated once;
// regeneration is rejected rather than overwriting in place.
type Document struct {
	ID            int64
	ApplicationID int64
	CoverLetterEN string
	CoverLetterDE string
	CVNotes       string
	FormAnswers   map[string]string
	Method        string
	GeneratedAt   time.Time
}

// Email is the persisted record of a triaged mailbox message.
type Email struct {
	ID         int64
	UserID     int64
	MessageID  string
	ThreadID   string
	Subject    string
	Sender     string
	Category   string
	Confidence float64
	BodyText   string
	Processed  bool
	JobID      *int64
	CreatedAt  time.Time
}
