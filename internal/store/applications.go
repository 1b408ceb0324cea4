package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/teemow/jobagent/internal/domain"
)

const applicationColumns = `id, user_id, job_id, status, fit_score, user_notes, created_at, approved_at, submitted_at`

func scanApplication(row interface {
	Scan(dest ...any) error
}) (*domain.Application, error) {
	var a domain.Application
	var status string
	var fitScore sql.NullFloat64
	var approvedAt, submittedAt sql.NullTime
	err := row.Scan(&a.ID, &a.UserID, &a.JobID, &status, &fitScore, &a.UserNotes,
		&a.CreatedAt, &approvedAt, &submittedAt)
	if err != nil {
		return nil, err
	}
	a.Status = domain.Status(status)
	if fitScore.Valid {
		a.FitScore = &fitScore.Float64
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		a.ApprovedAt = &t
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		a.SubmittedAt = &t
	}
	return &a, nil
}

// CreateApplication inserts a new application record. Quota enforcement
// lives in the workflow service, not here.
func (s *Store) CreateApplication(ctx context.Context, a domain.Application) (*domain.Application, error) {
	var fitScore any
	if a.FitScore != nil {
		fitScore = *a.FitScore
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (user_id, job_id, status, fit_score, user_notes)
		VALUES (?, ?, ?, ?, ?)`,
		a.UserID, a.JobID, string(a.Status), fitScore, a.UserNotes)
	if err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetApplication(ctx, id)
}

// GetApplication retrieves an application by ID.
func (s *Store) GetApplication(ctx context.Context, id int64) (*domain.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}

// ListApplications returns a user's applications, optionally filtered by
// status (empty status matches all), ordered by creation.
func (s *Store) ListApplications(ctx context.Context, userID int64, status domain.Status) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// CountApplications returns the number of applications a user owns,
// regardless of status. Used for plan quota checks.
func (s *Store) CountApplications(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return n, nil
}

// UpdateApplication persists the mutable fields of an application: status,
// notes and the two workflow timestamps. Timestamps are written as given;
// the workflow service guarantees they are only ever set, never cleared.
func (s *Store) UpdateApplication(ctx context.Context, a *domain.Application) error {
	var approvedAt, submittedAt any
	if a.ApprovedAt != nil {
		approvedAt = *a.ApprovedAt
	}
	if a.SubmittedAt != nil {
		submittedAt = *a.SubmittedAt
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE applications
		SET status = ?, user_notes = ?, approved_at = ?, submitted_at = ?
		WHERE id = ?`,
		string(a.Status), a.UserNotes, approvedAt, submittedAt, a.ID)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("application %d: %w", a.ID, ErrNotFound)
	}
	return nil
}
