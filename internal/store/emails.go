package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/teemow/jobagent/internal/domain"
)

const emailColumns = `id, user_id, message_id, thread_id, subject, sender, category, confidence, body_text, processed, job_id, created_at`

func scanEmail(row interface {
	Scan(dest ...any) error
}) (*domain.Email, error) {
	var e domain.Email
	var jobID sql.NullInt64
	err := row.Scan(&e.ID, &e.UserID, &e.MessageID, &e.ThreadID, &e.Subject, &e.Sender,
		&e.Category, &e.Confidence, &e.BodyText, &e.Processed, &jobID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if jobID.Valid {
		id := jobID.Int64
		e.JobID = &id
	}
	return &e, nil
}

// RecordEmail stores a processed email. Recording the same Gmail message ID
// twice is a no-op so reruns over an inbox stay idempotent.
func (s *Store) RecordEmail(ctx context.Context, e domain.Email) error {
	var jobID any
	if e.JobID != nil {
		jobID = *e.JobID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO emails (user_id, message_id, thread_id, subject, sender, category, confidence, body_text, processed, job_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(message_id) DO NOTHING`,
		e.UserID, e.MessageID, e.ThreadID, e.Subject, e.Sender,
		e.Category, e.Confidence, e.BodyText, e.Processed, jobID)
	if err != nil {
		return fmt.Errorf("record email: %w", err)
	}
	return nil
}

// EmailSeen reports whether a Gmail message ID was recorded before.
func (s *Store) EmailSeen(ctx context.Context, messageID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM emails WHERE message_id = ?`, messageID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("email seen: %w", err)
	}
	return n > 0, nil
}

// GetEmail retrieves a recorded email by Gmail message ID.
func (s *Store) GetEmail(ctx context.Context, messageID string) (*domain.Email, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+emailColumns+` FROM emails WHERE message_id = ?`, messageID)
	e, err := scanEmail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("email %s: %w", messageID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get email: %w", err)
	}
	return e, nil
}

// ListUnprocessedJobAlerts returns a user's stored job alert emails that
// have not been turned into draft applications yet, oldest first.
func (s *Store) ListUnprocessedJobAlerts(ctx context.Context, userID int64, limit int) ([]domain.Email, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+emailColumns+`
		FROM emails
		WHERE user_id = ? AND category = 'job_alert' AND processed = 0
		ORDER BY id
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list job alerts: %w", err)
	}
	defer rows.Close()

	var emails []domain.Email
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, *e)
	}
	return emails, rows.Err()
}

// MarkEmailProcessed flags an email as consumed, optionally linking the job
// record created from it.
func (s *Store) MarkEmailProcessed(ctx context.Context, messageID string, jobID *int64) error {
	var job any
	if jobID != nil {
		job = *jobID
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE emails SET processed = 1, job_id = ? WHERE message_id = ?`, job, messageID)
	if err != nil {
		return fmt.Errorf("mark email processed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("email %s: %w", messageID, ErrNotFound)
	}
	return nil
}
