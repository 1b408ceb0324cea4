package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/teemow/jobagent/internal/domain"
)

// CreateJob stores a job posting and returns it. Jobs are immutable once
// created; there is no update operation.
func (s *Store) CreateJob(ctx context.Context, j domain.Job) (*domain.Job, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (source, company, role, description, requirements, location)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(j.Source), j.Company, j.Role, j.Description, j.Requirements, j.Location)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetJob(ctx, id)
}

// GetJob retrieves a job by ID.
func (s *Store) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	var j domain.Job
	var source string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, company, role, description, requirements, location, created_at
		FROM jobs WHERE id = ?`, id,
	).Scan(&j.ID, &source, &j.Company, &j.Role, &j.Description, &j.Requirements, &j.Location, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	j.Source = domain.JobSource(source)
	return &j, nil
}

// ListJobs returns jobs newest first, with pagination.
func (s *Store) ListJobs(ctx context.Context, limit, offset int) ([]domain.Job, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, company, role, description, requirements, location, created_at
		FROM jobs ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var j domain.Job
		var source string
		if err := rows.Scan(&j.ID, &source, &j.Company, &j.Role, &j.Description, &j.Requirements, &j.Location, &j.CreatedAt); err != nil {
			return nil, err
		}
		j.Source = domain.JobSource(source)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// SearchJobs filters jobs by company, role and location substrings. Empty
// filters match everything.
func (s *Store) SearchJobs(ctx context.Context, company, role, location string) ([]domain.Job, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, company, role, description, requirements, location, created_at
		FROM jobs
		WHERE company LIKE '%' || ? || '%'
		  AND role LIKE '%' || ? || '%'
		  AND location LIKE '%' || ? || '%'
		ORDER BY id`, company, role, location)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var j domain.Job
		var source string
		if err := rows.Scan(&j.ID, &source, &j.Company, &j.Role, &j.Description, &j.Requirements, &j.Location, &j.CreatedAt); err != nil {
			return nil, err
		}
		j.Source = domain.JobSource(source)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
