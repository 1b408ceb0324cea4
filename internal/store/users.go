package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/teemow/jobagent/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// CreateUser creates a user on the given plan and returns it.
func (s *Store) CreateUser(ctx context.Context, email string, plan domain.Plan) (*domain.User, error) {
	if !plan.Valid() {
		return nil, fmt.Errorf("unknown plan %q", plan)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, plan) VALUES (?, ?)`, email, string(plan))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	var plan string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, plan, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &plan, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Plan = domain.Plan(plan)
	return &u, nil
}

// GetUserByEmail retrieves a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	var plan string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, plan, created_at FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &plan, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	u.Plan = domain.Plan(plan)
	return &u, nil
}

// UpdateUserPlan changes a user's subscription plan.
func (s *Store) UpdateUserPlan(ctx context.Context, id int64, plan domain.Plan) error {
	if !plan.Valid() {
		return fmt.Errorf("unknown plan %q", plan)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET plan = ? WHERE id = ?`, string(plan), id)
	if err != nil {
		return fmt.Errorf("update user plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpsertProfile creates or replaces the profile for a user. One profile per
// user; a second upsert overwrites the first.
func (s *Store) UpsertProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return nil, fmt.Errorf("marshal skills: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, full_name, skills, experience_years, location, cv_text, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			full_name = excluded.full_name,
			skills = excluded.skills,
			experience_years = excluded.experience_years,
			location = excluded.location,
			cv_text = excluded.cv_text,
			updated_at = CURRENT_TIMESTAMP`,
		p.UserID, p.FullName, string(skills), p.ExperienceYears, p.Location, p.CVText)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return s.GetProfile(ctx, p.UserID)
}

// GetProfile retrieves the profile for a user.
func (s *Store) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	var p domain.Profile
	var skills string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, full_name, skills, experience_years, location, cv_text, updated_at
		FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.ID, &p.UserID, &p.FullName, &skills, &p.ExperienceYears, &p.Location, &p.CVText, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if err := json.Unmarshal([]byte(skills), &p.Skills); err != nil {
		return nil, fmt.Errorf("unmarshal skills: %w", err)
	}
	return &p, nil
}
