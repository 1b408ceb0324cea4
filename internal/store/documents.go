package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/teemow/jobagent/internal/domain"
)

// ErrDocumentExists indicates documents were already generated for the
// application. One document set per application.
var ErrDocumentExists = errors.New("documents already exist for application")

// CreateDocument stores the generated document set for an application.
// A second insert for the same application fails with ErrDocumentExists.
func (s *Store) CreateDocument(ctx context.Context, d domain.Document) (*domain.Document, error) {
	answers, err := json.Marshal(d.FormAnswers)
	if err != nil {
		return nil, fmt.Errorf("marshal form answers: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (application_id, cover_letter_en, cover_letter_de, cv_notes, form_answers, method)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.ApplicationID, d.CoverLetterEN, d.CoverLetterDE, d.CVNotes, string(answers), d.Method)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("application %d: %w", d.ApplicationID, ErrDocumentExists)
		}
		return nil, fmt.Errorf("insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	d.ID = id
	return &d, nil
}

// GetDocumentForApplication returns the document set generated for an
// application, or ErrNotFound if none was generated yet.
func (s *Store) GetDocumentForApplication(ctx context.Context, applicationID int64) (*domain.Document, error) {
	var d domain.Document
	var answers string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, application_id, cover_letter_en, cover_letter_de, cv_notes, form_answers, method, generated_at
		FROM documents WHERE application_id = ?`, applicationID).
		Scan(&d.ID, &d.ApplicationID, &d.CoverLetterEN, &d.CoverLetterDE, &d.CVNotes, &answers, &d.Method, &d.GeneratedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("documents for application %d: %w", applicationID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if answers != "" {
		if err := json.Unmarshal([]byte(answers), &d.FormAnswers); err != nil {
			return nil, fmt.Errorf("unmarshal form answers: %w", err)
		}
	}
	return &d, nil
}
