package docs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teemow/jobagent/internal/domain"
	"github.com/teemow/jobagent/internal/logging"
)

// Store persists generated document sets. CreateDocument must fail when a
// set already exists for the application.
type Store interface {
	CreateDocument(ctx context.Context, d domain.Document) (*domain.Document, error)
}

// Generator produces application documents from a profile and a job posting
// using fill-in templates. Generation happens once per application; the
// store's uniqueness guarantee turns a second attempt into an error.
type Generator struct {
	store  Store
	logger *slog.Logger
}

func NewGenerator(store Store, logger *slog.Logger) *Generator {
	return &Generator{
		store:  store,
		logger: logging.WithComponent(logger, "docs"),
	}
}

// Generate renders the document set for an application and persists it.
func (g *Generator) Generate(ctx context.Context, app *domain.Application, profile *domain.Profile, job *domain.Job) (*domain.Document, error) {
	doc := domain.Document{
		ApplicationID: app.ID,
		CoverLetterEN: coverLetterEN(profile, job),
		CoverLetterDE: coverLetterDE(profile, job),
		CVNotes:       cvNotes(profile, job),
		FormAnswers:   formAnswers(profile, job),
		Method:        "template",
	}
	created, err := g.store.CreateDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("generate documents for application %d: %w", app.ID, err)
	}
	g.logger.Info("documents generated",
		logging.Operation("generate"),
		slog.Int64("application_id", app.ID),
		slog.String("method", created.Method))
	return created, nil
}

func coverLetterEN(p *domain.Profile, j *domain.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s hiring team,\n\n", j.Company)
	fmt.Fprintf(&b, "I am writing to apply for the %s position. ", j.Role)
	fmt.Fprintf(&b, "With %d years of experience", p.ExperienceYears)
	if len(p.Skills) > 0 {
		fmt.Fprintf(&b, " and a background in %s", strings.Join(p.Skills, ", "))
	}
	b.WriteString(", I believe I can contribute from day one.\n\n")
	b.WriteString("I look forward to discussing how my experience fits your needs.\n\n")
	fmt.Fprintf(&b, "Kind regards,\n%s\n", p.FullName)
	return b.String()
}

func coverLetterDE(p *domain.Profile, j *domain.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sehr geehrtes Team von %s,\n\n", j.Company)
	fmt.Fprintf(&b, "hiermit bewerbe ich mich auf die Position als %s. ", j.Role)
	fmt.Fprintf(&b, "Mit %d Jahren Berufserfahrung", p.ExperienceYears)
	if len(p.Skills) > 0 {
		fmt.Fprintf(&b, " und Kenntnissen in %s", strings.Join(p.Skills, ", "))
	}
	b.WriteString(" bringe ich die passenden Voraussetzungen mit.\n\n")
	b.WriteString("Über eine Einladung zu einem Gespräch freue ich mich sehr.\n\n")
	fmt.Fprintf(&b, "Mit freundlichen Grüßen\n%s\n", p.FullName)
	return b.String()
}

// cvNotes lists which of the candidate's skills the posting actually asks
// for, so the CV can lead with them.
func cvNotes(p *domain.Profile, j *domain.Job) string {
	haystack := strings.ToLower(j.Requirements + " " + j.Description)
	var matched, unmatched []string
	for _, skill := range p.Skills {
		if skill == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(skill)) {
			matched = append(matched, skill)
		} else {
			unmatched = append(unmatched, skill)
		}
	}

	var b strings.Builder
	if len(matched) > 0 {
		fmt.Fprintf(&b, "Highlight prominently: %s.\n", strings.Join(matched, ", "))
	}
	if len(unmatched) > 0 {
		fmt.Fprintf(&b, "Mention briefly: %s.\n", strings.Join(unmatched, ", "))
	}
	if b.Len() == 0 {
		b.WriteString("No skills on file; add skills to the profile for tailored notes.\n")
	}
	return b.String()
}

func formAnswers(p *domain.Profile, j *domain.Job) map[string]string {
	return map[string]string{
		"full_name":           p.FullName,
		"years_of_experience": fmt.Sprintf("%d", p.ExperienceYears),
		"current_location":    p.Location,
		"position":            j.Role,
		"earliest_start_date": "by arrangement",
		"salary_expectation":  "negotiable",
	}
}
