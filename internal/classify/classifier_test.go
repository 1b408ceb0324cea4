package classify

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
		known bool
	}{
		{name: "english acceptance", input: "acceptance", want: CategoryAcceptance, known: true},
		{name: "german acceptance", input: "Zusage", want: CategoryAcceptance, known: true},
		{name: "two letter german tag", input: "AB", want: CategoryRejection, known: true},
		{name: "hyphenated job alert", input: "job-alert", want: CategoryJobAlert, known: true},
		{name: "interview", input: "interview", want: CategoryInterview, known: true},
		{name: "unclear maps to other", input: "unclear", want: CategoryOther, known: true},
		{name: "garbage maps to other unknown", input: "banana", want: CategoryOther, known: false},
		{name: "whitespace trimmed", input: "  rejection ", want: CategoryRejection, known: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := ParseCategory(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestKeywordClassify(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    Category
	}{
		{
			name:    "german rejection",
			subject: "Ihre Bewerbung",
			body:    "Leider müssen wir Ihnen eine Absage erteilen.",
			want:    CategoryRejection,
		},
		{
			name:    "english acceptance",
			subject: "Congratulations!",
			body:    "We are pleased to extend an offer. Welcome to the team.",
			want:    CategoryAcceptance,
		},
		{
			name:    "job alert",
			subject: "New jobs for you",
			body:    "We found 5 new jobs matching your profile.",
			want:    CategoryJobAlert,
		},
		{
			name:    "interview invitation",
			subject: "Einladung zum Vorstellungsgespräch",
			body:    "Wir würden Sie gerne kennenlernen.",
			want:    CategoryInterview,
		},
		{
			name:    "no keywords",
			subject: "Quarterly newsletter",
			body:    "Here is what happened this month.",
			want:    CategoryOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := keywordClassify("m1", tt.subject, tt.body, nil)
			assert.Equal(t, tt.want, res.Category)
			assert.Equal(t, "m1", res.MessageID)
			assert.GreaterOrEqual(t, res.Confidence, 0.0)
			assert.LessOrEqual(t, res.Confidence, 1.0)
		})
	}
}

func TestKeywordClassifyUsesAttachmentText(t *testing.T) {
	res := keywordClassify("m2", "Documents", "See attached.", []string{"Wir freuen uns, Ihnen eine Zusage und ein Angebot zu machen. Vertrag anbei."})
	assert.Equal(t, CategoryAcceptance, res.Category)
}

func TestClassifyWithoutAPIKeyFallsBack(t *testing.T) {
	c := New("", "model", discard())

	res, err := c.Classify(context.Background(), "m3", "Absage", "Leider nicht berücksichtigen.", nil)
	require.NoError(t, err)
	assert.Equal(t, CategoryRejection, res.Category)
}

func TestClassifyHonorsCancelledContext(t *testing.T) {
	c := New("", "model", discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, "m4", "subject", "body", nil)
	assert.Error(t, err)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name     string
		response string
		ok       bool
		category string
	}{
		{
			name:     "plain json",
			response: `{"category": "rejection", "confidence": 0.9, "reason": "clear rejection"}`,
			ok:       true,
			category: "rejection",
		},
		{
			name:     "fenced json",
			response: "```json\n{\"category\": \"interview\", \"confidence\": 0.8, \"reason\": \"invite\"}\n```",
			ok:       true,
			category: "interview",
		},
		{
			name:     "malformed",
			response: "I think this is a rejection.",
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, ok := parseVerdict(tt.response)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.category, verdict.Category)
			}
		})
	}
}
