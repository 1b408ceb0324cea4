package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/teemow/jobagent/internal/logging"
)

const maxAttachmentChars = 2000

// Classifier assigns a Category to an email using the Anthropic Messages
// API, falling back to keyword matching when no API key is configured or
// the upstream call fails. A malformed upstream response degrades to
// CategoryOther instead of failing the message.
type Classifier struct {
	client *anthropic.Client
	model  string
	logger *slog.Logger
}

// New creates a Classifier. With an empty apiKey the classifier runs in
// keyword-only mode.
func New(apiKey, model string, logger *slog.Logger) *Classifier {
	c := &Classifier{
		model:  model,
		logger: logging.WithComponent(logger, "classifier"),
	}
	if apiKey != "" {
		client := anthropic.NewClient(option.WithAPIKey(apiKey))
		c.client = &client
	}
	return c
}

// Classify produces a Result for one message. The returned Result always
// carries a valid category; errors are reserved for context cancellation.
func (c *Classifier) Classify(ctx context.Context, messageID, subject, body string, attachmentTexts []string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if c.client == nil {
		res := keywordClassify(messageID, subject, body, attachmentTexts)
		c.logger.Debug("keyword classification",
			logging.MessageID(messageID),
			logging.Category(string(res.Category)),
			slog.Float64("confidence", res.Confidence))
		return res, nil
	}

	res, err := c.classifyLLM(ctx, messageID, subject, body, attachmentTexts)
	if err != nil {
		c.logger.Warn("llm classification failed, using keyword fallback",
			logging.MessageID(messageID), logging.Err(err))
		return keywordClassify(messageID, subject, body, attachmentTexts), nil
	}
	return res, nil
}

type llmVerdict struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

func (c *Classifier) classifyLLM(ctx context.Context, messageID, subject, body string, attachmentTexts []string) (Result, error) {
	systemPrompt := `You classify job application emails into exactly one category:
- acceptance: an offer, contract, or positive hiring decision
- rejection: the application will not be pursued
- job_alert: a job board or recruiter notification about open positions
- interview: an invitation to interview or to schedule a conversation
- other: anything else or unclear

Respond with JSON only (no markdown):
{"category": "rejection", "confidence": 0.92, "reason": "..."}`

	userPrompt := buildPrompt(subject, body, attachmentTexts)

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 512,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("anthropic API: %w", err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return Result{}, fmt.Errorf("no text content in response")
	}

	verdict, ok := parseVerdict(responseText)
	if !ok {
		// Malformed upstream response: degrade, never abort the message.
		c.logger.Warn("malformed classifier response, degrading to other",
			logging.MessageID(messageID))
		return Result{
			MessageID:  messageID,
			Category:   CategoryOther,
			Confidence: 0.3,
			Rationale:  "unparseable classifier response",
		}, nil
	}

	category, known := ParseCategory(verdict.Category)
	confidence := verdict.Confidence
	if !known {
		confidence = 0.3
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	c.logger.Info("llm classification",
		logging.MessageID(messageID),
		logging.Category(string(category)),
		slog.Float64("confidence", confidence),
		slog.Int64("tokens_in", message.Usage.InputTokens),
		slog.Int64("tokens_out", message.Usage.OutputTokens))

	return Result{
		MessageID:  messageID,
		Category:   category,
		Confidence: confidence,
		Rationale:  verdict.Reason,
	}, nil
}

func buildPrompt(subject, body string, attachmentTexts []string) string {
	var sb strings.Builder
	sb.WriteString("Subject: ")
	sb.WriteString(subject)
	sb.WriteString("\n\nEmail body:\n")
	sb.WriteString(body)
	for _, text := range attachmentTexts {
		if text == "" {
			continue
		}
		if len(text) > maxAttachmentChars {
			text = text[:maxAttachmentChars]
		}
		sb.WriteString("\n\nAttachment content:\n")
		sb.WriteString(text)
	}
	return sb.String()
}

// parseVerdict strips markdown fences the model sometimes adds and decodes
// the JSON verdict.
func parseVerdict(responseText string) (llmVerdict, bool) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var verdict llmVerdict
	if err := json.Unmarshal([]byte(responseText), &verdict); err != nil {
		return llmVerdict{}, false
	}
	return verdict, true
}
