package classify

import "strings"

// Bilingual keyword lists for the fallback classifier. German terms are
// kept because job application mail in the original deployment is largely
// German; matching happens on lowercased text.
var (
	rejectionKeywords = []string{
		"absage", "ablehnung", "leider", "nicht berücksichtigen",
		"rejection", "unfortunately", "regret", "not selected",
		"andere kandidaten", "andere bewerber",
	}
	acceptanceKeywords = []string{
		"zusage", "angebot", "vertrag", "einstellung", "willkommen",
		"acceptance", "offer", "contract", "hired", "welcome",
		"glückwunsch", "congratulations",
	}
	interviewKeywords = []string{
		"vorstellungsgespräch", "interview", "kennenlernen",
		"schedule a call", "meet the team",
	}
	jobAlertKeywords = []string{
		"job alert", "stellenangebot", "new jobs", "jobs for you",
		"neue stellen", "job recommendation", "vacancy",
	}
)

func countMatches(content string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			n++
		}
	}
	return n
}

// keywordClassify is the offline fallback: scores each category by keyword
// hits over subject, body and attachment texts. Ties and zero hits yield
// CategoryOther with low confidence.
func keywordClassify(messageID, subject, body string, attachmentTexts []string) Result {
	var sb strings.Builder
	sb.WriteString(subject)
	sb.WriteString(" ")
	sb.WriteString(body)
	for _, text := range attachmentTexts {
		sb.WriteString(" ")
		sb.WriteString(text)
	}
	content := strings.ToLower(sb.String())

	scores := map[Category]int{
		CategoryRejection:  countMatches(content, rejectionKeywords),
		CategoryAcceptance: countMatches(content, acceptanceKeywords),
		CategoryInterview:  countMatches(content, interviewKeywords),
		CategoryJobAlert:   countMatches(content, jobAlertKeywords),
	}

	best := CategoryOther
	bestCount := 0
	tied := false
	for _, category := range []Category{CategoryRejection, CategoryAcceptance, CategoryInterview, CategoryJobAlert} {
		switch {
		case scores[category] > bestCount:
			best = category
			bestCount = scores[category]
			tied = false
		case scores[category] == bestCount && bestCount > 0:
			tied = true
		}
	}

	if bestCount == 0 || tied {
		return Result{
			MessageID:  messageID,
			Category:   CategoryOther,
			Confidence: 0.3,
			Rationale:  "no decisive keyword match",
		}
	}

	confidence := 0.5 + float64(bestCount)*0.1
	if confidence > 0.9 {
		confidence = 0.9
	}
	return Result{
		MessageID:  messageID,
		Category:   best,
		Confidence: confidence,
		Rationale:  "keyword match",
	}
}
