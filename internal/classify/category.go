package classify

import "strings"

// Category is the closed classification outcome for an inbound message.
type Category string

const (
	CategoryAcceptance Category = "acceptance"
	CategoryRejection  Category = "rejection"
	CategoryJobAlert   Category = "job_alert"
	CategoryInterview  Category = "interview"
	CategoryOther      Category = "other"
)

// Valid reports whether c is one of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryAcceptance, CategoryRejection, CategoryJobAlert, CategoryInterview, CategoryOther:
		return true
	}
	return false
}

// ParseCategory normalizes a category token into the closed set. Foreign
// vocabularies (German labels, two-letter tags, hyphenated spellings) are
// translated here at the boundary; internal code only ever sees the closed
// enum. Unrecognized tokens map to CategoryOther with ok=false.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "acceptance", "zusage", "zu", "offer":
		return CategoryAcceptance, true
	case "rejection", "absage", "ab":
		return CategoryRejection, true
	case "job_alert", "job-alert", "jobalert", "job alert":
		return CategoryJobAlert, true
	case "interview", "vorstellungsgespraech", "vorstellungsgespräch":
		return CategoryInterview, true
	case "other", "unknown", "unclear", "sonstiges":
		return CategoryOther, true
	}
	return CategoryOther, false
}

// Result is the immutable outcome of classifying one message.
type Result struct {
	MessageID  string
	Category   Category
	Confidence float64
	Rationale  string
}
