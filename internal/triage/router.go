package triage

import (
	"errors"
	"fmt"

	"github.com/teemow/jobagent/internal/classify"
)

// ErrInvalidClassification is returned when a classification result carries
// no usable category.
var ErrInvalidClassification = errors.New("classification result has no category")

// Route maps a classification result to the ordered list of tasks that must
// be executed. It is a pure function of the category: identical input yields
// identical ordered output, with no I/O and no randomness. Confidence is
// carried on the result for logging only and never changes the routing
// decision. Descriptor IDs derive from the message ID and action; the
// executor stamps CreatedAt when it accepts the batch.
//
// Rule table, applied first to last, every matching rule fires:
//
//	acceptance → Reviewer/review_acceptance (high), Scheduler/schedule_onboarding (high)
//	rejection  → FeedbackWriter/acknowledge_rejection (medium)
//	other      → Reviewer/manual_review (medium)
//	any        → Archiver/archive (low), appended last
//
// job_alert and interview match only the archive rule; they are handled by
// the application workflow instead of the task team.
func Route(res classify.Result) ([]Descriptor, error) {
	if res.Category == "" {
		return nil, ErrInvalidClassification
	}
	if !res.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidClassification, res.Category)
	}

	task := func(agent AgentRole, action string, description string, priority Priority) Descriptor {
		return Descriptor{
			ID:          res.MessageID + "/" + action,
			Agent:       agent,
			Action:      action,
			Description: description,
			Priority:    priority,
			MessageID:   res.MessageID,
		}
	}

	var tasks []Descriptor
	switch res.Category {
	case classify.CategoryAcceptance:
		tasks = append(tasks,
			task(RoleReviewer, "review_acceptance",
				fmt.Sprintf("Review acceptance email %s", res.MessageID), PriorityHigh),
			task(RoleScheduler, "schedule_onboarding",
				fmt.Sprintf("Schedule onboarding for message %s", res.MessageID), PriorityHigh),
		)
	case classify.CategoryRejection:
		tasks = append(tasks,
			task(RoleFeedbackWriter, "acknowledge_rejection",
				fmt.Sprintf("Acknowledge rejection email %s", res.MessageID), PriorityMedium),
		)
	case classify.CategoryOther:
		tasks = append(tasks,
			task(RoleReviewer, "manual_review",
				fmt.Sprintf("Manually review unclear email %s", res.MessageID), PriorityMedium),
		)
	}

	tasks = append(tasks,
		task(RoleArchiver, "archive",
			fmt.Sprintf("Archive message %s", res.MessageID), PriorityLow),
	)
	return tasks, nil
}
