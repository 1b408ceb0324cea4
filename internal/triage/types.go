package triage

import "time"

// AgentRole identifies a virtual team member. The set is closed; handlers
// are resolved from configuration at startup, not looked up by free-form
// strings at dispatch time.
type AgentRole string

const (
	RoleReviewer       AgentRole = "Reviewer"
	RoleScheduler      AgentRole = "Scheduler"
	RoleFeedbackWriter AgentRole = "FeedbackWriter"
	RoleArchiver       AgentRole = "Archiver"
)

// ParseRole resolves a configured role token to an AgentRole.
func ParseRole(s string) (AgentRole, bool) {
	switch s {
	case "reviewer", "review", "Reviewer":
		return RoleReviewer, true
	case "scheduler", "schedule", "Scheduler":
		return RoleScheduler, true
	case "feedback_writer", "feedback", "FeedbackWriter":
		return RoleFeedbackWriter, true
	case "archiver", "archive", "Archiver":
		return RoleArchiver, true
	}
	return "", false
}

// Priority orders tasks for human consumption. It does not affect dispatch
// order, which follows the routing rule table.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Descriptor is a unit of routed work assigned to a named agent. The router
// creates descriptors; the executor mutates only the completion fields.
type Descriptor struct {
	ID          string
	Agent       AgentRole
	Action      string
	Description string
	Priority    Priority
	MessageID   string
	Completed   bool
	Result      string
	FailureNote string
	CreatedAt   time.Time
}
