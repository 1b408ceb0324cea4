package triage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/jobagent/internal/config"
	"github.com/teemow/jobagent/internal/logging"
)

// Executor dispatches routed tasks to the registered agent handlers and
// keeps an append-only history of everything it has dispatched.
type Executor struct {
	handlers map[AgentRole]Handler
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	history []Descriptor
}

// NewExecutor builds the agent registry from configuration. Unknown roles
// in the team config are reported here, at startup, rather than surfacing
// as missing handlers during dispatch.
func NewExecutor(team []config.AgentConfig, logger *slog.Logger) *Executor {
	e := &Executor{
		handlers: make(map[AgentRole]Handler),
		logger:   logging.WithComponent(logger, "executor"),
		now:      time.Now,
	}
	for _, member := range team {
		role, ok := ParseRole(member.Role)
		if !ok {
			e.logger.Warn("unknown agent role in team config, skipping",
				slog.String("role", member.Role), slog.String("name", member.Name))
			continue
		}
		e.handlers[role] = newHandler(role, member.Name)
	}
	return e
}

func newHandler(role AgentRole, name string) Handler {
	switch role {
	case RoleReviewer:
		return &ReviewerHandler{Name: name}
	case RoleScheduler:
		return &SchedulerHandler{Name: name}
	case RoleFeedbackWriter:
		return &FeedbackWriterHandler{Name: name}
	default:
		return &ArchiverHandler{Name: name}
	}
}

// Register installs or replaces the handler for a role. Used by tests and
// by callers wiring custom capabilities.
func (e *Executor) Register(role AgentRole, h Handler) {
	e.handlers[role] = h
}

// Dispatch runs each task in order. A handler failure is recorded on that
// descriptor and never aborts the rest of the batch; a task whose agent has
// no registered handler is skipped with a warning and not counted as a
// failure. All descriptors, completed and failed alike, are returned and
// appended to the history in creation order.
func (e *Executor) Dispatch(ctx context.Context, tasks []Descriptor, tc TaskContext) []Descriptor {
	out := make([]Descriptor, 0, len(tasks))
	for _, task := range tasks {
		task.CreatedAt = e.now().UTC()

		handler, ok := e.handlers[task.Agent]
		if !ok {
			e.logger.Warn("no handler registered for agent, skipping task",
				slog.String("agent", string(task.Agent)),
				slog.String("action", task.Action),
				logging.MessageID(task.MessageID))
			out = append(out, task)
			continue
		}

		result, err := handler.Execute(ctx, task, tc)
		if err != nil {
			task.Completed = false
			task.FailureNote = err.Error()
			e.logger.Error("task failed",
				slog.String("agent", string(task.Agent)),
				slog.String("action", task.Action),
				logging.MessageID(task.MessageID),
				logging.Err(err))
		} else {
			task.Completed = true
			task.Result = result
			e.logger.Info("task completed",
				slog.String("agent", string(task.Agent)),
				slog.String("action", task.Action),
				logging.MessageID(task.MessageID))
		}
		out = append(out, task)
	}

	e.mu.Lock()
	e.history = append(e.history, out...)
	e.mu.Unlock()

	return out
}

// History returns a copy of the append-only task history, ordered by
// creation time.
func (e *Executor) History() []Descriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Descriptor, len(e.history))
	copy(out, e.history)
	return out
}
