package store

import (
	"context"
	"fmt"

	"github.com/teemow/jobagent/internal/triage"
)

// AppendTaskRecords persists executed task descriptors. Records are
// append-only; completed state and results are final once written.
func (s *Store) AppendTaskRecords(ctx context.Context, tasks []triage.Descriptor) error {
	if len(tasks) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin task record tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO task_history (task_id, agent, action, priority, message_id, completed, result, failure_note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare task record: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		_, err := stmt.ExecContext(ctx, t.ID, string(t.Agent), t.Action, string(t.Priority),
			t.MessageID, t.Completed, t.Result, t.FailureNote, t.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert task record %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// ListTaskHistory returns the executed tasks for a Gmail message, in
// execution order.
func (s *Store) ListTaskHistory(ctx context.Context, messageID string) ([]triage.Descriptor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, agent, action, priority, message_id, completed, result, failure_note, created_at
		FROM task_history
		WHERE message_id = ?
		ORDER BY id`, messageID)
	if err != nil {
		return nil, fmt.Errorf("list task history: %w", err)
	}
	defer rows.Close()

	var tasks []triage.Descriptor
	for rows.Next() {
		var t triage.Descriptor
		var agent, priority string
		if err := rows.Scan(&t.ID, &agent, &t.Action, &priority, &t.MessageID,
			&t.Completed, &t.Result, &t.FailureNote, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Agent = triage.AgentRole(agent)
		t.Priority = triage.Priority(priority)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
