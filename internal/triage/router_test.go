package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/jobagent/internal/classify"
)

func TestRouteRuleTable(t *testing.T) {
	tests := []struct {
		name        string
		category    classify.Category
		wantAgents  []AgentRole
		wantActions []string
	}{
		{
			name:        "acceptance gets reviewer then scheduler then archive",
			category:    classify.CategoryAcceptance,
			wantAgents:  []AgentRole{RoleReviewer, RoleScheduler, RoleArchiver},
			wantActions: []string{"review_acceptance", "schedule_onboarding", "archive"},
		},
		{
			name:        "rejection gets exactly one feedback task plus archive",
			category:    classify.CategoryRejection,
			wantAgents:  []AgentRole{RoleFeedbackWriter, RoleArchiver},
			wantActions: []string{"acknowledge_rejection", "archive"},
		},
		{
			name:        "other gets manual review plus archive",
			category:    classify.CategoryOther,
			wantAgents:  []AgentRole{RoleReviewer, RoleArchiver},
			wantActions: []string{"manual_review", "archive"},
		},
		{
			name:        "job alert only archives",
			category:    classify.CategoryJobAlert,
			wantAgents:  []AgentRole{RoleArchiver},
			wantActions: []string{"archive"},
		},
		{
			name:        "interview only archives",
			category:    classify.CategoryInterview,
			wantAgents:  []AgentRole{RoleArchiver},
			wantActions: []string{"archive"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := Route(classify.Result{MessageID: "msg-1", Category: tt.category, Confidence: 0.8})
			require.NoError(t, err)
			require.Len(t, tasks, len(tt.wantAgents))
			for i, task := range tasks {
				assert.Equal(t, tt.wantAgents[i], task.Agent)
				assert.Equal(t, tt.wantActions[i], task.Action)
				assert.Equal(t, "msg-1", task.MessageID)
				assert.False(t, task.Completed)
			}
		})
	}
}

func TestRoutePriorities(t *testing.T) {
	tasks, err := Route(classify.Result{MessageID: "m", Category: classify.CategoryAcceptance})
	require.NoError(t, err)

	assert.Equal(t, PriorityHigh, tasks[0].Priority)
	assert.Equal(t, PriorityHigh, tasks[1].Priority)
	assert.Equal(t, PriorityLow, tasks[2].Priority)

	tasks, err = Route(classify.Result{MessageID: "m", Category: classify.CategoryRejection})
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, tasks[0].Priority)
}

func TestRouteIsDeterministic(t *testing.T) {
	res := classify.Result{MessageID: "msg-42", Category: classify.CategoryAcceptance, Confidence: 0.7}

	first, err := Route(res)
	require.NoError(t, err)
	second, err := Route(res)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRouteConfidenceDoesNotChangeRouting(t *testing.T) {
	low, err := Route(classify.Result{MessageID: "m", Category: classify.CategoryRejection, Confidence: 0.1})
	require.NoError(t, err)
	high, err := Route(classify.Result{MessageID: "m", Category: classify.CategoryRejection, Confidence: 0.99})
	require.NoError(t, err)

	assert.Equal(t, low, high)
}

func TestRouteRejectsEmptyCategory(t *testing.T) {
	_, err := Route(classify.Result{MessageID: "m"})
	assert.ErrorIs(t, err, ErrInvalidClassification)
}

func TestRouteRejectsUnknownCategory(t *testing.T) {
	_, err := Route(classify.Result{MessageID: "m", Category: classify.Category("spam")})
	assert.ErrorIs(t, err, ErrInvalidClassification)
}
