package testutil

import (
	"time"

	"github.com/google/uuid"

	"goap-agent/internal/goap/store"
)

// GenerateAgentID returns a unique agent ID suitable for test isolation
// across parallel test runs sharing one Postgres/Redis/Mongo instance.
func GenerateAgentID(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// GenerateCooldownRecord builds a CooldownRecord for agentID/goalName
// expiring ttl from now.
func GenerateCooldownRecord(agentID, goalName string, ttl time.Duration) store.CooldownRecord {
	return store.CooldownRecord{
		AgentID:  agentID,
		GoalName: goalName,
		Until:    time.Now().Add(ttl),
	}
}

// GenerateGoalReport builds a GoalReport for agentID/goal with a canned
// plan, used to exercise store.CooldownStore.RecordGoalReport in tests.
func GenerateGoalReport(agentID, goal string) store.GoalReport {
	return store.GoalReport{
		AgentID:   agentID,
		Goal:      goal,
		Plan:      []string{"step_one", "step_two"},
		Cost:      2,
		Reason:    "GOAL_COMPLETE",
		Failures:  0,
		Timestamp: time.Now(),
	}
}
