package agent

import (
	"time"

	goapmetrics "goap-agent/internal/goap/metrics"
	"goap-agent/internal/goap/store"
)

// EventPublisher is the subset of events.Publisher the loop depends on,
// declared locally so tests can substitute a fake without a live NATS
// connection.
type EventPublisher interface {
	GoalSwitch(agentID, from, to, reason string)
	Plan(agentID, goal string, cost float64, actions []string, found bool)
	Replan(agentID, goal, reason string)
	ActionFailure(agentID, action string, consecutiveFailures int)
}

// Diagnostics bundles every optional ambient-observability collaborator a
// Loop reports into. Every field is nil-safe: the zero value disables all
// of it, which is what plain unit tests construct via newTestLoop.
type Diagnostics struct {
	Events      EventPublisher
	Metrics     *goapmetrics.Metrics
	Cooldowns   store.CooldownStore
	PlanHistory store.PlanHistoryArchive
	Snapshots   store.SnapshotCache
	SnapshotTTL time.Duration
}

const defaultDiagnosticsTimeout = 5 * time.Second
