// Package events publishes diagnostic signals from a running agent loop
// onto NATS so external observers (a dashboard, an ops console) can watch
// goal switches and plan outcomes without polling the control API.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Kind enumerates the diagnostic event types this package emits.
type Kind string

const (
	GoalSwitched  Kind = "goal.switched"
	PlanFound     Kind = "plan.found"
	PlanFailed    Kind = "plan.failed"
	PlanReplanned Kind = "plan.replanned"
	ActionFailed  Kind = "action.failed"
)

// Event is the envelope published for every diagnostic signal.
type Event struct {
	Kind      Kind           `json:"kind"`
	AgentID   string         `json:"agent_id"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Publisher emits Events to NATS under subject "agent.<agentID>.event".
// It mirrors the broadcast-adapter shape used for cross-instance pub/sub
// elsewhere in this codebase, simplified to a single outbound direction:
// nothing subscribes back into the agent loop.
type Publisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

// NewPublisher constructs a Publisher over an established NATS connection.
func NewPublisher(conn *nats.Conn, logger zerolog.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger}
}

func subject(agentID string) string {
	return fmt.Sprintf("agent.%s.event", agentID)
}

// Publish marshals and sends ev. Failures are logged, not returned: a
// dropped diagnostic event must never affect the agent loop it instruments.
func (p *Publisher) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error().Err(err).Str("kind", string(ev.Kind)).Msg("failed to marshal diagnostic event")
		return
	}

	if err := p.conn.Publish(subject(ev.AgentID), data); err != nil {
		p.logger.Error().Err(err).Str("kind", string(ev.Kind)).Msg("failed to publish diagnostic event")
	}
}

// GoalSwitch publishes a goal.switched event.
func (p *Publisher) GoalSwitch(agentID, from, to, reason string) {
	p.Publish(Event{
		Kind:      GoalSwitched,
		AgentID:   agentID,
		Timestamp: time.Now(),
		Data:      map[string]any{"from": from, "to": to, "reason": reason},
	})
}

// Plan publishes plan.found or plan.failed depending on found.
func (p *Publisher) Plan(agentID, goal string, cost float64, actions []string, found bool) {
	kind := PlanFound
	if !found {
		kind = PlanFailed
	}
	p.Publish(Event{
		Kind:      kind,
		AgentID:   agentID,
		Timestamp: time.Now(),
		Data:      map[string]any{"goal": goal, "cost": cost, "actions": actions},
	})
}

// Replan publishes a plan.replanned event carrying the reason driving it.
func (p *Publisher) Replan(agentID, goal, reason string) {
	p.Publish(Event{
		Kind:      PlanReplanned,
		AgentID:   agentID,
		Timestamp: time.Now(),
		Data:      map[string]any{"goal": goal, "reason": reason},
	})
}

// ActionFailure publishes an action.failed event.
func (p *Publisher) ActionFailure(agentID, action string, consecutiveFailures int) {
	p.Publish(Event{
		Kind:      ActionFailed,
		AgentID:   agentID,
		Timestamp: time.Now(),
		Data:      map[string]any{"action": action, "consecutive_failures": consecutiveFailures},
	})
}
