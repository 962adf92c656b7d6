// Package api exposes the control-plane HTTP surface over a running fleet
// of agent loops: status inspection, goal-report history, and a stop
// command. It never touches planning/arbitration/execution directly; it
// reads through AgentRegistry, store.SnapshotCache and
// store.PlanHistoryArchive.
package api

import (
	"goap-agent/internal/agent"
)

// AgentHandle is the subset of a running agent.Loop the control API needs:
// enough to report status and request a stop, nothing that would let an
// HTTP handler reach into planning internals.
type AgentHandle interface {
	Status() string
	Stats() agent.LoopStats
	GoalReport() string
	Stop()
}

// AgentRegistry looks up running agents by ID. cmd/agent-controller/main.go
// is expected to populate one as it starts each agent.Loop.
type AgentRegistry interface {
	Get(agentID string) (AgentHandle, bool)
	List() []string
}

// loopRegistry is the concrete AgentRegistry backing production use,
// holding *agent.Loop directly rather than the narrower AgentHandle so
// main.go can populate it with the loops it actually constructs.
type loopRegistry struct {
	loops map[string]*agent.Loop
}

// NewLoopRegistry builds an AgentRegistry over the given agent ID to Loop
// mapping.
func NewLoopRegistry(loops map[string]*agent.Loop) AgentRegistry {
	return &loopRegistry{loops: loops}
}

func (r *loopRegistry) Get(agentID string) (AgentHandle, bool) {
	loop, ok := r.loops[agentID]
	return loop, ok
}

func (r *loopRegistry) List() []string {
	ids := make([]string, 0, len(r.loops))
	for id := range r.loops {
		ids = append(ids, id)
	}
	return ids
}
