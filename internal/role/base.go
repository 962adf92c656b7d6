// Package role contains illustrative, non-normative action and goal sets
// for the goap engine. None of the three roles here (farming, lumberjack,
// landscaper) are load-bearing; they exist to show how a concrete bot and
// blackboard plug into the opaque goap.Bot/goap.Blackboard interfaces. Their
// tests exercise each action's preconditions and Execute directly, not the
// planner/arbiter/executor.
package role

// BaseBlackboard supplies the idle-tick bookkeeping every
// goap.Blackboard implementation needs, so each role's own blackboard can
// embed it instead of re-declaring the same two methods.
type BaseBlackboard struct {
	idleTicks int
}

// ConsecutiveIdleTicks returns the current idle-tick count.
func (b *BaseBlackboard) ConsecutiveIdleTicks() int {
	return b.idleTicks
}

// SetConsecutiveIdleTicks overwrites the idle-tick count.
func (b *BaseBlackboard) SetConsecutiveIdleTicks(n int) {
	b.idleTicks = n
}
