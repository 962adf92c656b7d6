package goap

// ReplanReason classifies why the executor requested a new plan.
type ReplanReason int

const (
	GoalComplete  ReplanReason = iota // plan finished and the goal now holds
	ActionFailed                      // consecutive failures reached the limit
	WorldChanged                      // drift against the load-time snapshot reached the threshold
	PlanExhausted                     // out of actions; goal may still be unmet
)

func (r ReplanReason) String() string {
	switch r {
	case GoalComplete:
		return "GOAL_COMPLETE"
	case ActionFailed:
		return "ACTION_FAILED"
	case WorldChanged:
		return "WORLD_CHANGED"
	case PlanExhausted:
		return "PLAN_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}

// ReplanFunc is invoked by the Executor when it wants the caller to
// produce a new plan. It never blocks the executor's own state transition.
type ReplanFunc func(reason ReplanReason)
