package goap

import (
	"context"
	"fmt"
)

// ExecutorConfig tunes failure escalation and drift sensitivity. Zero
// values fall back to the documented defaults.
type ExecutorConfig struct {
	// MaxConsecutiveFailures is the number of consecutive FAILURE results
	// tolerated before the executor abandons the plan. Default 3.
	MaxConsecutiveFailures int
	// DriftThreshold is the WorldState.Diff count against the load-time
	// snapshot that triggers a WORLD_CHANGED replan. Default 5.
	DriftThreshold int
}

const (
	defaultMaxConsecutiveFailures = 3
	defaultDriftThreshold         = 5
)

func (c ExecutorConfig) withDefaults() ExecutorConfig {
	if c.MaxConsecutiveFailures <= 0 {
		c.MaxConsecutiveFailures = defaultMaxConsecutiveFailures
	}
	if c.DriftThreshold <= 0 {
		c.DriftThreshold = defaultDriftThreshold
	}
	return c
}

// ExecutorStats counts outcomes across the executor's lifetime (reset on
// LoadPlan).
type ExecutorStats struct {
	ActionsExecuted  int
	ActionsSucceeded int
	ActionsFailed    int
	ReplansRequested int
}

// Executor runs a plan action by action against a live Bot/Blackboard,
// tracking progress and requesting replans through a typed reason when the
// plan can no longer proceed as loaded.
type Executor struct {
	config ExecutorConfig
	onReplan ReplanFunc

	plan     []*Action
	goal     *Goal // optional; informs GOAL_COMPLETE vs PLAN_EXHAUSTED
	index    int
	snapshot *WorldState

	consecutiveFailures int
	stats               ExecutorStats
}

// NewExecutor constructs an idle Executor. onReplan is invoked whenever the
// executor decides the loaded plan can no longer proceed; it must not
// block.
func NewExecutor(config ExecutorConfig, onReplan ReplanFunc) *Executor {
	return &Executor{config: config.withDefaults(), onReplan: onReplan}
}

// LoadPlan installs a new plan and resets per-plan bookkeeping. snapshot is
// the WorldState at load time, used later for drift detection. goal is
// optional; when set it disambiguates GOAL_COMPLETE from PLAN_EXHAUSTED at
// plan exhaustion.
func (e *Executor) LoadPlan(plan []*Action, snapshot *WorldState, goal *Goal) {
	e.plan = plan
	e.goal = goal
	e.index = 0
	e.snapshot = snapshot
	e.consecutiveFailures = 0
	e.stats = ExecutorStats{}
}

// IsExecuting reports whether a plan is loaded and not yet exhausted.
func (e *Executor) IsExecuting() bool {
	return len(e.plan) > 0 && e.index < len(e.plan)
}

// IsComplete reports whether a plan was loaded and every action has run.
func (e *Executor) IsComplete() bool {
	return len(e.plan) > 0 && e.index >= len(e.plan)
}

// CurrentAction returns the action at the current index, or nil if none.
func (e *Executor) CurrentAction() *Action {
	if !e.IsExecuting() {
		return nil
	}
	return e.plan[e.index]
}

// Progress returns completion percentage in [0, 100].
func (e *Executor) Progress() float64 {
	if len(e.plan) == 0 {
		return 0
	}
	return float64(e.index) / float64(len(e.plan)) * 100
}

// Status returns a short human-readable state label.
func (e *Executor) Status() string {
	switch {
	case len(e.plan) == 0:
		return "idle"
	case e.IsComplete():
		return "complete"
	default:
		return fmt.Sprintf("executing[%d/%d]", e.index, len(e.plan))
	}
}

// Stats returns a copy of the executor's running counters.
func (e *Executor) Stats() ExecutorStats { return e.stats }

// HadRecentFailures reports whether the last action run, if any, failed
// and the consecutive-failure streak has not yet been reset by a success.
func (e *Executor) HadRecentFailures() bool { return e.consecutiveFailures > 0 }

// ConsecutiveFailures returns the current consecutive-failure streak.
func (e *Executor) ConsecutiveFailures() int { return e.consecutiveFailures }

// Tick advances plan execution by one step against ws. It returns false
// when there is nothing to do (no plan, or the plan was just abandoned).
func (e *Executor) Tick(ctx context.Context, bot Bot, bb Blackboard, ws *WorldState) bool {
	if len(e.plan) == 0 {
		return false
	}

	if e.index >= len(e.plan) {
		reason := PlanExhausted
		if e.goal != nil && e.goal.Satisfied(ws) {
			reason = GoalComplete
		}
		e.clearPlan()
		e.requestReplan(reason)
		return false
	}

	action := e.plan[e.index]
	e.stats.ActionsExecuted++

	result := action.run(ctx, bot, bb, ws)

	switch result {
	case Success:
		e.stats.ActionsSucceeded++
		e.consecutiveFailures = 0
		e.index++
	case Running:
		// remain at this index; next tick re-runs execute
	default: // Failure (exceptions are already folded into Failure by action.run)
		e.stats.ActionsFailed++
		e.consecutiveFailures++
		action.cancelIfDefined()
		if e.consecutiveFailures >= e.config.MaxConsecutiveFailures {
			e.clearPlan()
			e.requestReplan(ActionFailed)
			return false
		}
		e.index++
	}

	return true
}

// CheckWorldStateChange compares ws against the load-time snapshot and
// requests a WORLD_CHANGED replan when the drift reaches the configured
// threshold. It is a separate call from Tick, invoked once per agent tick.
func (e *Executor) CheckWorldStateChange(ws *WorldState) {
	if e.snapshot == nil || len(e.plan) == 0 {
		return
	}
	if ws.Diff(e.snapshot) >= e.config.DriftThreshold {
		e.clearPlan()
		e.requestReplan(WorldChanged)
	}
}

// Cancel abandons the current plan, cancelling the in-flight action if
// any, and requests a replan with the given reason.
func (e *Executor) Cancel(reason ReplanReason) {
	if current := e.CurrentAction(); current != nil {
		current.cancelIfDefined()
	}
	e.clearPlan()
	e.requestReplan(reason)
}

func (e *Executor) clearPlan() {
	e.plan = nil
	e.goal = nil
	e.index = 0
	e.snapshot = nil
}

func (e *Executor) requestReplan(reason ReplanReason) {
	e.stats.ReplansRequested++
	if e.onReplan != nil {
		e.onReplan(reason)
	}
}
