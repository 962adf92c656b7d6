package goap

import "context"

// Precondition is a pure, named check against a single fact-key.
type Precondition struct {
	Key         string
	Check       func(value FactValue) bool
	Description string
}

// Effect is a pure transformation of one fact-key as a function of the
// current state. Effects read the state and return the next value for Key;
// they never mutate ws directly; the planner and executor write the
// result back.
type Effect struct {
	Key         string
	Apply       func(ws *WorldState) FactValue
	Description string
}

// ActionResult is the outcome of one Execute call.
type ActionResult int

const (
	Success ActionResult = iota
	Failure
	Running
)

func (r ActionResult) String() string {
	switch r {
	case Success:
		return "SUCCESS"
	case Failure:
		return "FAILURE"
	case Running:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

// Action is a named, symbolic unit of change: preconditions gate it,
// effects model its planning-time outcome, GetCost prices it, and Execute
// carries it out against the live bot/blackboard.
//
// Preconditions/Effects/GetCost must be pure and side-effect-free: they
// run during search, possibly many times per tick. Execute is the only
// impure entry point. Planning-time effects should be an optimistic model
// of what Execute actually does; the executor's drift detector catches
// divergence at runtime.
type Action struct {
	Name          string
	Preconditions []Precondition
	Effects       []Effect

	// CheckPreconditions, when set, overrides the default conjunction of
	// Preconditions. Needed for OR-logic and disjunctive material checks.
	CheckPreconditions func(ws *WorldState) bool

	// GetCost is dynamic: it reads ws and may discount the cost when
	// prerequisites already hold.
	GetCost func(ws *WorldState) float64

	// Execute performs the action against the live bot/blackboard. It is
	// the only side-effecting entry point on Action.
	Execute func(ctx context.Context, bot Bot, bb Blackboard, ws *WorldState) (ActionResult, error)

	// Cancel is invoked on a running action when the executor abandons it
	// (replan, failure escalation, shutdown). Optional; best-effort.
	Cancel func()
}

// Applicable reports whether a can run against ws: the custom precondition
// predicate if present, otherwise the conjunction of Preconditions. An
// action with no preconditions at all is always applicable.
func (a *Action) Applicable(ws *WorldState) bool {
	if a.CheckPreconditions != nil {
		return a.CheckPreconditions(ws)
	}
	for _, p := range a.Preconditions {
		if !p.Check(ws.Get(p.Key)) {
			return false
		}
	}
	return true
}

// Cost evaluates GetCost against ws, defaulting to 1 when unset.
func (a *Action) Cost(ws *WorldState) float64 {
	if a.GetCost == nil {
		return 1
	}
	return a.GetCost(ws)
}

// ApplyEffects returns a clone of ws with every effect applied. Effects are
// evaluated against the original ws (not against each other's output),
// matching the planning-time optimistic model.
func (a *Action) ApplyEffects(ws *WorldState) *WorldState {
	next := ws.Clone()
	for _, e := range a.Effects {
		next.Set(e.Key, e.Apply(ws))
	}
	return next
}

// run executes the action, folding a non-nil error into Failure: an error
// is treated identically to an explicit FAILURE result.
func (a *Action) run(ctx context.Context, bot Bot, bb Blackboard, ws *WorldState) ActionResult {
	result, err := a.Execute(ctx, bot, bb, ws)
	if err != nil {
		return Failure
	}
	return result
}

// cancelIfDefined calls Cancel when set; it is a no-op otherwise.
func (a *Action) cancelIfDefined() {
	if a.Cancel != nil {
		a.Cancel()
	}
}
