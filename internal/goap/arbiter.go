package goap

// SelectReason classifies why the arbiter returned the goal it did.
type SelectReason int

const (
	SelectInitial SelectReason = iota // no previous current goal
	SelectStay                       // current goal retained over a challenger
	SelectSwitch                     // current goal replaced
)

func (r SelectReason) String() string {
	switch r {
	case SelectInitial:
		return "initial"
	case SelectStay:
		return "stay"
	case SelectSwitch:
		return "switch"
	default:
		return "unknown"
	}
}

// Selection is the arbiter's verdict for one decision.
type Selection struct {
	Goal    *Goal
	Utility float64
	Reason  SelectReason
}

// ArbiterConfig tunes hysteresis and pre-emption thresholds. Zero values
// fall back to the documented defaults.
type ArbiterConfig struct {
	// Hysteresis is the multiplicative margin a challenger must clear to
	// switch away from the current goal in selectGoal. Default 0.2.
	Hysteresis float64
	// PreemptionThreshold is the additive margin a challenger must clear
	// to interrupt an executing plan. Default 30.
	PreemptionThreshold float64
}

const (
	defaultHysteresis          = 0.2
	defaultPreemptionThreshold = 30.0
)

func (c ArbiterConfig) withDefaults() ArbiterConfig {
	if c.Hysteresis <= 0 {
		c.Hysteresis = defaultHysteresis
	}
	if c.PreemptionThreshold <= 0 {
		c.PreemptionThreshold = defaultPreemptionThreshold
	}
	return c
}

// Arbiter selects a goal by utility among the valid, non-cooldowned
// candidates, applying hysteresis so the agent does not thrash between
// goals of similar value.
type Arbiter struct {
	Goals  []*Goal
	config ArbiterConfig

	currentGoal    *Goal
	currentUtility float64
}

// NewArbiter constructs an Arbiter over goals with the given config.
func NewArbiter(goals []*Goal, config ArbiterConfig) *Arbiter {
	return &Arbiter{Goals: goals, config: config.withDefaults()}
}

// CurrentGoal returns the arbiter's current goal, or nil if none.
func (a *Arbiter) CurrentGoal() *Goal { return a.currentGoal }

// CurrentUtility returns the utility the current goal scored when last
// selected. It is diagnostic only; it does not gate any decision.
func (a *Arbiter) CurrentUtility() float64 { return a.currentUtility }

// ClearCurrentGoal resets the arbiter's notion of a current goal. Callers
// invoke this on failed planning, on replan after action failure, and on
// world drift.
func (a *Arbiter) ClearCurrentGoal() {
	a.currentGoal = nil
	a.currentUtility = 0
}

// candidate pairs a goal with its scored utility.
type candidate struct {
	goal    *Goal
	utility float64
}

// eligible returns the goals that are valid against ws, not in skip, and
// scored strictly positive utility.
func (a *Arbiter) eligible(ws *WorldState, skip map[string]struct{}) []candidate {
	out := make([]candidate, 0, len(a.Goals))
	for _, g := range a.Goals {
		if !g.Valid(ws) {
			continue
		}
		if _, skipped := skip[g.Name]; skipped {
			continue
		}
		u := g.Utility(ws)
		if u <= 0 {
			continue
		}
		out = append(out, candidate{goal: g, utility: u})
	}
	return out
}

func argmax(cands []candidate) (candidate, bool) {
	if len(cands) == 0 {
		return candidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.utility > best.utility {
			best = c
		}
	}
	return best, true
}

// SelectGoal picks the goal the agent should pursue, applying hysteresis
// against the current goal. skip is the set of goal names currently on
// cooldown. Returns the zero Selection with ok=false when no goal is
// eligible.
func (a *Arbiter) SelectGoal(ws *WorldState, skip map[string]struct{}) (Selection, bool) {
	cands := a.eligible(ws, skip)

	if a.currentGoal == nil {
		best, ok := argmax(cands)
		if !ok {
			return Selection{}, false
		}
		a.currentGoal = best.goal
		a.currentUtility = best.utility
		return Selection{Goal: best.goal, Utility: best.utility, Reason: SelectInitial}, true
	}

	currentEligible := false
	var currentCandidate candidate
	others := make([]candidate, 0, len(cands))
	for _, c := range cands {
		if c.goal == a.currentGoal {
			currentEligible = true
			currentCandidate = c
			continue
		}
		others = append(others, c)
	}

	if !currentEligible {
		best, ok := argmax(cands)
		if !ok {
			a.ClearCurrentGoal()
			return Selection{}, false
		}
		a.currentGoal = best.goal
		a.currentUtility = best.utility
		return Selection{Goal: best.goal, Utility: best.utility, Reason: SelectSwitch}, true
	}

	challenger, hasChallenger := argmax(others)
	if hasChallenger && challenger.utility > currentCandidate.utility*(1+a.config.Hysteresis) {
		a.currentGoal = challenger.goal
		a.currentUtility = challenger.utility
		return Selection{Goal: challenger.goal, Utility: challenger.utility, Reason: SelectSwitch}, true
	}

	a.currentUtility = currentCandidate.utility
	return Selection{Goal: a.currentGoal, Utility: currentCandidate.utility, Reason: SelectStay}, true
}

// CheckPreemption is invoked by the agent loop while a plan is executing,
// independent of SelectGoal's hysteresis. It finds the best non-current,
// eligible goal and reports whether it clears the (stricter, additive)
// pre-emption threshold over the current goal's utility, freshly
// recomputed against ws.
func (a *Arbiter) CheckPreemption(ws *WorldState, skip map[string]struct{}) (Selection, bool) {
	if a.currentGoal == nil {
		return Selection{}, false
	}

	currentUtility := a.currentGoal.Utility(ws)

	cands := a.eligible(ws, skip)
	others := make([]candidate, 0, len(cands))
	for _, c := range cands {
		if c.goal != a.currentGoal {
			others = append(others, c)
		}
	}

	challenger, ok := argmax(others)
	if !ok {
		return Selection{}, false
	}
	if challenger.utility <= currentUtility+a.config.PreemptionThreshold {
		return Selection{}, false
	}

	return Selection{Goal: challenger.goal, Utility: challenger.utility, Reason: SelectSwitch}, true
}
