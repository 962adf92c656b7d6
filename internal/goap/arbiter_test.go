package goap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utilityGoal(name string, utility float64) *Goal {
	return &Goal{Name: name, GetUtility: func(ws *WorldState) float64 { return utility }}
}

func TestArbiter_InitialSelectionPicksArgmax(t *testing.T) {
	low := utilityGoal("Wander", 10)
	high := utilityGoal("Eat", 50)
	a := NewArbiter([]*Goal{low, high}, ArbiterConfig{})

	sel, ok := a.SelectGoal(NewWorldState(), nil)

	require.True(t, ok)
	assert.Equal(t, "Eat", sel.Goal.Name)
	assert.Equal(t, SelectInitial, sel.Reason)
	assert.Equal(t, high, a.CurrentGoal())
}

func TestArbiter_NoEligibleGoalsReturnsFalse(t *testing.T) {
	zero := utilityGoal("Idle", 0)
	a := NewArbiter([]*Goal{zero}, ArbiterConfig{})

	_, ok := a.SelectGoal(NewWorldState(), nil)
	assert.False(t, ok)
}

func TestArbiter_StaysWithinHysteresisBand(t *testing.T) {
	current := utilityGoal("Farm", 100)
	challenger := utilityGoal("Chop", 115) // within 20% band (< 120)
	a := NewArbiter([]*Goal{current, challenger}, ArbiterConfig{})

	first, _ := a.SelectGoal(NewWorldState(), nil)
	require.Equal(t, "Farm", first.Goal.Name)

	second, ok := a.SelectGoal(NewWorldState(), nil)
	require.True(t, ok)
	assert.Equal(t, "Farm", second.Goal.Name)
	assert.Equal(t, SelectStay, second.Reason)
}

func TestArbiter_SwitchesWhenChallengerClearsHysteresis(t *testing.T) {
	current := utilityGoal("Farm", 100)
	challenger := utilityGoal("Flee", 130) // clears 20% band (> 120)
	a := NewArbiter([]*Goal{current, challenger}, ArbiterConfig{})

	first, _ := a.SelectGoal(NewWorldState(), nil)
	require.Equal(t, "Farm", first.Goal.Name)

	second, ok := a.SelectGoal(NewWorldState(), nil)
	require.True(t, ok)
	assert.Equal(t, "Flee", second.Goal.Name)
	assert.Equal(t, SelectSwitch, second.Reason)
}

func TestArbiter_SwitchesImmediatelyWhenCurrentGoalInvalidated(t *testing.T) {
	ws := NewWorldState()
	ws.Set("danger.nearby", Bool(false))

	current := &Goal{
		Name:       "Farm",
		GetUtility: func(ws *WorldState) float64 { return 100 },
		IsValid:    func(ws *WorldState) bool { return !ws.GetBool("danger.nearby") },
	}
	fallback := utilityGoal("Flee", 10) // much lower, but hysteresis must not apply

	a := NewArbiter([]*Goal{current, fallback}, ArbiterConfig{})
	first, _ := a.SelectGoal(ws, nil)
	require.Equal(t, "Farm", first.Goal.Name)

	ws.Set("danger.nearby", Bool(true))
	second, ok := a.SelectGoal(ws, nil)

	require.True(t, ok)
	assert.Equal(t, "Flee", second.Goal.Name)
	assert.Equal(t, SelectSwitch, second.Reason)
}

func TestArbiter_SkipSetExcludesCooldownedGoals(t *testing.T) {
	farm := utilityGoal("Farm", 100)
	a := NewArbiter([]*Goal{farm}, ArbiterConfig{})

	skip := map[string]struct{}{"Farm": {}}
	_, ok := a.SelectGoal(NewWorldState(), skip)
	assert.False(t, ok)
}

func TestArbiter_ClearCurrentGoalResetsState(t *testing.T) {
	farm := utilityGoal("Farm", 100)
	a := NewArbiter([]*Goal{farm}, ArbiterConfig{})

	_, _ = a.SelectGoal(NewWorldState(), nil)
	require.NotNil(t, a.CurrentGoal())

	a.ClearCurrentGoal()
	assert.Nil(t, a.CurrentGoal())
	assert.Equal(t, 0.0, a.CurrentUtility())
}

func TestArbiter_CheckPreemptionRequiresAdditiveMargin(t *testing.T) {
	current := utilityGoal("Farm", 100)
	closeChallenger := utilityGoal("Chop", 125) // +25, below default +30 threshold
	a := NewArbiter([]*Goal{current, closeChallenger}, ArbiterConfig{})

	_, _ = a.SelectGoal(NewWorldState(), nil)
	_, ok := a.CheckPreemption(NewWorldState(), nil)
	assert.False(t, ok)
}

func TestArbiter_CheckPreemptionSwitchesWhenMarginCleared(t *testing.T) {
	current := utilityGoal("Farm", 100)
	urgent := utilityGoal("Flee", 140) // +40, clears +30 threshold
	a := NewArbiter([]*Goal{current, urgent}, ArbiterConfig{})

	_, _ = a.SelectGoal(NewWorldState(), nil)
	sel, ok := a.CheckPreemption(NewWorldState(), nil)

	require.True(t, ok)
	assert.Equal(t, "Flee", sel.Goal.Name)
}

func TestArbiter_CheckPreemptionNoCurrentGoalReturnsFalse(t *testing.T) {
	a := NewArbiter(nil, ArbiterConfig{})
	_, ok := a.CheckPreemption(NewWorldState(), nil)
	assert.False(t, ok)
}
