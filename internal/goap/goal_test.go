package goap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoal_VacuouslySatisfiedWithNoConditions(t *testing.T) {
	g := &Goal{Name: "Idle"}
	assert.True(t, g.Satisfied(NewWorldState()))
}

func TestGoal_ValidDefaultsTrue(t *testing.T) {
	g := &Goal{Name: "SurviveHunger"}
	assert.True(t, g.Valid(NewWorldState()))
}

func TestGoal_IsValidGatesRegardlessOfUtility(t *testing.T) {
	g := &Goal{
		Name:       "Panic",
		GetUtility: func(ws *WorldState) float64 { return 1000 },
		IsValid:    func(ws *WorldState) bool { return ws.GetBool("danger.nearby") },
	}

	ws := NewWorldState()
	assert.False(t, g.Valid(ws))

	ws.Set("danger.nearby", Bool(true))
	assert.True(t, g.Valid(ws))
}

func TestGoal_UtilityDefaultsToZero(t *testing.T) {
	g := &Goal{Name: "NoUtility"}
	assert.Equal(t, 0.0, g.Utility(NewWorldState()))
}

func TestGoalCondition_NumericTargetIsMetadataOnly(t *testing.T) {
	c := GoalCondition{
		Key: "inv.seeds",
		Check: func(v FactValue) bool {
			n, _ := v.AsNumber()
			return n >= 10
		},
		NumericTarget: &NumericTarget{Value: 10, Comparison: GTE, EstimatedDelta: 10},
	}

	ws := NewWorldState()
	ws.Set("inv.seeds", Number(10))
	assert.True(t, c.Satisfied(ws), "satisfaction depends only on Check, not NumericTarget")
}
