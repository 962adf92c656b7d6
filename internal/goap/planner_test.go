package goap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolEffect(key string, value bool) Effect {
	return Effect{Key: key, Apply: func(ws *WorldState) FactValue { return Bool(value) }}
}

func boolPrecondition(key string, want bool) Precondition {
	return Precondition{Key: key, Check: func(v FactValue) bool {
		b, _ := v.AsBool()
		return b == want
	}}
}

func zeroConditionGoal(name, key string) *Goal {
	return &Goal{
		Name: name,
		Conditions: []GoalCondition{{
			Key: key,
			Check: func(v FactValue) bool {
				n, _ := v.AsNumber()
				return n == 0
			},
		}},
	}
}

// S1 — goal already satisfied.
func TestPlanner_S1_GoalAlreadySatisfied(t *testing.T) {
	pickupItems := &Action{Name: "PickupItems", Effects: []Effect{
		{Key: "nearby.drops", Apply: func(ws *WorldState) FactValue { return Number(0) }},
	}}
	planner := NewPlanner([]*Action{pickupItems}, PlannerConfig{})

	start := NewWorldState()
	start.Set("nearby.drops", Number(0))
	start.Set("state.inventoryFull", Bool(false))

	result := planner.Plan(start, zeroConditionGoal("NoDrops", "nearby.drops"))

	assert.True(t, result.Success)
	assert.Empty(t, result.Plan)
	assert.Equal(t, 0.0, result.TotalCost)
	assert.Equal(t, 0, result.NodesExplored)
}

// S2 — single-action plan.
func TestPlanner_S2_SingleActionPlan(t *testing.T) {
	pickupItems := &Action{
		Name: "PickupItems",
		GetCost: func(ws *WorldState) float64 { return 2 },
		Effects: []Effect{
			{Key: "nearby.drops", Apply: func(ws *WorldState) FactValue { return Number(0) }},
		},
	}
	planner := NewPlanner([]*Action{pickupItems}, PlannerConfig{})

	start := NewWorldState()
	start.Set("nearby.drops", Number(5))
	start.Set("state.inventoryFull", Bool(false))

	result := planner.Plan(start, zeroConditionGoal("NoDrops", "nearby.drops"))

	require.True(t, result.Success)
	require.Len(t, result.Plan, 1)
	assert.Equal(t, "PickupItems", result.Plan[0].Name)
	assert.Equal(t, 2.0, result.TotalCost)
}

// S3 — chained preconditions.
func TestPlanner_S3_ChainedPreconditions(t *testing.T) {
	processWood := &Action{
		Name:          "ProcessWood",
		GetCost:       func(ws *WorldState) float64 { return 1 },
		Preconditions: []Precondition{{Key: "inv.logs", Check: func(v FactValue) bool { n, _ := v.AsNumber(); return n >= 1 }}},
		Effects: []Effect{
			{Key: "inv.logs", Apply: func(ws *WorldState) FactValue { return Number(ws.GetNumber("inv.logs") - 1) }},
			{Key: "inv.planks", Apply: func(ws *WorldState) FactValue { return Number(ws.GetNumber("inv.planks") + 4) }},
		},
	}
	craftHoe := &Action{
		Name:    "CraftHoe",
		GetCost: func(ws *WorldState) float64 { return 3 },
		CheckPreconditions: func(ws *WorldState) bool {
			return ws.GetNumber("inv.planks") >= 4 && ws.GetNumber("nearby.craftingTables") > 0
		},
		Effects: []Effect{
			{Key: "has.hoe", Apply: func(ws *WorldState) FactValue { return Bool(true) }},
			{Key: "inv.planks", Apply: func(ws *WorldState) FactValue { return Number(ws.GetNumber("inv.planks") - 4) }},
		},
	}
	planner := NewPlanner([]*Action{processWood, craftHoe}, PlannerConfig{})

	start := NewWorldState()
	start.Set("has.hoe", Bool(false))
	start.Set("inv.logs", Number(2))
	start.Set("inv.planks", Number(0))
	start.Set("nearby.craftingTables", Number(1))

	goal := &Goal{Name: "GetHoe", Conditions: []GoalCondition{boolConditionTrue("has.hoe")}}

	result := planner.Plan(start, goal)

	require.True(t, result.Success)
	require.Len(t, result.Plan, 2)
	assert.Equal(t, "ProcessWood", result.Plan[0].Name)
	assert.Equal(t, "CraftHoe", result.Plan[1].Name)
}

func boolConditionTrue(key string) GoalCondition {
	return GoalCondition{Key: key, Check: func(v FactValue) bool { b, _ := v.AsBool(); return b }}
}

// S4 — cheaper alternative chosen.
func TestPlanner_S4_CheaperAlternativeChosen(t *testing.T) {
	cheap := &Action{
		Name:    "BuySeedsMarket",
		GetCost: func(ws *WorldState) float64 { return 1.0 },
		Effects: []Effect{{Key: "inv.seeds", Apply: func(ws *WorldState) FactValue { return Number(10) }}},
	}
	expensive := &Action{
		Name:    "GrowSeedsSlowly",
		GetCost: func(ws *WorldState) float64 { return 10.0 },
		Effects: []Effect{{Key: "inv.seeds", Apply: func(ws *WorldState) FactValue { return Number(10) }}},
	}
	planner := NewPlanner([]*Action{cheap, expensive}, PlannerConfig{})

	start := NewWorldState()
	start.Set("inv.seeds", Number(0))

	goal := &Goal{Name: "HaveSeeds", Conditions: []GoalCondition{
		{Key: "inv.seeds", Check: func(v FactValue) bool { n, _ := v.AsNumber(); return n == 10 }},
	}}

	result := planner.Plan(start, goal)

	require.True(t, result.Success)
	require.Len(t, result.Plan, 1)
	assert.Equal(t, "BuySeedsMarket", result.Plan[0].Name)
}

// S5 — failure via max-iterations.
func TestPlanner_S5_MaxIterationsFailure(t *testing.T) {
	addOne := &Action{
		Name:    "AddItem",
		GetCost: func(ws *WorldState) float64 { return 1 },
		Effects: []Effect{{Key: "inv.items", Apply: func(ws *WorldState) FactValue { return Number(ws.GetNumber("inv.items") + 1) }}},
	}
	planner := NewPlanner([]*Action{addOne}, PlannerConfig{MaxIterations: 100})

	start := NewWorldState()
	goal := &Goal{Name: "Have1000", Conditions: []GoalCondition{
		{
			Key:           "inv.items",
			Check:         func(v FactValue) bool { n, _ := v.AsNumber(); return n >= 1000 },
			NumericTarget: &NumericTarget{Value: 1000, Comparison: GTE, EstimatedDelta: 1},
		},
	}}

	result := planner.Plan(start, goal)

	assert.False(t, result.Success)
	assert.Nil(t, result.Plan)
	assert.LessOrEqual(t, result.NodesExplored, 100)
}

func TestPlanner_ZeroActionsGoalAlreadySatisfiedSucceeds(t *testing.T) {
	planner := NewPlanner(nil, PlannerConfig{})
	result := planner.Plan(NewWorldState(), &Goal{Name: "Nothing"})
	assert.True(t, result.Success)
	assert.Empty(t, result.Plan)
}

func TestPlanner_ZeroActionsUnsatisfiedGoalFails(t *testing.T) {
	planner := NewPlanner(nil, PlannerConfig{})
	goal := &Goal{Name: "Impossible", Conditions: []GoalCondition{boolConditionTrue("has.gold")}}
	result := planner.Plan(NewWorldState(), goal)
	assert.False(t, result.Success)
}

func TestPlanner_DeduplicatesOnCanonicalKeyKeepingLowerCost(t *testing.T) {
	// Two actions reach the same canonical state; the cheaper path should win.
	viaCheap := &Action{
		Name:    "DirectRoute",
		GetCost: func(ws *WorldState) float64 { return 1 },
		Effects: []Effect{boolEffect("at.market", true)},
	}
	viaExpensive := &Action{
		Name:          "DetourRoute",
		GetCost:       func(ws *WorldState) float64 { return 5 },
		Preconditions: []Precondition{boolPrecondition("at.market", false)},
		Effects:       []Effect{boolEffect("at.market", true)},
	}
	planner := NewPlanner([]*Action{viaCheap, viaExpensive}, PlannerConfig{CanonicalKeys: []string{"at.market"}})

	start := NewWorldState()
	start.Set("at.market", Bool(false))
	goal := &Goal{Name: "AtMarket", Conditions: []GoalCondition{boolConditionTrue("at.market")}}

	result := planner.Plan(start, goal)

	require.True(t, result.Success)
	require.Len(t, result.Plan, 1)
	assert.Equal(t, "DirectRoute", result.Plan[0].Name)
}
