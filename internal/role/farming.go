package role

import (
	"context"
	"fmt"

	"goap-agent/internal/goap"
)

// FarmingBot is the concrete capability surface a farming role's actions
// expect from goap.Bot. A real implementation wraps a game client;
// Execute funcs type-assert bot.(FarmingBot) before use.
type FarmingBot interface {
	MoveTo(ctx context.Context, field string) error
	TillSoil(ctx context.Context, field string) error
	PlantSeed(ctx context.Context, field, crop string) error
	Harvest(ctx context.Context, field string) (int, error)
	SellCrops(ctx context.Context, quantity int) (int, error) // returns gold earned
}

// FarmingBlackboard tracks the perceived state a farming bot plans over.
type FarmingBlackboard struct {
	BaseBlackboard

	CurrentField string
	Tilled       bool
	Planted      bool
	HarvestReady bool
	Inventory    int
	Gold         int
}

// FarmingPerceiver implements goap.Perceiver for FarmingBlackboard.
type FarmingPerceiver struct{}

func (FarmingPerceiver) UpdateBlackboard(ctx context.Context, bot goap.Bot, bb goap.Blackboard) error {
	return nil
}

// ProjectWorldState maps a FarmingBlackboard onto the symbolic facts the
// farming actions/goals below read and write.
func (FarmingPerceiver) ProjectWorldState(bot goap.Bot, bb goap.Blackboard) *goap.WorldState {
	fb := bb.(*FarmingBlackboard)
	ws := goap.NewWorldState()
	ws.Set("field.tilled", goap.Bool(fb.Tilled))
	ws.Set("field.planted", goap.Bool(fb.Planted))
	ws.Set("field.harvest_ready", goap.Bool(fb.HarvestReady))
	ws.Set("inventory.crops", goap.Number(float64(fb.Inventory)))
	ws.Set("has.gold", goap.Bool(fb.Gold > 0))
	ws.Set("gold.amount", goap.Number(float64(fb.Gold)))
	return ws
}

// FarmingActions returns the full action set for the farming role: till,
// plant, wait-for-growth (modeled as an instantaneous harvest readiness
// flip, since growth timing is outside this illustration's scope),
// harvest, and sell.
func FarmingActions(field, crop string) []*goap.Action {
	return []*goap.Action{
		{
			Name: "till_soil",
			Preconditions: []goap.Precondition{
				{Key: "field.tilled", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return !b }, Description: "field not yet tilled"},
			},
			Effects: []goap.Effect{
				{Key: "field.tilled", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(true) }},
			},
			GetCost: func(ws *goap.WorldState) float64 { return 2 },
			Execute: func(ctx context.Context, bot goap.Bot, bb goap.Blackboard, ws *goap.WorldState) (goap.ActionResult, error) {
				fbot, ok := bot.(FarmingBot)
				if !ok {
					return goap.Failure, fmt.Errorf("role: bot does not implement FarmingBot")
				}
				if err := fbot.TillSoil(ctx, field); err != nil {
					return goap.Failure, err
				}
				bb.(*FarmingBlackboard).Tilled = true
				return goap.Success, nil
			},
		},
		{
			Name: "plant_seed",
			Preconditions: []goap.Precondition{
				{Key: "field.tilled", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return b }, Description: "field tilled"},
				{Key: "field.planted", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return !b }, Description: "not yet planted"},
			},
			Effects: []goap.Effect{
				{Key: "field.planted", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(true) }},
				{Key: "field.harvest_ready", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(true) }},
			},
			GetCost: func(ws *goap.WorldState) float64 { return 1 },
			Execute: func(ctx context.Context, bot goap.Bot, bb goap.Blackboard, ws *goap.WorldState) (goap.ActionResult, error) {
				fbot, ok := bot.(FarmingBot)
				if !ok {
					return goap.Failure, fmt.Errorf("role: bot does not implement FarmingBot")
				}
				if err := fbot.PlantSeed(ctx, field, crop); err != nil {
					return goap.Failure, err
				}
				fb := bb.(*FarmingBlackboard)
				fb.Planted = true
				fb.HarvestReady = true
				return goap.Success, nil
			},
		},
		{
			Name: "harvest",
			Preconditions: []goap.Precondition{
				{Key: "field.harvest_ready", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return b }, Description: "crop ready"},
			},
			Effects: []goap.Effect{
				{Key: "field.harvest_ready", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(false) }},
				{Key: "field.planted", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(false) }},
				{Key: "field.tilled", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(false) }},
				{Key: "inventory.crops", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Number(ws.GetNumber("inventory.crops") + 1) }},
			},
			GetCost: func(ws *goap.WorldState) float64 { return 1 },
			Execute: func(ctx context.Context, bot goap.Bot, bb goap.Blackboard, ws *goap.WorldState) (goap.ActionResult, error) {
				fbot, ok := bot.(FarmingBot)
				if !ok {
					return goap.Failure, fmt.Errorf("role: bot does not implement FarmingBot")
				}
				quantity, err := fbot.Harvest(ctx, field)
				if err != nil {
					return goap.Failure, err
				}
				fb := bb.(*FarmingBlackboard)
				fb.HarvestReady = false
				fb.Planted = false
				fb.Tilled = false
				fb.Inventory += quantity
				return goap.Success, nil
			},
		},
		{
			Name: "sell_crops",
			Preconditions: []goap.Precondition{
				{Key: "inventory.crops", Check: func(v goap.FactValue) bool { n, _ := v.AsNumber(); return n > 0 }, Description: "has crops to sell"},
			},
			Effects: []goap.Effect{
				{Key: "inventory.crops", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Number(0) }},
				{Key: "has.gold", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(true) }},
			},
			GetCost: func(ws *goap.WorldState) float64 { return 1 },
			Execute: func(ctx context.Context, bot goap.Bot, bb goap.Blackboard, ws *goap.WorldState) (goap.ActionResult, error) {
				fbot, ok := bot.(FarmingBot)
				if !ok {
					return goap.Failure, fmt.Errorf("role: bot does not implement FarmingBot")
				}
				fb := bb.(*FarmingBlackboard)
				earned, err := fbot.SellCrops(ctx, fb.Inventory)
				if err != nil {
					return goap.Failure, err
				}
				fb.Inventory = 0
				fb.Gold += earned
				return goap.Success, nil
			},
		},
	}
}

// FarmingGoals returns the goal set: accumulate gold by farming.
func FarmingGoals() []*goap.Goal {
	return []*goap.Goal{
		{
			Name: "earn_gold",
			Conditions: []goap.GoalCondition{
				{Key: "has.gold", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return b }, Description: "has gold"},
			},
			GetUtility: func(ws *goap.WorldState) float64 {
				if ws.GetNumber("gold.amount") > 0 {
					return 10
				}
				return 60
			},
			Description: "keep the farm generating income",
		},
	}
}
