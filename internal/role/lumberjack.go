package role

import (
	"context"
	"fmt"

	"goap-agent/internal/goap"
)

// LumberjackBot is the capability surface a lumberjack role expects.
type LumberjackBot interface {
	MoveTo(ctx context.Context, tree string) error
	ChopTree(ctx context.Context, tree string) (int, error) // returns logs gained
	HaulToStockpile(ctx context.Context, quantity int) error
	SellLogs(ctx context.Context, quantity int) (int, error)
}

// LumberjackBlackboard tracks the perceived state a lumberjack plans over.
type LumberjackBlackboard struct {
	BaseBlackboard

	NearTree      bool
	Logs          int
	StockpileLogs int
	Gold          int
}

// LumberjackPerceiver implements goap.Perceiver for LumberjackBlackboard.
type LumberjackPerceiver struct{}

func (LumberjackPerceiver) UpdateBlackboard(ctx context.Context, bot goap.Bot, bb goap.Blackboard) error {
	return nil
}

func (LumberjackPerceiver) ProjectWorldState(bot goap.Bot, bb goap.Blackboard) *goap.WorldState {
	lb := bb.(*LumberjackBlackboard)
	ws := goap.NewWorldState()
	ws.Set("near.tree", goap.Bool(lb.NearTree))
	ws.Set("inventory.logs", goap.Number(float64(lb.Logs)))
	ws.Set("stockpile.logs", goap.Number(float64(lb.StockpileLogs)))
	ws.Set("has.gold", goap.Bool(lb.Gold > 0))
	return ws
}

// LumberjackActions returns the chop/haul/sell action set for tree.
func LumberjackActions(tree string) []*goap.Action {
	return []*goap.Action{
		{
			Name: "chop_tree",
			Preconditions: []goap.Precondition{
				{Key: "near.tree", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return b }, Description: "within chopping range"},
			},
			Effects: []goap.Effect{
				{Key: "inventory.logs", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Number(ws.GetNumber("inventory.logs") + 1) }},
			},
			GetCost: func(ws *goap.WorldState) float64 { return 3 },
			Execute: func(ctx context.Context, bot goap.Bot, bb goap.Blackboard, ws *goap.WorldState) (goap.ActionResult, error) {
				lbot, ok := bot.(LumberjackBot)
				if !ok {
					return goap.Failure, fmt.Errorf("role: bot does not implement LumberjackBot")
				}
				gained, err := lbot.ChopTree(ctx, tree)
				if err != nil {
					return goap.Failure, err
				}
				bb.(*LumberjackBlackboard).Logs += gained
				return goap.Success, nil
			},
		},
		{
			Name: "haul_to_stockpile",
			Preconditions: []goap.Precondition{
				{Key: "inventory.logs", Check: func(v goap.FactValue) bool { n, _ := v.AsNumber(); return n > 0 }, Description: "carrying logs"},
			},
			Effects: []goap.Effect{
				{Key: "stockpile.logs", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Number(ws.GetNumber("stockpile.logs") + ws.GetNumber("inventory.logs")) }},
				{Key: "inventory.logs", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Number(0) }},
			},
			GetCost: func(ws *goap.WorldState) float64 { return 2 },
			Execute: func(ctx context.Context, bot goap.Bot, bb goap.Blackboard, ws *goap.WorldState) (goap.ActionResult, error) {
				lbot, ok := bot.(LumberjackBot)
				if !ok {
					return goap.Failure, fmt.Errorf("role: bot does not implement LumberjackBot")
				}
				lb := bb.(*LumberjackBlackboard)
				if err := lbot.HaulToStockpile(ctx, lb.Logs); err != nil {
					return goap.Failure, err
				}
				lb.StockpileLogs += lb.Logs
				lb.Logs = 0
				return goap.Success, nil
			},
		},
		{
			Name: "sell_logs",
			Preconditions: []goap.Precondition{
				{Key: "stockpile.logs", Check: func(v goap.FactValue) bool { n, _ := v.AsNumber(); return n >= 10 }, Description: "stockpile at market minimum"},
			},
			Effects: []goap.Effect{
				{Key: "stockpile.logs", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Number(0) }},
				{Key: "has.gold", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(true) }},
			},
			GetCost: func(ws *goap.WorldState) float64 { return 1 },
			Execute: func(ctx context.Context, bot goap.Bot, bb goap.Blackboard, ws *goap.WorldState) (goap.ActionResult, error) {
				lbot, ok := bot.(LumberjackBot)
				if !ok {
					return goap.Failure, fmt.Errorf("role: bot does not implement LumberjackBot")
				}
				lb := bb.(*LumberjackBlackboard)
				earned, err := lbot.SellLogs(ctx, lb.StockpileLogs)
				if err != nil {
					return goap.Failure, err
				}
				lb.StockpileLogs = 0
				lb.Gold += earned
				return goap.Success, nil
			},
		},
	}
}

// LumberjackGoals returns the goal set: keep the stockpile moving to market.
func LumberjackGoals() []*goap.Goal {
	return []*goap.Goal{
		{
			Name: "sell_timber",
			Conditions: []goap.GoalCondition{
				{Key: "has.gold", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return b }, Description: "has gold"},
			},
			GetUtility: func(ws *goap.WorldState) float64 {
				return 40 + ws.GetNumber("stockpile.logs")
			},
			Description: "convert felled timber into gold once the stockpile is large enough",
		},
	}
}
