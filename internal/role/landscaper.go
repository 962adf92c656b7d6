package role

import (
	"context"
	"fmt"

	"goap-agent/internal/goap"
)

// LandscaperBot is the capability surface a landscaper role expects.
type LandscaperBot interface {
	MoveTo(ctx context.Context, plot string) error
	MowLawn(ctx context.Context, plot string) error
	PlantFlowers(ctx context.Context, plot string) error
	TrimHedges(ctx context.Context, plot string) error
}

// LandscaperBlackboard tracks the perceived state a landscaper plans over.
// Unlike FarmingBlackboard and LumberjackBlackboard, this role has no
// resource/gold loop: its goal is a maintenance condition (a tidy plot),
// illustrating a goal whose utility depends on decay rather than income.
type LandscaperBlackboard struct {
	BaseBlackboard

	Mowed      bool
	Flowered   bool
	Trimmed    bool
	TicksSince int // ticks since the plot was last fully tidy
}

// LandscaperPerceiver implements goap.Perceiver for LandscaperBlackboard.
type LandscaperPerceiver struct{}

func (LandscaperPerceiver) UpdateBlackboard(ctx context.Context, bot goap.Bot, bb goap.Blackboard) error {
	lb := bb.(*LandscaperBlackboard)
	if lb.Mowed && lb.Flowered && lb.Trimmed {
		lb.TicksSince = 0
	} else {
		lb.TicksSince++
	}
	return nil
}

func (LandscaperPerceiver) ProjectWorldState(bot goap.Bot, bb goap.Blackboard) *goap.WorldState {
	lb := bb.(*LandscaperBlackboard)
	ws := goap.NewWorldState()
	ws.Set("plot.mowed", goap.Bool(lb.Mowed))
	ws.Set("plot.flowered", goap.Bool(lb.Flowered))
	ws.Set("plot.trimmed", goap.Bool(lb.Trimmed))
	ws.Set("plot.ticks_since_tidy", goap.Number(float64(lb.TicksSince)))
	return ws
}

// LandscaperActions returns the tidy-up action set for plot.
func LandscaperActions(plot string) []*goap.Action {
	return []*goap.Action{
		{
			Name: "mow_lawn",
			Preconditions: []goap.Precondition{
				{Key: "plot.mowed", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return !b }, Description: "lawn not yet mowed"},
			},
			Effects: []goap.Effect{
				{Key: "plot.mowed", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(true) }},
			},
			GetCost: func(ws *goap.WorldState) float64 { return 2 },
			Execute: func(ctx context.Context, bot goap.Bot, bb goap.Blackboard, ws *goap.WorldState) (goap.ActionResult, error) {
				lbot, ok := bot.(LandscaperBot)
				if !ok {
					return goap.Failure, fmt.Errorf("role: bot does not implement LandscaperBot")
				}
				if err := lbot.MowLawn(ctx, plot); err != nil {
					return goap.Failure, err
				}
				bb.(*LandscaperBlackboard).Mowed = true
				return goap.Success, nil
			},
		},
		{
			Name: "plant_flowers",
			Preconditions: []goap.Precondition{
				{Key: "plot.flowered", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return !b }, Description: "flowers not yet planted"},
			},
			Effects: []goap.Effect{
				{Key: "plot.flowered", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(true) }},
			},
			GetCost: func(ws *goap.WorldState) float64 { return 3 },
			Execute: func(ctx context.Context, bot goap.Bot, bb goap.Blackboard, ws *goap.WorldState) (goap.ActionResult, error) {
				lbot, ok := bot.(LandscaperBot)
				if !ok {
					return goap.Failure, fmt.Errorf("role: bot does not implement LandscaperBot")
				}
				if err := lbot.PlantFlowers(ctx, plot); err != nil {
					return goap.Failure, err
				}
				bb.(*LandscaperBlackboard).Flowered = true
				return goap.Success, nil
			},
		},
		{
			Name: "trim_hedges",
			Preconditions: []goap.Precondition{
				{Key: "plot.trimmed", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return !b }, Description: "hedges not yet trimmed"},
			},
			Effects: []goap.Effect{
				{Key: "plot.trimmed", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(true) }},
			},
			GetCost: func(ws *goap.WorldState) float64 { return 2 },
			Execute: func(ctx context.Context, bot goap.Bot, bb goap.Blackboard, ws *goap.WorldState) (goap.ActionResult, error) {
				lbot, ok := bot.(LandscaperBot)
				if !ok {
					return goap.Failure, fmt.Errorf("role: bot does not implement LandscaperBot")
				}
				if err := lbot.TrimHedges(ctx, plot); err != nil {
					return goap.Failure, err
				}
				bb.(*LandscaperBlackboard).Trimmed = true
				return goap.Success, nil
			},
		},
	}
}

// LandscaperGoals returns the goal set: keep the plot tidy, with rising
// utility the longer it has gone untended, a decay-driven goal rather
// than a resource-accumulation one.
func LandscaperGoals() []*goap.Goal {
	return []*goap.Goal{
		{
			Name: "keep_plot_tidy",
			Conditions: []goap.GoalCondition{
				{Key: "plot.mowed", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return b }, Description: "mowed"},
				{Key: "plot.flowered", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return b }, Description: "flowered"},
				{Key: "plot.trimmed", Check: func(v goap.FactValue) bool { b, _ := v.AsBool(); return b }, Description: "trimmed"},
			},
			GetUtility: func(ws *goap.WorldState) float64 {
				return 10 + ws.GetNumber("plot.ticks_since_tidy")
			},
			Description: "restore a decaying plot before it becomes an eyesore",
		},
	}
}
