package agent

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"goap-agent/internal/config"
	"goap-agent/internal/goap"
)

// fakeEventPublisher records calls instead of publishing to NATS, so tests
// can assert the loop actually invokes its EventPublisher rather than
// merely holding a reference to one.
type fakeEventPublisher struct {
	mu           sync.Mutex
	goalSwitches []string
	plansFound   []string
	replans      []string
	failures     []string
}

func (f *fakeEventPublisher) GoalSwitch(agentID, from, to, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.goalSwitches = append(f.goalSwitches, to)
}

func (f *fakeEventPublisher) Plan(agentID, goal string, cost float64, actions []string, found bool) {
	if !found {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plansFound = append(f.plansFound, goal)
}

func (f *fakeEventPublisher) Replan(agentID, goal, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replans = append(f.replans, reason)
}

func (f *fakeEventPublisher) ActionFailure(agentID, action string, consecutiveFailures int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, action)
}

type fakeBlackboard struct {
	mu   sync.Mutex
	idle int
}

func (b *fakeBlackboard) ConsecutiveIdleTicks() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.idle
}

func (b *fakeBlackboard) SetConsecutiveIdleTicks(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.idle = n
}

type fakeClient struct {
	mu        sync.Mutex
	connected bool
	spawned   bool
}

func (c *fakeClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) AvatarSpawned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spawned
}

func (c *fakeClient) disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
}

type fakePerceiver struct {
	mu    sync.Mutex
	ticks int
}

func (p *fakePerceiver) UpdateBlackboard(ctx context.Context, bot goap.Bot, bb goap.Blackboard) error {
	p.mu.Lock()
	p.ticks++
	p.mu.Unlock()
	return nil
}

func (p *fakePerceiver) ProjectWorldState(bot goap.Bot, bb goap.Blackboard) *goap.WorldState {
	ws := goap.NewWorldState()
	ws.Set("has.gold", goap.Bool(false))
	return ws
}

func newTestLoop(t *testing.T, role Role) *Loop {
	t.Helper()
	cfg := config.Components{
		Planner:  goap.PlannerConfig{},
		Arbiter:  goap.ArbiterConfig{},
		Executor: goap.ExecutorConfig{},
		Loop:     config.LoopConfig{TickInterval: 5 * time.Millisecond, PlanningCooldown: 50 * time.Millisecond},
	}
	return NewLoop("test-agent", role, cfg, zerolog.Nop(), Diagnostics{})
}

func TestLoop_StopsWhenClientDisconnects(t *testing.T) {
	client := &fakeClient{connected: false, spawned: true}
	role := Role{
		Bot:        struct{}{},
		Blackboard: &fakeBlackboard{},
		Client:     client,
		Perceiver:  &fakePerceiver{},
		Goals:      []*goap.Goal{{Name: "Noop", GetUtility: func(ws *goap.WorldState) float64 { return 1 }}},
	}
	loop := newTestLoop(t, role)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after client disconnected")
	}
}

func TestLoop_PlansAndExecutesAGoal(t *testing.T) {
	executed := make(chan struct{}, 1)
	action := &goap.Action{
		Name: "GiveGold",
		Execute: func(ctx context.Context, bot goap.Bot, bb goap.Blackboard, ws *goap.WorldState) (goap.ActionResult, error) {
			select {
			case executed <- struct{}{}:
			default:
			}
			return goap.Success, nil
		},
		Effects: []goap.Effect{{Key: "has.gold", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(true) }}},
	}
	goal := &goap.Goal{
		Name:       "GetGold",
		GetUtility: func(ws *goap.WorldState) float64 { return 10 },
		Conditions: []goap.GoalCondition{{Key: "has.gold", Check: func(v goap.FactValue) bool {
			b, _ := v.AsBool()
			return b
		}}},
	}

	client := &fakeClient{connected: true, spawned: true}
	role := Role{
		Bot:        struct{}{},
		Blackboard: &fakeBlackboard{},
		Client:     client,
		Perceiver:  &fakePerceiver{},
		Actions:    []*goap.Action{action},
		Goals:      []*goap.Goal{goal},
	}
	loop := newTestLoop(t, role)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	select {
	case <-executed:
	case <-time.After(time.Second):
		t.Fatal("action was never executed")
	}

	client.disconnect()
	<-done
}

func TestLoop_PublishesDiagnosticEventsAndExposesStatus(t *testing.T) {
	executed := make(chan struct{}, 1)
	action := &goap.Action{
		Name: "GiveGold",
		Execute: func(ctx context.Context, bot goap.Bot, bb goap.Blackboard, ws *goap.WorldState) (goap.ActionResult, error) {
			select {
			case executed <- struct{}{}:
			default:
			}
			return goap.Success, nil
		},
		Effects: []goap.Effect{{Key: "has.gold", Apply: func(ws *goap.WorldState) goap.FactValue { return goap.Bool(true) }}},
	}
	goal := &goap.Goal{
		Name:       "GetGold",
		GetUtility: func(ws *goap.WorldState) float64 { return 10 },
		Conditions: []goap.GoalCondition{{Key: "has.gold", Check: func(v goap.FactValue) bool {
			b, _ := v.AsBool()
			return b
		}}},
	}

	client := &fakeClient{connected: true, spawned: true}
	role := Role{
		Bot:        struct{}{},
		Blackboard: &fakeBlackboard{},
		Client:     client,
		Perceiver:  &fakePerceiver{},
		Actions:    []*goap.Action{action},
		Goals:      []*goap.Goal{goal},
	}

	cfg := config.Components{
		Planner:  goap.PlannerConfig{},
		Arbiter:  goap.ArbiterConfig{},
		Executor: goap.ExecutorConfig{},
		Loop:     config.LoopConfig{TickInterval: 5 * time.Millisecond, PlanningCooldown: 50 * time.Millisecond},
	}
	events := &fakeEventPublisher{}
	loop := NewLoop("test-agent", role, cfg, zerolog.Nop(), Diagnostics{Events: events})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	select {
	case <-executed:
	case <-time.After(time.Second):
		t.Fatal("action was never executed")
	}

	assert.Eventually(t, func() bool {
		return strings.Contains(loop.GoalReport(), "GetGold")
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "GetGold", loop.Stats().CurrentGoal)
	assert.Contains(t, loop.Status(), "GetGold")

	client.disconnect()
	<-done

	events.mu.Lock()
	defer events.mu.Unlock()
	assert.Contains(t, events.goalSwitches, "GetGold")
	assert.Contains(t, events.plansFound, "GetGold")
}
