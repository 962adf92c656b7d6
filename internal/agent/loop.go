// Package agent composes the goap engine with a role's external
// collaborators into the single per-agent tick pipeline: perceive,
// decide, act, monitor.
package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"goap-agent/internal/config"
	"goap-agent/internal/goap"
	"goap-agent/internal/goap/store"
	"goap-agent/internal/logging"
)

// Role bundles a domain's external collaborators and its static action and
// goal sets. Actions and Goals are constructed once at agent start and are
// immutable thereafter, per goap's lifecycle invariant.
type Role struct {
	Bot        goap.Bot
	Blackboard goap.Blackboard
	Client     goap.Client
	Perceiver  goap.Perceiver
	Actions    []*goap.Action
	Goals      []*goap.Goal
}

// cooldown tracks a goal name's skip-until time.
type cooldown struct {
	goalName string
	until    time.Time
}

// LoopStats is the runtime counters snapshot the agent role's getStats()
// surface exposes: the executor's progress plus the arbiter's currently
// selected goal and its last-scored utility.
type LoopStats struct {
	CurrentGoal     string             `json:"current_goal,omitempty"`
	GoalUtility     float64            `json:"goal_utility,omitempty"`
	Executor        goap.ExecutorStats `json:"executor"`
	ConsecutiveIdle int                `json:"consecutive_idle_ticks"`
}

// Loop is the single-threaded cooperative tick driver for one agent. It
// owns its own planner, arbiter, executor, and blackboard; none of its
// data structures are shared across agents.
type Loop struct {
	agentID string
	role    Role
	logger  zerolog.Logger

	planner  *goap.Planner
	arbiter  *goap.Arbiter
	executor *goap.Executor

	loopConfig config.LoopConfig
	diag       Diagnostics

	mu              sync.Mutex
	cooldowns       []cooldown
	lastPlanGoal    string
	lastPlanActions []string
	lastPlanCost    float64
	statusText      string
	stats           LoopStats
	goalReport      string

	ticking atomic.Bool
	stopCh  chan struct{}
	stopped atomic.Bool
	doneCh  chan struct{}
}

// NewLoop constructs a Loop for role, wiring a fresh Planner/Arbiter/
// Executor from cfg. diag bundles the optional ambient-observability
// collaborators the loop reports into; its zero value disables all of it.
func NewLoop(agentID string, role Role, cfg config.Components, logger zerolog.Logger, diag Diagnostics) *Loop {
	l := &Loop{
		agentID:    agentID,
		role:       role,
		logger:     logger.With().Str("agent_id", agentID).Logger(),
		loopConfig: cfg.Loop,
		diag:       diag,
		statusText: "idle",
		goalReport: "no plan yet",
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	l.planner = goap.NewPlanner(role.Actions, cfg.Planner)
	l.arbiter = goap.NewArbiter(role.Goals, cfg.Arbiter)
	l.executor = goap.NewExecutor(cfg.Executor, l.handleReplan)
	return l
}

// Run starts the fixed-interval tick scheduler and blocks until Stop is
// called or ctx is cancelled. Ticks that arrive while a prior tick is
// still in flight are skipped, never queued.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.doneCh)

	l.hydrateCooldowns(ctx)

	interval := l.loopConfig.TickInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.maybeTick(ctx)
		}
	}
}

// Stop halts the loop's tick timer, cancels the executor, and marks the
// loop stopped. Idempotent. Blocks until Run has returned.
func (l *Loop) Stop() {
	l.requestStop()
	<-l.doneCh
}

// requestStop cancels the executor and signals Run's select loop to exit.
// Safe to call from within a tick (the connectivity gate) or externally;
// does not block on doneCh, so it never deadlocks against its own caller.
func (l *Loop) requestStop() {
	if l.stopped.CompareAndSwap(false, true) {
		l.executor.Cancel(goap.PlanExhausted)
		close(l.stopCh)
	}
}

func (l *Loop) maybeTick(ctx context.Context) {
	if !l.ticking.CompareAndSwap(false, true) {
		l.logger.Debug().Msg("tick skipped: previous tick still in flight")
		return
	}
	defer l.ticking.Store(false)

	func() {
		defer func() {
			if r := recover(); r != nil {
				l.logger.Error().Interface("panic", r).Msg("tick panicked, skipping")
			}
		}()
		l.tick(ctx)
	}()
}

func (l *Loop) tick(ctx context.Context) {
	ctx = logging.WithAgent(ctx, l.agentID)

	// 1. Connectivity gate.
	if !l.role.Client.Connected() || !l.role.Client.AvatarSpawned() {
		l.logger.Info().Msg("client disconnected or avatar not spawned, stopping role")
		l.requestStop()
		return
	}

	// 2. Perceive.
	if err := l.role.Perceiver.UpdateBlackboard(ctx, l.role.Bot, l.role.Blackboard); err != nil {
		l.logger.Warn().Err(err).Msg("updateBlackboard failed, skipping tick")
		return
	}
	ws := l.role.Perceiver.ProjectWorldState(l.role.Bot, l.role.Blackboard)
	l.snapshotToCache(ws)

	// 3. Decide.
	if !l.executor.IsExecuting() {
		l.planNextGoal(ws)
	} else {
		l.checkGoalPreemption(ws)
	}

	// 4. Act.
	action := l.executor.CurrentAction()
	before := l.executor.Stats()
	l.executor.Tick(ctx, l.role.Bot, l.role.Blackboard, ws)
	after := l.executor.Stats()
	succeededThisTick := after.ActionsSucceeded > before.ActionsSucceeded
	l.reportActionOutcome(action, before, after)

	// 5. Monitor.
	l.executor.CheckWorldStateChange(ws)

	// 6. Idle tracking.
	if succeededThisTick {
		l.role.Blackboard.SetConsecutiveIdleTicks(0)
	} else {
		l.role.Blackboard.SetConsecutiveIdleTicks(l.role.Blackboard.ConsecutiveIdleTicks() + 1)
	}

	l.refreshStatus()
}

// planNextGoal prunes expired cooldowns, selects a goal via the arbiter,
// plans for it, and loads the resulting plan into the executor. A failed
// plan places the goal on cooldown and clears the arbiter's current goal.
func (l *Loop) planNextGoal(ws *goap.WorldState) {
	skip := l.pruneCooldowns()
	previousGoal := l.arbiter.CurrentGoal()

	selection, ok := l.arbiter.SelectGoal(ws, skip)
	if !ok {
		return
	}

	start := time.Now()
	result := l.planner.Plan(ws, selection.Goal)
	l.recordPlanSearch(selection.Goal.Name, result, time.Since(start))

	if !result.Success {
		l.logger.Warn().
			Str("goal", selection.Goal.Name).
			Int("nodes_explored", result.NodesExplored).
			Msg("planning failed, cooling down goal")
		if l.diag.Events != nil {
			l.diag.Events.Plan(l.agentID, selection.Goal.Name, 0, nil, false)
		}
		l.cooldownGoal(selection.Goal.Name, l.loopConfig.PlanningCooldown)
		l.arbiter.ClearCurrentGoal()
		return
	}

	actionNames := planActionNames(result.Plan)
	l.logger.Info().
		Str("goal", selection.Goal.Name).
		Strs("plan", actionNames).
		Int("plan_length", len(result.Plan)).
		Float64("cost", result.TotalCost).
		Str("select_reason", selection.Reason.String()).
		Msg("plan found")

	if l.diag.Events != nil {
		l.diag.Events.Plan(l.agentID, selection.Goal.Name, result.TotalCost, actionNames, true)
	}
	l.reportGoalSelection(previousGoal, selection)

	l.mu.Lock()
	l.lastPlanGoal = selection.Goal.Name
	l.lastPlanActions = actionNames
	l.lastPlanCost = result.TotalCost
	l.mu.Unlock()

	l.executor.LoadPlan(result.Plan, ws.Clone(), selection.Goal)
}

// checkGoalPreemption asks the arbiter whether a challenger goal clears
// the pre-emption threshold over the currently executing goal. If so, the
// current execution is cancelled with WORLD_CHANGED and replanning for the
// challenger happens immediately, in the same tick.
func (l *Loop) checkGoalPreemption(ws *goap.WorldState) {
	skip := l.pruneCooldowns()

	selection, ok := l.arbiter.CheckPreemption(ws, skip)
	if !ok {
		return
	}

	l.logger.Info().
		Str("preempted_by", selection.Goal.Name).
		Msg("goal preempted")

	l.executor.Cancel(goap.WorldChanged)
	l.arbiter.ClearCurrentGoal()
	l.planNextGoal(ws)
}

// handleReplan is the executor's callback. GOAL_COMPLETE clears the
// arbiter's current goal without cooldown (the goal was achieved); every
// other reason applies a cooldown to the goal that just stopped executing,
// since the agent presumably still needs it but something went wrong
// pursuing it. Every replan is reported to metrics, the diagnostics bus,
// and the durable goal-report/plan-history archives.
func (l *Loop) handleReplan(reason goap.ReplanReason) {
	goal := l.arbiter.CurrentGoal()
	stats := l.executor.Stats()
	l.arbiter.ClearCurrentGoal()

	if goal == nil {
		return
	}

	l.logger.Info().Str("goal", goal.Name).Str("reason", reason.String()).Int("failures", stats.ActionsFailed).Msg("replan requested")

	if l.diag.Metrics != nil {
		l.diag.Metrics.ReplansByReason.WithLabelValues(l.agentID, reason.String()).Inc()
	}
	if l.diag.Events != nil {
		l.diag.Events.Replan(l.agentID, goal.Name, reason.String())
	}

	outcome := "failed"
	if reason == goap.GoalComplete {
		outcome = "completed"
	}
	l.persistGoalReport(goal.Name, reason, stats)
	l.appendPlanHistory(goal.Name, outcome, stats.ReplansRequested)

	if reason != goap.GoalComplete {
		l.cooldownGoal(goal.Name, l.loopConfig.PlanningCooldown)
	}
}

func (l *Loop) cooldownGoal(name string, d time.Duration) {
	if d <= 0 {
		d = 5 * time.Second
	}
	until := time.Now().Add(d)

	l.mu.Lock()
	l.cooldowns = append(l.cooldowns, cooldown{goalName: name, until: until})
	l.mu.Unlock()

	l.persistCooldown(name, until)
}

// pruneCooldowns drops expired entries and returns the set of goal names
// still on cooldown.
func (l *Loop) pruneCooldowns() map[string]struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	live := l.cooldowns[:0]
	skip := make(map[string]struct{}, len(l.cooldowns))
	for _, c := range l.cooldowns {
		if now.Before(c.until) {
			live = append(live, c)
			skip[c.goalName] = struct{}{}
		}
	}
	l.cooldowns = live
	return skip
}

// hydrateCooldowns loads any cooldowns a prior process persisted for this
// agent, so a controller restart does not immediately re-attempt a goal
// that had just gone on cooldown before the crash.
func (l *Loop) hydrateCooldowns(ctx context.Context) {
	if l.diag.Cooldowns == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, defaultDiagnosticsTimeout)
	defer cancel()

	records, err := l.diag.Cooldowns.ActiveCooldowns(ctx, l.agentID, time.Now())
	if err != nil {
		l.logger.Warn().Err(err).Msg("failed to hydrate cooldowns from store")
		return
	}

	l.mu.Lock()
	for _, rec := range records {
		l.cooldowns = append(l.cooldowns, cooldown{goalName: rec.GoalName, until: rec.Until})
	}
	l.mu.Unlock()
}

// persistCooldown durably records a goal cooldown so a controller restart
// picks it up via hydrateCooldowns instead of immediately re-attempting
// the goal. Fire-and-forget: a dropped write degrades restart behavior,
// never the live tick.
func (l *Loop) persistCooldown(goalName string, until time.Time) {
	if l.diag.Cooldowns == nil {
		return
	}
	rec := store.CooldownRecord{AgentID: l.agentID, GoalName: goalName, Until: until}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultDiagnosticsTimeout)
		defer cancel()
		if err := l.diag.Cooldowns.PutCooldown(ctx, rec); err != nil {
			l.logger.Warn().Err(err).Msg("failed to persist goal cooldown")
		}
	}()
}

// persistGoalReport archives a durable record of how the just-ended plan
// went: which goal, what plan it ran, and why it stopped. Fire-and-forget.
func (l *Loop) persistGoalReport(goalName string, reason goap.ReplanReason, stats goap.ExecutorStats) {
	if l.diag.Cooldowns == nil {
		return
	}

	l.mu.Lock()
	plan := append([]string(nil), l.lastPlanActions...)
	cost := l.lastPlanCost
	l.mu.Unlock()

	report := store.GoalReport{
		AgentID:   l.agentID,
		Goal:      goalName,
		Plan:      plan,
		Cost:      cost,
		Reason:    reason.String(),
		Failures:  stats.ActionsFailed,
		Timestamp: time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultDiagnosticsTimeout)
		defer cancel()
		if err := l.diag.Cooldowns.RecordGoalReport(ctx, report); err != nil {
			l.logger.Warn().Err(err).Msg("failed to record goal report")
		}
	}()
}

// appendPlanHistory archives the concluded plan to the plan-history store
// for later inspection (debugging a misbehaving agent, auditing why a
// goal kept failing). Fire-and-forget.
func (l *Loop) appendPlanHistory(goalName, outcome string, replanCount int) {
	if l.diag.PlanHistory == nil {
		return
	}

	l.mu.Lock()
	actions := append([]string(nil), l.lastPlanActions...)
	cost := l.lastPlanCost
	l.mu.Unlock()

	rec := store.PlanRecord{
		AgentID:     l.agentID,
		Goal:        goalName,
		Actions:     actions,
		Cost:        cost,
		ReplanCount: replanCount,
		Outcome:     outcome,
		CreatedAt:   time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultDiagnosticsTimeout)
		defer cancel()
		if err := l.diag.PlanHistory.Append(ctx, rec); err != nil {
			l.logger.Warn().Err(err).Msg("failed to append plan history")
		}
	}()
}

// snapshotToCache mirrors the freshly perceived WorldState into the
// snapshot cache so the control API's status endpoint can read it without
// reaching into the agent goroutine. Fire-and-forget.
func (l *Loop) snapshotToCache(ws *goap.WorldState) {
	if l.diag.Snapshots == nil {
		return
	}
	ttl := l.diag.SnapshotTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	snapshot := ws.Snapshot()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultDiagnosticsTimeout)
		defer cancel()
		if err := l.diag.Snapshots.Set(ctx, l.agentID, snapshot, ttl); err != nil {
			l.logger.Warn().Err(err).Msg("failed to cache world state snapshot")
		}
	}()
}

// recordPlanSearch reports one planner.Plan invocation's search cost and
// outcome to the domain metrics registry.
func (l *Loop) recordPlanSearch(goalName string, result goap.PlanResult, elapsed time.Duration) {
	if l.diag.Metrics == nil {
		return
	}
	l.diag.Metrics.PlanSearchDuration.WithLabelValues(l.agentID, goalName).Observe(elapsed.Seconds())
	l.diag.Metrics.PlanNodesExplored.WithLabelValues(l.agentID, goalName).Observe(float64(result.NodesExplored))
	outcome := "failure"
	if result.Success {
		outcome = "success"
	}
	l.diag.Metrics.PlanOutcomes.WithLabelValues(l.agentID, goalName, outcome).Inc()
}

// reportGoalSelection emits the goal-switch metric and diagnostic event
// for a successful goal selection, and updates the active-goal utility
// gauge. previous is the goal the arbiter held before this selection, if
// any; it is reported as the switch's "from".
func (l *Loop) reportGoalSelection(previous *goap.Goal, selection goap.Selection) {
	if l.diag.Metrics != nil {
		l.diag.Metrics.GoalSwitches.WithLabelValues(l.agentID, selection.Reason.String()).Inc()
		l.diag.Metrics.ActiveGoal.WithLabelValues(l.agentID, selection.Goal.Name).Set(selection.Utility)
	}
	if l.diag.Events != nil {
		from := "none"
		if previous != nil {
			from = previous.Name
		}
		l.diag.Events.GoalSwitch(l.agentID, from, selection.Goal.Name, selection.Reason.String())
	}
}

// reportActionOutcome emits the action-outcome metric and, on a failure,
// the diagnostic event for the action the executor just ran this tick.
// No-op if the tick did not touch an action (idle, or plan exhausted).
func (l *Loop) reportActionOutcome(action *goap.Action, before, after goap.ExecutorStats) {
	if action == nil || after.ActionsExecuted == before.ActionsExecuted {
		return
	}

	result := "running"
	switch {
	case after.ActionsSucceeded > before.ActionsSucceeded:
		result = "success"
	case after.ActionsFailed > before.ActionsFailed:
		result = "failure"
	}

	if l.diag.Metrics != nil {
		l.diag.Metrics.ActionOutcomes.WithLabelValues(l.agentID, action.Name, result).Inc()
	}
	if result == "failure" && l.diag.Events != nil {
		l.diag.Events.ActionFailure(l.agentID, action.Name, l.executor.ConsecutiveFailures())
	}
}

// refreshStatus recomputes the cached status/stats/goal-report values
// from engine state. Only ever called from within a tick, so the reads
// from planner/arbiter/executor/blackboard below never race a concurrent
// writer; the lock only guards the cached copies against the control
// API's HTTP goroutine, which reads them through Status/Stats/GoalReport.
func (l *Loop) refreshStatus() {
	status := l.executor.Status()
	stats := LoopStats{
		Executor:        l.executor.Stats(),
		ConsecutiveIdle: l.role.Blackboard.ConsecutiveIdleTicks(),
	}
	if goal := l.arbiter.CurrentGoal(); goal != nil {
		stats.CurrentGoal = goal.Name
		stats.GoalUtility = l.arbiter.CurrentUtility()
		status = fmt.Sprintf("%s[goal=%s]", status, goal.Name)
	}

	l.mu.Lock()
	report := "no plan yet"
	if l.lastPlanGoal != "" {
		report = fmt.Sprintf("goal=%s plan=%s cost=%.2f", l.lastPlanGoal, strings.Join(l.lastPlanActions, "->"), l.lastPlanCost)
	}
	l.statusText = status
	l.stats = stats
	l.goalReport = report
	l.mu.Unlock()
}

// Status implements the agent role's getStatus() surface: a short
// human-readable description of current activity.
func (l *Loop) Status() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statusText
}

// Stats implements the agent role's getStats() surface: the executor's
// running counters plus the arbiter's currently selected goal.
func (l *Loop) Stats() LoopStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// GoalReport implements the agent role's getGoalReport() surface: a
// human-readable summary of the most recent plan the loop loaded.
func (l *Loop) GoalReport() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.goalReport
}

// planActionNames extracts action names from a plan, for diagnostics
// (events, persistence) that must not hold onto *goap.Action pointers.
func planActionNames(plan []*goap.Action) []string {
	names := make([]string, len(plan))
	for i, a := range plan {
		names[i] = a.Name
	}
	return names
}
