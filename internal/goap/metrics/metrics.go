// Package metrics holds the prometheus collectors the planner, arbiter,
// executor, and agent loop report into.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every prometheus collector the goap engine reports into.
type Metrics struct {
	PlanSearchDuration *prometheus.HistogramVec
	PlanNodesExplored  *prometheus.HistogramVec
	PlanOutcomes       *prometheus.CounterVec
	ReplansByReason    *prometheus.CounterVec
	ActionOutcomes     *prometheus.CounterVec
	GoalSwitches       *prometheus.CounterVec
	ActiveGoal         *prometheus.GaugeVec
}

// NewMetrics initializes and returns a new Metrics struct. Collectors are
// labeled by agent_id so a single registry can serve many concurrent
// agents.
func NewMetrics() *Metrics {
	return &Metrics{
		PlanSearchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "goap_plan_search_duration_seconds",
			Help:    "Wall time spent in one planner.Plan call",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}, []string{"agent_id", "goal"}),
		PlanNodesExplored: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "goap_plan_nodes_explored",
			Help:    "Nodes dequeued during one planner.Plan call",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
		}, []string{"agent_id", "goal"}),
		PlanOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goap_plan_outcomes_total",
			Help: "Planner outcomes by success/failure",
		}, []string{"agent_id", "goal", "outcome"}),
		ReplansByReason: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goap_replans_total",
			Help: "Executor-requested replans by reason",
		}, []string{"agent_id", "reason"}),
		ActionOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goap_action_outcomes_total",
			Help: "Action execution outcomes",
		}, []string{"agent_id", "action", "result"}),
		GoalSwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goap_goal_switches_total",
			Help: "Arbiter goal selections by reason",
		}, []string{"agent_id", "reason"}),
		ActiveGoal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "goap_active_goal_utility",
			Help: "Utility of the agent's current goal",
		}, []string{"agent_id", "goal"}),
	}
}

// Register registers all metrics with the provided registry.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.PlanSearchDuration,
		m.PlanNodesExplored,
		m.PlanOutcomes,
		m.ReplansByReason,
		m.ActionOutcomes,
		m.GoalSwitches,
		m.ActiveGoal,
	)
}
