// Package config loads the agent's component configuration from the
// environment, following cmd/game-server's os.Getenv-with-fallback idiom.
// No config file format or flag parser is introduced.
package config

import (
	"os"
	"strconv"
	"time"

	"goap-agent/internal/goap"
)

// LoopConfig tunes the agent loop's tick cadence, planning cooldown, and
// how long a perceived WorldState snapshot stays cached for the control
// API to read.
type LoopConfig struct {
	TickInterval     time.Duration
	PlanningCooldown time.Duration
	SnapshotTTL      time.Duration
}

const (
	defaultTickIntervalMS     = 100
	defaultPlanningCooldownMS = 5000
	defaultSnapshotTTLMS      = 30000
)

// Components bundles every tunable block the agent loop wires together.
type Components struct {
	Planner  goap.PlannerConfig
	Arbiter  goap.ArbiterConfig
	Executor goap.ExecutorConfig
	Loop     LoopConfig
}

// Load reads all four component config blocks from the environment,
// applying the documented defaults for anything unset or unparsable.
func Load() Components {
	return Components{
		Planner: goap.PlannerConfig{
			MaxIterations:               getInt("GOAP_PLANNER_MAX_ITERATIONS", 1000),
			Debug:                       getBool("GOAP_PLANNER_DEBUG", false),
			AverageActionCost:           getFloat("GOAP_PLANNER_AVERAGE_ACTION_COST", 3.0),
			UnsatisfiedConditionPenalty: getFloat("GOAP_PLANNER_UNSATISFIED_PENALTY", 5.0),
		},
		Arbiter: goap.ArbiterConfig{
			Hysteresis:          getFloat("GOAP_ARBITER_HYSTERESIS", 0.2),
			PreemptionThreshold: getFloat("GOAP_ARBITER_PREEMPTION_THRESHOLD", 30.0),
		},
		Executor: goap.ExecutorConfig{
			MaxConsecutiveFailures: getInt("GOAP_EXECUTOR_MAX_CONSECUTIVE_FAILURES", 3),
			DriftThreshold:         getInt("GOAP_EXECUTOR_DRIFT_THRESHOLD", 5),
		},
		Loop: LoopConfig{
			TickInterval:     time.Duration(getInt("GOAP_LOOP_TICK_INTERVAL_MS", defaultTickIntervalMS)) * time.Millisecond,
			PlanningCooldown: time.Duration(getInt("GOAP_LOOP_PLANNING_COOLDOWN_MS", defaultPlanningCooldownMS)) * time.Millisecond,
			SnapshotTTL:      time.Duration(getInt("GOAP_LOOP_SNAPSHOT_TTL_MS", defaultSnapshotTTLMS)) * time.Millisecond,
		},
	}
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
