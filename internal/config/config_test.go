package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultsWhenEnvUnset(t *testing.T) {
	c := Load()

	assert.Equal(t, 1000, c.Planner.MaxIterations)
	assert.Equal(t, 0.2, c.Arbiter.Hysteresis)
	assert.Equal(t, 30.0, c.Arbiter.PreemptionThreshold)
	assert.Equal(t, 3, c.Executor.MaxConsecutiveFailures)
	assert.Equal(t, 5, c.Executor.DriftThreshold)
	assert.Equal(t, 100*time.Millisecond, c.Loop.TickInterval)
	assert.Equal(t, 5000*time.Millisecond, c.Loop.PlanningCooldown)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("GOAP_PLANNER_MAX_ITERATIONS", "500")
	t.Setenv("GOAP_ARBITER_HYSTERESIS", "0.35")
	t.Setenv("GOAP_EXECUTOR_DRIFT_THRESHOLD", "8")
	t.Setenv("GOAP_LOOP_TICK_INTERVAL_MS", "250")

	c := Load()

	assert.Equal(t, 500, c.Planner.MaxIterations)
	assert.Equal(t, 0.35, c.Arbiter.Hysteresis)
	assert.Equal(t, 8, c.Executor.DriftThreshold)
	assert.Equal(t, 250*time.Millisecond, c.Loop.TickInterval)
}

func TestLoad_UnparsableEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("GOAP_PLANNER_MAX_ITERATIONS", "not-a-number")

	c := Load()

	assert.Equal(t, 1000, c.Planner.MaxIterations)
}
