// Package goap implements a Goal-Oriented Action Planning engine: a
// symbolic world-state store, an A* action planner, a utility-based goal
// arbiter, and a plan executor with replan signalling. Callers compose
// these through agent.Loop, the single per-agent control loop in
// internal/agent/loop.go.
package goap
