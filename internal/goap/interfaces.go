package goap

import "context"

// Bot is an opaque handle to the external game client. The engine never
// inspects it; it is threaded through to Action.Execute for the action
// implementation's own use.
type Bot interface{}

// Blackboard is an opaque, role-specific scratchpad carrying perception
// results and inter-action state. The engine requires exactly one convention
// from it: a mutable idle-tick counter the Agent Loop increments when a
// tick does not execute a successful action.
type Blackboard interface {
	// ConsecutiveIdleTicks returns the current idle-tick count.
	ConsecutiveIdleTicks() int
	// SetConsecutiveIdleTicks overwrites the idle-tick count.
	SetConsecutiveIdleTicks(n int)
}

// Client is the external game-network client. The Agent Loop's
// connectivity gate reads it each tick before perceiving or planning; the
// engine never calls into it beyond these two checks.
type Client interface {
	Connected() bool
	AvatarSpawned() bool
}

// Perceiver produces a fresh WorldState projection once per tick from the
// role's blackboard, and drives the blackboard's own perception refresh.
// Both are external collaborators; the engine only calls them.
type Perceiver interface {
	// UpdateBlackboard refreshes bb from the live bot/world before
	// ProjectWorldState is called.
	UpdateBlackboard(ctx context.Context, bot Bot, bb Blackboard) error
	// ProjectWorldState is a pure projection from bot+blackboard state to
	// the symbolic WorldState the planner/arbiter/executor operate on.
	ProjectWorldState(bot Bot, bb Blackboard) *WorldState
}
