package goap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorldState_GetDefaults(t *testing.T) {
	ws := NewWorldState()

	assert.True(t, ws.Get("missing").IsAbsent())
	assert.Equal(t, float64(0), ws.GetNumber("missing"))
	assert.False(t, ws.GetBool("missing"))

	ws.Set("inv.logs", String("two"))
	assert.Equal(t, float64(0), ws.GetNumber("inv.logs"), "non-numeric fact defaults GetNumber to 0")
	assert.False(t, ws.GetBool("inv.logs"), "non-boolean fact defaults GetBool to false")
}

func TestWorldState_SetAndClear(t *testing.T) {
	ws := NewWorldState()
	ws.Set("has.axe", Bool(true))
	assert.True(t, ws.GetBool("has.axe"))

	ws.Clear("has.axe")
	assert.True(t, ws.Get("has.axe").IsAbsent())
	assert.False(t, ws.GetBool("has.axe"))
}

func TestWorldState_CloneIsIndependent(t *testing.T) {
	ws := NewWorldState()
	ws.Set("nearby.drops", Number(5))

	clone := ws.Clone()
	assert.Equal(t, 0, ws.Diff(clone), "clone must be structurally equal to the original")

	clone.Set("nearby.drops", Number(0))
	assert.Equal(t, float64(5), ws.GetNumber("nearby.drops"), "mutating the clone must not affect the original")
	assert.Equal(t, float64(0), clone.GetNumber("nearby.drops"))
}

func TestWorldState_DiffIsSymmetricAndZeroForSelf(t *testing.T) {
	a := NewWorldState()
	a.Set("a", Number(1))
	a.Set("b", Bool(true))

	assert.Equal(t, 0, a.Diff(a))
	assert.Equal(t, 0, a.Diff(a.Clone()))

	b := a.Clone()
	b.Set("b", Bool(false))
	b.Set("c", String("new"))

	assert.Equal(t, a.Diff(b), b.Diff(a))
	assert.Equal(t, 2, a.Diff(b), "b differs from a and c is present only in b")
}
