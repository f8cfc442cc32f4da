package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PriorityOrder(t *testing.T) {
	low := newFakeEvaluator("low", 10)
	high := newFakeEvaluator("high", 90)
	mid := newFakeEvaluator("mid", 50)

	reg := NewRegistry(nil, low, high, mid)

	names := make([]string, 0, 3)
	for _, ev := range reg.Evaluators() {
		names = append(names, ev.Name())
	}
	assert.Equal(t, []string{"high", "mid", "low"}, names)
}

func TestRegistry_StableTieOrder(t *testing.T) {
	first := newFakeEvaluator("first", 50)
	second := newFakeEvaluator("second", 50)
	third := newFakeEvaluator("third", 50)

	reg := NewRegistry(nil, first, second, third)

	names := make([]string, 0, 3)
	for _, ev := range reg.Evaluators() {
		names = append(names, ev.Name())
	}
	assert.Equal(t, []string{"first", "second", "third"}, names)
}

func TestRegistry_EnabledEvaluators(t *testing.T) {
	on := newFakeEvaluator("on", 50)
	off := newFakeEvaluator("off", 90)
	off.enabled = false

	reg := NewRegistry(nil, on, off)

	enabled := reg.EnabledEvaluators()
	require.Len(t, enabled, 1)
	assert.Equal(t, "on", enabled[0].Name())
}

func TestRegistry_OwnerOf(t *testing.T) {
	genre := newFakeEvaluator("genre", 70, "genre")
	year := newFakeEvaluator("year", 55, "year")

	reg := NewRegistry(nil, genre, year)

	owner := reg.OwnerOf("year")
	require.NotNil(t, owner)
	assert.Equal(t, "year", owner.Name())

	assert.Nil(t, reg.OwnerOf("nosuchfield"))
}

func TestRegistry_OwnerOf_HighestPriorityWins(t *testing.T) {
	loser := newFakeEvaluator("loser", 10, "genre")
	winner := newFakeEvaluator("winner", 90, "genre")

	reg := NewRegistry(nil, loser, winner)

	owner := reg.OwnerOf("genre")
	require.NotNil(t, owner)
	assert.Equal(t, "winner", owner.Name())
}

func TestRegistry_OwnerOf_SkipsDisabled(t *testing.T) {
	disabled := newFakeEvaluator("disabled", 90, "genre")
	disabled.enabled = false
	fallback := newFakeEvaluator("fallback", 10, "genre")

	reg := NewRegistry(nil, disabled, fallback)

	owner := reg.OwnerOf("genre")
	require.NotNil(t, owner)
	assert.Equal(t, "fallback", owner.Name())
}

func TestRegistry_OwnerOf_Cached(t *testing.T) {
	ev := newFakeEvaluator("genre", 70, "genre")
	reg := NewRegistry(nil, ev)

	for i := 0; i < 5; i++ {
		require.NotNil(t, reg.OwnerOf("genre"))
	}
	assert.Equal(t, 1, ev.fieldCalls)

	// Negative lookups cache too.
	for i := 0; i < 5; i++ {
		assert.Nil(t, reg.OwnerOf("unknown"))
	}
	assert.Equal(t, 2, ev.fieldCalls)
}

func TestRegistry_Metadata(t *testing.T) {
	on := newFakeEvaluator("on", 70)
	off := newFakeEvaluator("off", 90)
	off.enabled = false

	reg := NewRegistry(nil, on, off)

	meta := reg.Metadata()
	require.Len(t, meta, 1)
	assert.Equal(t, "on", meta[0].Name)
}
