// internal/game/turns_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func orderOf(seats ...string) *TurnOrder {
	o := NewTurnOrder()
	for _, s := range seats {
		o.Append(s)
	}
	return o
}

func TestNextForwardWrapsAround(t *testing.T) {
	o := orderOf("a", "b", "c")

	assert.Equal(t, "b", o.Next("a", false))
	assert.Equal(t, "c", o.Next("b", false))
	assert.Equal(t, "a", o.Next("c", false))
}

func TestNextBackwardWrapsToLast(t *testing.T) {
	o := orderOf("a", "b", "c")
	o.Reverse()

	assert.Equal(t, "c", o.Next("a", false))
	assert.Equal(t, "a", o.Next("b", false))
	assert.Equal(t, "b", o.Next("c", false))
}

func TestNextWithSkip(t *testing.T) {
	o := orderOf("a", "b", "c")

	assert.Equal(t, "c", o.Next("a", true))
	assert.Equal(t, "a", o.Next("b", true))

	o.Reverse()
	assert.Equal(t, "b", o.Next("a", true), "backward skip wraps over the last seat")
}

func TestNextSkipWithTwoSeatsReturnsCurrent(t *testing.T) {
	o := orderOf("a", "b")

	assert.Equal(t, "a", o.Next("a", true))
	assert.Equal(t, "b", o.Next("b", true))
}

func TestNextMissingCurrentAnchorsAtFirst(t *testing.T) {
	o := orderOf("a", "b", "c")

	assert.Equal(t, "b", o.Next("gone", false), "a removed current seat resolves relative to position 0")

	o.Reverse()
	assert.Equal(t, "c", o.Next("gone", false))
}

func TestNextEmptyOrder(t *testing.T) {
	o := NewTurnOrder()
	assert.Equal(t, "", o.Next("a", false))
	assert.Equal(t, "", o.First())
}

func TestRemovePreservesRelativeOrder(t *testing.T) {
	o := orderOf("a", "b", "c", "d")
	o.Remove("b")

	assert.Equal(t, []string{"a", "c", "d"}, o.Seats())
	assert.Equal(t, 3, o.Len())
	assert.False(t, o.Contains("b"))
	assert.Equal(t, "d", o.Next("c", false))
}

func TestRemoveUnknownSeatIsNoOp(t *testing.T) {
	o := orderOf("a", "b")
	o.Remove("zzz")
	assert.Equal(t, []string{"a", "b"}, o.Seats())
}

func TestReplaceKeepsPosition(t *testing.T) {
	o := orderOf("a", "b", "c")
	o.Replace("b", "b2")

	assert.Equal(t, []string{"a", "b2", "c"}, o.Seats())
	assert.Equal(t, "b2", o.Next("a", false))
	assert.Equal(t, "c", o.Next("b2", false))
}

func TestReverseAndReset(t *testing.T) {
	o := orderOf("a", "b")
	assert.Equal(t, 1, o.Direction())
	o.Reverse()
	assert.Equal(t, -1, o.Direction())
	o.Reverse()
	assert.Equal(t, 1, o.Direction())
	o.Reverse()
	o.ResetDirection()
	assert.Equal(t, 1, o.Direction())
}
