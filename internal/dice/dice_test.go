package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPCG_Deterministic tests that equal seeds produce equal sequences.
func TestPCG_Deterministic(t *testing.T) {
	a := NewPCG(42)
	b := NewPCG(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Percent(), b.Percent())
		assert.Equal(t, a.Roll(4), b.Roll(4))
	}
}

// TestPCG_Ranges tests roll bounds.
func TestPCG_Ranges(t *testing.T) {
	src := NewPCG(7)

	for i := 0; i < 1000; i++ {
		p := src.Percent()
		require.GreaterOrEqual(t, p, 1)
		require.LessOrEqual(t, p, 100)

		r := src.Roll(4)
		require.GreaterOrEqual(t, r, 1)
		require.LessOrEqual(t, r, 4)
	}
}

// TestPCG_InvalidDie tests the fail-fast panic on nonsense dice.
func TestPCG_InvalidDie(t *testing.T) {
	src := NewPCG(1)
	assert.Panics(t, func() { src.Roll(0) })
}

// TestScripted_ReturnsInOrder tests scripted roll consumption.
func TestScripted_ReturnsInOrder(t *testing.T) {
	src := NewScripted(87, 3, 12)

	assert.Equal(t, 87, src.Percent())
	assert.Equal(t, 3, src.Roll(4))
	assert.Equal(t, 12, src.Percent())
}

// TestScripted_PanicsWhenExhausted tests the fail-fast exhaustion behavior.
func TestScripted_PanicsWhenExhausted(t *testing.T) {
	src := NewScripted(50)
	src.Percent()

	assert.Panics(t, func() { src.Percent() })
}
