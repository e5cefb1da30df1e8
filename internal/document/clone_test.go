package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestClone_DeepCopy tests that mutating a clone never affects the original.
func TestClone_DeepCopy(t *testing.T) {
	orig := Object{
		"hitPoints": Object{"current": Int(10), "maximum": Int(10)},
		"log":       Array{Object{"amount": Int(2)}},
	}

	cloned := CloneObject(orig)
	cloned["hitPoints"].(Object)["current"] = Int(3)
	cloned["log"].(Array)[0].(Object)["amount"] = Int(99)

	assert.Equal(t, Int(10), orig["hitPoints"].(Object)["current"])
	assert.Equal(t, Int(2), orig["log"].(Array)[0].(Object)["amount"])
}

// TestClone_Equality tests that a clone is structurally equal to its source.
func TestClone_Equality(t *testing.T) {
	orig := Object{
		"id":   String("chr-1"),
		"flags": Array{Bool(true), Null{}},
	}

	assert.True(t, Equal(orig, Clone(orig)))
}
