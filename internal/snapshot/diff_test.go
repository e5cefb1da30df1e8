package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aetherforge/internal/document"
)

// TestTrackChanges_EqualDocuments tests that identical states diff to an
// empty change list.
func TestTrackChanges_EqualDocuments(t *testing.T) {
	doc := document.Object{
		"id":    document.String("chr-1"),
		"level": document.Int(6),
	}

	assert.Empty(t, TrackChanges(doc, document.CloneObject(doc)))
}

// TestTrackChanges_CreateUpdateDelete tests the three object-key change
// kinds in one diff.
func TestTrackChanges_CreateUpdateDelete(t *testing.T) {
	oldDoc := document.Object{
		"level": document.Int(6),
		"name":  document.String("Vessa"),
	}
	newDoc := document.Object{
		"level": document.Int(7),
		"title": document.String("Coilwright"),
	}

	changes := TrackChanges(oldDoc, newDoc)
	require.Len(t, changes, 3)

	// Canonical key order: level, name, title.
	assert.Equal(t, "level", changes[0].Path.String())
	assert.Equal(t, ChangeUpdate, changes[0].Type)
	assert.Equal(t, document.Int(6), changes[0].Old)
	assert.Equal(t, document.Int(7), changes[0].New)

	assert.Equal(t, "name", changes[1].Path.String())
	assert.Equal(t, ChangeDelete, changes[1].Type)
	assert.Equal(t, document.String("Vessa"), changes[1].Old)

	assert.Equal(t, "title", changes[2].Path.String())
	assert.Equal(t, ChangeCreate, changes[2].Type)
	assert.Equal(t, document.String("Coilwright"), changes[2].New)
}

// TestTrackChanges_NestedObjectPaths tests the diff recurses and reports
// leaf paths, not whole-subtree updates.
func TestTrackChanges_NestedObjectPaths(t *testing.T) {
	oldDoc := document.Object{
		"hitPoints": document.Object{
			"pool": document.Object{
				"current": document.Int(40),
				"maximum": document.Int(52),
			},
		},
	}
	newDoc := document.Object{
		"hitPoints": document.Object{
			"pool": document.Object{
				"current": document.Int(31),
				"maximum": document.Int(52),
			},
		},
	}

	changes := TrackChanges(oldDoc, newDoc)
	require.Len(t, changes, 1)
	assert.Equal(t, "hitPoints.pool.current", changes[0].Path.String())
	assert.Equal(t, ChangeUpdate, changes[0].Type)
}

// TestTrackChanges_ArrayGrowth tests index-addressed add entries.
func TestTrackChanges_ArrayGrowth(t *testing.T) {
	oldDoc := document.Object{
		"events": document.Array{document.Int(1)},
	}
	newDoc := document.Object{
		"events": document.Array{document.Int(1), document.Int(2), document.Int(3)},
	}

	changes := TrackChanges(oldDoc, newDoc)
	require.Len(t, changes, 2)
	assert.Equal(t, "events[1]", changes[0].Path.String())
	assert.Equal(t, ChangeAdd, changes[0].Type)
	assert.Equal(t, "events[2]", changes[1].Path.String())
	assert.Equal(t, ChangeAdd, changes[1].Type)
}

// TestTrackChanges_ArrayShrinkRemovesHighestFirst tests removals are
// ordered so sequential replay never shifts a pending target.
func TestTrackChanges_ArrayShrinkRemovesHighestFirst(t *testing.T) {
	oldDoc := document.Object{
		"events": document.Array{document.Int(1), document.Int(2), document.Int(3)},
	}
	newDoc := document.Object{
		"events": document.Array{document.Int(1)},
	}

	changes := TrackChanges(oldDoc, newDoc)
	require.Len(t, changes, 2)
	assert.Equal(t, "events[2]", changes[0].Path.String())
	assert.Equal(t, ChangeRemove, changes[0].Type)
	assert.Equal(t, "events[1]", changes[1].Path.String())
	assert.Equal(t, ChangeRemove, changes[1].Type)
}

// TestTrackChanges_ArrayReorderReportsUpdates tests the positional diff
// limitation: a pure reordering reports as per-index updates, not a move.
func TestTrackChanges_ArrayReorderReportsUpdates(t *testing.T) {
	oldDoc := document.Object{
		"events": document.Array{document.String("a"), document.String("b")},
	}
	newDoc := document.Object{
		"events": document.Array{document.String("b"), document.String("a")},
	}

	changes := TrackChanges(oldDoc, newDoc)
	require.Len(t, changes, 2)
	for _, c := range changes {
		assert.Equal(t, ChangeUpdate, c.Type)
	}
}

// TestTrackChanges_TypeChangeIsSingleUpdate tests that a value changing
// kind (object to primitive) reports one update of the whole subtree.
func TestTrackChanges_TypeChangeIsSingleUpdate(t *testing.T) {
	oldDoc := document.Object{
		"recovery": document.Object{"recoveryDuration": document.Int(30)},
	}
	newDoc := document.Object{
		"recovery": document.Null{},
	}

	changes := TrackChanges(oldDoc, newDoc)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeUpdate, changes[0].Type)
	assert.Equal(t, "recovery", changes[0].Path.String())
}
