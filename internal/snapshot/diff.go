package snapshot

import "github.com/roach88/aetherforge/internal/document"

// ChangeType classifies one entry in a structural diff.
type ChangeType string

const (
	// ChangeCreate introduces an object key absent in the old state.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate replaces a value present in both states.
	ChangeUpdate ChangeType = "update"
	// ChangeDelete removes an object key absent in the new state.
	ChangeDelete ChangeType = "delete"
	// ChangeAdd appends an array element past the old length.
	ChangeAdd ChangeType = "add"
	// ChangeRemove drops an array element past the new length.
	ChangeRemove ChangeType = "remove"
)

// Change is one entry in a patch: a structured path plus the value
// transition at that location.
type Change struct {
	Path document.Path
	Type ChangeType
	Old  document.Value
	New  document.Value
}

// TrackChanges computes the recursive structural diff between two snapshot
// documents. Primitives compare by value; objects recurse per key in
// canonical key order, so the change list is deterministic for a given
// input pair.
//
// Arrays are diffed positionally by index: element i of the old array is
// compared to element i of the new one, with add/remove entries for the
// length difference. A reordering therefore reports as N updates rather
// than a move. This mirrors the diff semantics the snapshot format was
// built around and is kept deliberately; see DESIGN.md.
func TrackChanges(oldDoc, newDoc document.Object) []Change {
	return diffObject(nil, oldDoc, newDoc)
}

func diffObject(prefix document.Path, oldObj, newObj document.Object) []Change {
	union := make(document.Object, len(oldObj)+len(newObj))
	for k := range oldObj {
		union[k] = document.Null{}
	}
	for k := range newObj {
		union[k] = document.Null{}
	}

	var changes []Change
	for _, key := range union.SortedKeys() {
		path := prefix.Child(key)
		oldVal, inOld := oldObj[key]
		newVal, inNew := newObj[key]

		switch {
		case !inOld:
			changes = append(changes, Change{Path: path, Type: ChangeCreate, New: newVal})
		case !inNew:
			changes = append(changes, Change{Path: path, Type: ChangeDelete, Old: oldVal})
		default:
			changes = append(changes, diffValue(path, oldVal, newVal)...)
		}
	}
	return changes
}

func diffValue(path document.Path, oldVal, newVal document.Value) []Change {
	switch ov := oldVal.(type) {
	case document.Object:
		if nv, ok := newVal.(document.Object); ok {
			return diffObject(path, ov, nv)
		}
	case document.Array:
		if nv, ok := newVal.(document.Array); ok {
			return diffArray(path, ov, nv)
		}
	}

	if document.Equal(oldVal, newVal) {
		return nil
	}
	return []Change{{Path: path, Type: ChangeUpdate, Old: oldVal, New: newVal}}
}

func diffArray(path document.Path, oldArr, newArr document.Array) []Change {
	var changes []Change

	shared := min(len(oldArr), len(newArr))
	for i := range shared {
		changes = append(changes, diffValue(path.At(i), oldArr[i], newArr[i])...)
	}

	for i := shared; i < len(newArr); i++ {
		changes = append(changes, Change{Path: path.At(i), Type: ChangeAdd, New: newArr[i]})
	}

	// Removals run highest index first so replaying them in order never
	// shifts a later target.
	for i := len(oldArr) - 1; i >= shared; i-- {
		changes = append(changes, Change{Path: path.At(i), Type: ChangeRemove, Old: oldArr[i]})
	}

	return changes
}
