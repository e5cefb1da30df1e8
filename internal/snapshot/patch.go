package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/aetherforge/internal/document"
)

// Patch is an ordered change list from one snapshot state to another,
// stamped with the target version and a checksum of the state the changes
// produce. The checksum is the sole admission gate for optimistic
// multi-writer replay: a patch diffed against a stale base fails it.
type Patch struct {
	ID          string    `json:"id"`
	CharacterID string    `json:"characterId"`
	Version     string    `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	Changes     []Change  `json:"changes"`
	Checksum    string    `json:"checksum"`
}

// CreatePatch diffs old against new and bundles the changes with the new
// state's version and checksum. The patch id is a UUIDv7 so journaled
// patches sort by creation time.
func CreatePatch(oldDoc, newDoc document.Object, now time.Time) (Patch, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Patch{}, fmt.Errorf("snapshot: patch id: %w", err)
	}

	characterID, ok := newDoc["id"].(document.String)
	if !ok {
		return Patch{}, newError(ErrCodeMalformedSnapshot, "new state has no id")
	}
	version, ok := newDoc["version"].(document.String)
	if !ok {
		return Patch{}, newError(ErrCodeMalformedSnapshot, "new state has no version")
	}

	sum, err := document.Checksum(newDoc)
	if err != nil {
		return Patch{}, fmt.Errorf("snapshot: checksum new state: %w", err)
	}

	return Patch{
		ID:          id.String(),
		CharacterID: string(characterID),
		Version:     string(version),
		Timestamp:   now.UTC().Truncate(time.Second),
		Changes:     TrackChanges(oldDoc, newDoc),
		Checksum:    sum,
	}, nil
}

// ApplyPatch replays a patch against a state: the state is deep-cloned,
// each change is applied by its structured path, and the result's checksum
// must equal the patch's declared checksum or the whole application is
// rejected. The input state is never modified.
func ApplyPatch(state document.Object, patch Patch) (document.Object, error) {
	out := document.CloneObject(state)

	for _, change := range patch.Changes {
		var err error
		switch change.Type {
		case ChangeDelete, ChangeRemove:
			err = removeAtPath(out, change.Path)
		case ChangeCreate, ChangeUpdate, ChangeAdd:
			err = setAtPath(out, change.Path, change.New)
		default:
			err = newError(ErrCodeMalformedSnapshot, "unknown change type %q", change.Type)
		}
		if err != nil {
			return nil, err
		}
	}

	sum, err := document.Checksum(out)
	if err != nil {
		return nil, fmt.Errorf("snapshot: checksum patched state: %w", err)
	}
	if sum != patch.Checksum {
		return nil, newError(ErrCodeChecksumMismatch,
			"patched state checksum %s does not match declared %s", sum, patch.Checksum)
	}

	return out, nil
}

// setAtPath writes a value at a structured path. Every intermediate step
// must already exist; a final field step may create its key, and a final
// index step equal to the array length appends.
func setAtPath(root document.Object, p document.Path, v document.Value) error {
	if len(p) == 0 {
		return newError(ErrCodeUnknownPath, "empty change path")
	}
	_, err := setValue(root, p, v)
	return err
}

func setValue(cur document.Value, p document.Path, v document.Value) (document.Value, error) {
	if len(p) == 0 {
		return v, nil
	}

	step := p[0]
	switch step.Kind {
	case document.StepField:
		obj, ok := cur.(document.Object)
		if !ok {
			return nil, newError(ErrCodeUnknownPath, "field %q: parent is not an object", step.Field)
		}
		child, present := obj[step.Field]
		if !present && len(p) > 1 {
			return nil, newError(ErrCodeUnknownPath, "field %q does not exist", step.Field)
		}
		next, err := setValue(child, p[1:], v)
		if err != nil {
			return nil, err
		}
		obj[step.Field] = next
		return obj, nil

	case document.StepIndex:
		arr, ok := cur.(document.Array)
		if !ok {
			return nil, newError(ErrCodeUnknownPath, "index %d: parent is not an array", step.Index)
		}
		if step.Index == len(arr) && len(p) == 1 {
			return append(arr, v), nil
		}
		if step.Index < 0 || step.Index >= len(arr) {
			return nil, newError(ErrCodeUnknownPath, "index %d out of range [0,%d)", step.Index, len(arr))
		}
		next, err := setValue(arr[step.Index], p[1:], v)
		if err != nil {
			return nil, err
		}
		arr[step.Index] = next
		return arr, nil
	}

	return nil, newError(ErrCodeUnknownPath, "unknown path step kind")
}

// removeAtPath deletes the value at a structured path: object keys are
// removed, array elements are spliced out.
func removeAtPath(root document.Object, p document.Path) error {
	if len(p) == 0 {
		return newError(ErrCodeUnknownPath, "empty change path")
	}
	_, err := removeValue(root, p)
	return err
}

func removeValue(cur document.Value, p document.Path) (document.Value, error) {
	step := p[0]
	switch step.Kind {
	case document.StepField:
		obj, ok := cur.(document.Object)
		if !ok {
			return nil, newError(ErrCodeUnknownPath, "field %q: parent is not an object", step.Field)
		}
		child, present := obj[step.Field]
		if !present {
			return nil, newError(ErrCodeUnknownPath, "field %q does not exist", step.Field)
		}
		if len(p) == 1 {
			delete(obj, step.Field)
			return obj, nil
		}
		next, err := removeValue(child, p[1:])
		if err != nil {
			return nil, err
		}
		obj[step.Field] = next
		return obj, nil

	case document.StepIndex:
		arr, ok := cur.(document.Array)
		if !ok {
			return nil, newError(ErrCodeUnknownPath, "index %d: parent is not an array", step.Index)
		}
		if step.Index < 0 || step.Index >= len(arr) {
			return nil, newError(ErrCodeUnknownPath, "index %d out of range [0,%d)", step.Index, len(arr))
		}
		if len(p) == 1 {
			out := make(document.Array, 0, len(arr)-1)
			out = append(out, arr[:step.Index]...)
			out = append(out, arr[step.Index+1:]...)
			return out, nil
		}
		next, err := removeValue(arr[step.Index], p[1:])
		if err != nil {
			return nil, err
		}
		arr[step.Index] = next
		return arr, nil
	}

	return nil, newError(ErrCodeUnknownPath, "unknown path step kind")
}

// changeWire is the JSON form of a Change: the path in its dotted wire
// form, the values as plain JSON.
type changeWire struct {
	Path string     `json:"path"`
	Type ChangeType `json:"type"`
	Old  any        `json:"oldValue,omitempty"`
	New  any        `json:"newValue,omitempty"`
}

// MarshalJSON renders the change with its path in wire form.
func (c Change) MarshalJSON() ([]byte, error) {
	w := changeWire{Path: c.Path.String(), Type: c.Type}
	if c.Old != nil {
		w.Old = document.ToGo(c.Old)
	}
	if c.New != nil {
		w.New = document.ToGo(c.New)
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the wire form back into a structured change.
func (c *Change) UnmarshalJSON(data []byte) error {
	var w changeWire
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return err
	}

	path, err := document.ParsePath(w.Path)
	if err != nil {
		return fmt.Errorf("change path: %w", err)
	}

	out := Change{Path: path, Type: w.Type}
	if w.Old != nil {
		if out.Old, err = document.FromGo(w.Old); err != nil {
			return fmt.Errorf("change oldValue: %w", err)
		}
	}
	if w.New != nil {
		if out.New, err = document.FromGo(w.New); err != nil {
			return fmt.Errorf("change newValue: %w", err)
		}
	}

	*c = out
	return nil
}

// EncodePatch renders a patch as JSON for journaling or transport.
func EncodePatch(p Patch) ([]byte, error) {
	return json.Marshal(p)
}

// DecodePatch parses a journaled patch.
func DecodePatch(data []byte) (Patch, error) {
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return Patch{}, newError(ErrCodeMalformedSnapshot, "decode patch: %v", err)
	}
	return p, nil
}
