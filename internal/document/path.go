package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is one hop in a document path: either an object field or an array
// index. Paths are structured sequences rather than parsed strings so that
// patch application never re-parses "a.b[2].c" at replay time.
type Step struct {
	// Field is the object key when Kind is StepField.
	Field string
	// Index is the array position when Kind is StepIndex.
	Index int
	// Kind discriminates field vs index steps.
	Kind StepKind
}

// StepKind identifies the step variant.
type StepKind int

const (
	// StepField addresses an object member by key.
	StepField StepKind = iota
	// StepIndex addresses an array element by position.
	StepIndex
)

// Path addresses a location inside a snapshot document.
type Path []Step

// FieldStep creates an object-field step.
func FieldStep(name string) Step {
	return Step{Field: name, Kind: StepField}
}

// IndexStep creates an array-index step.
func IndexStep(i int) Step {
	return Step{Index: i, Kind: StepIndex}
}

// Child returns a new path extended by one field step.
// The receiver is not modified.
func (p Path) Child(field string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, FieldStep(field))
}

// At returns a new path extended by one index step.
// The receiver is not modified.
func (p Path) At(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, IndexStep(i))
}

// String renders the wire form: dotted fields with bracketed indexes,
// e.g. "heatStress.recentAccumulation[2].amount".
func (p Path) String() string {
	var b strings.Builder
	for i, step := range p {
		switch step.Kind {
		case StepField:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(step.Field)
		case StepIndex:
			fmt.Fprintf(&b, "[%d]", step.Index)
		}
	}
	return b.String()
}

// ParsePath parses the wire form produced by String.
// Returns an error for empty segments, unbalanced brackets, or non-numeric
// indexes.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}

	var path Path
	i := 0
	for i < len(s) {
		switch s[i] {
		case '.':
			if i == 0 || i == len(s)-1 {
				return nil, fmt.Errorf("path %q: empty segment", s)
			}
			i++
			if s[i] == '.' || s[i] == '[' {
				return nil, fmt.Errorf("path %q: empty segment", s)
			}
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("path %q: unbalanced bracket", s)
			}
			idx, err := strconv.Atoi(s[i+1 : i+end])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("path %q: invalid index %q", s, s[i+1:i+end])
			}
			path = append(path, IndexStep(idx))
			i += end + 1
		default:
			end := strings.IndexAny(s[i:], ".[")
			if end < 0 {
				end = len(s) - i
			}
			path = append(path, FieldStep(s[i:i+end]))
			i += end
		}
	}

	if len(path) == 0 {
		return nil, fmt.Errorf("empty path")
	}
	return path, nil
}

// Resolve walks the path into a document and returns the addressed value.
// Returns an error if any intermediate step is missing or of the wrong kind.
func Resolve(doc Value, p Path) (Value, error) {
	cur := doc
	for i, step := range p {
		switch step.Kind {
		case StepField:
			obj, ok := cur.(Object)
			if !ok {
				return nil, fmt.Errorf("path %q: step %d is not an object", p, i)
			}
			next, present := obj[step.Field]
			if !present {
				return nil, fmt.Errorf("path %q: field %q not found", p, step.Field)
			}
			cur = next
		case StepIndex:
			arr, ok := cur.(Array)
			if !ok {
				return nil, fmt.Errorf("path %q: step %d is not an array", p, i)
			}
			if step.Index < 0 || step.Index >= len(arr) {
				return nil, fmt.Errorf("path %q: index %d out of range [0,%d)", p, step.Index, len(arr))
			}
			cur = arr[step.Index]
		}
	}
	return cur, nil
}
