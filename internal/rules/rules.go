package rules

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/aetherforge/internal/psionics"
	"github.com/roach88/aetherforge/internal/spellcasting"
)

//go:embed tables.cue
var tablesCUE string

//go:embed character.cue
var characterCUE string

// Tables holds the compiled rules data the engine is tuned by.
type Tables struct {
	// Archetypes maps archetype name to casting constants.
	Archetypes map[spellcasting.Archetype]spellcasting.Params

	// Emotions is the fixed signature manifestation table.
	Emotions map[string]psionics.Manifestation
}

// ArchetypeParams returns the constants for one archetype.
// The bool reports whether the archetype is known.
func (t *Tables) ArchetypeParams(a spellcasting.Archetype) (spellcasting.Params, bool) {
	p, ok := t.Archetypes[a]
	return p, ok
}

// Load compiles the embedded CUE rules tables and decodes them into typed
// form. Constraint violations in the tables surface here, not at lookup
// time.
func Load() (*Tables, error) {
	ctx := cuecontext.New()

	v := ctx.CompileString(tablesCUE, cue.Filename("tables.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("rules: compile tables: %s", cueerrors.Details(err, nil))
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("rules: validate tables: %s", cueerrors.Details(err, nil))
	}

	var raw struct {
		Archetypes map[string]spellcasting.Params    `json:"archetypes"`
		Emotions   map[string]psionics.Manifestation `json:"emotions"`
	}
	if err := v.Decode(&raw); err != nil {
		return nil, fmt.Errorf("rules: decode tables: %w", err)
	}

	tables := &Tables{
		Archetypes: make(map[spellcasting.Archetype]spellcasting.Params, len(raw.Archetypes)),
		Emotions:   raw.Emotions,
	}
	for name, params := range raw.Archetypes {
		tables.Archetypes[spellcasting.Archetype(name)] = params
	}

	return tables, nil
}

// MustLoad is like Load but panics on error. The embedded tables are part
// of the build; failing to compile them is a programming error.
func MustLoad() *Tables {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// SnapshotSchema compiles the embedded character snapshot schema and
// returns the #Snapshot definition for external document validation.
func SnapshotSchema() (cue.Value, error) {
	ctx := cuecontext.New()

	v := ctx.CompileString(characterCUE, cue.Filename("character.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("rules: compile snapshot schema: %s", cueerrors.Details(err, nil))
	}

	schema := v.LookupPath(cue.ParsePath("#Snapshot"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("rules: lookup #Snapshot: %s", cueerrors.Details(err, nil))
	}

	return schema, nil
}

// ValidateSnapshotDocument unifies a decoded snapshot document against the
// #Snapshot schema. Returns nil when the document conforms.
func ValidateSnapshotDocument(schema cue.Value, doc map[string]any) error {
	ctx := schema.Context()
	unified := schema.Unify(ctx.Encode(doc))
	if err := unified.Err(); err != nil {
		return fmt.Errorf("snapshot does not conform to schema: %s", cueerrors.Details(err, nil))
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("snapshot does not conform to schema: %s", cueerrors.Details(err, nil))
	}
	return nil
}
