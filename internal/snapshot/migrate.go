package snapshot

import (
	"errors"

	"github.com/roach88/aetherforge/internal/document"
	"github.com/roach88/aetherforge/internal/mechanics"
)

// MigrateFunc upgrades a snapshot document by exactly one version step.
// It receives the document already carrying the source version and returns
// the upgraded body; the registry stamps the new version afterwards.
type MigrateFunc func(document.Object) (document.Object, error)

type migrationStep struct {
	to      string
	migrate MigrateFunc
}

// Migrations is an explicit single-step migration registry. It is a plain
// value constructed by the caller and passed to Deserialize; there is no
// process-wide registration.
//
// Only single-step links exist: upgrading across several versions walks the
// chain one link at a time, and a missing link anywhere aborts the whole
// deserialization.
type Migrations struct {
	steps map[string]migrationStep
}

// NewMigrations creates an empty registry.
func NewMigrations() *Migrations {
	return &Migrations{steps: make(map[string]migrationStep)}
}

// Register adds a single-step migration and returns the registry for
// chaining. Registering the same source version twice replaces the step.
func (m *Migrations) Register(from, to string, fn MigrateFunc) *Migrations {
	m.steps[from] = migrationStep{to: to, migrate: fn}
	return m
}

// maxMigrationSteps bounds the chain walk so a cyclic registry cannot loop
// forever.
const maxMigrationSteps = 32

// Apply walks the registry from the document's version to target, applying
// each step in sequence and stamping the intermediate version after every
// step. Returns a NO_MIGRATION_PATH error if any link is missing, without
// partial results.
func (m *Migrations) Apply(doc document.Object, from, target string) (document.Object, error) {
	if from == target {
		return doc, nil
	}

	// Steps rewrite keys in place; walk a clone so a broken chain never
	// leaves the caller's document half-migrated.
	doc = document.CloneObject(doc)

	version := from
	for range maxMigrationSteps {
		step, ok := m.steps[version]
		if !ok {
			return nil, newError(ErrCodeNoMigrationPath,
				"no migration from %q toward %q (chain stops at %q)", from, target, version)
		}

		migrated, err := step.migrate(doc)
		if err != nil {
			var se *Error
			if errors.As(err, &se) {
				return nil, se
			}
			return nil, newError(ErrCodeMalformedSnapshot,
				"migration %q -> %q: %v", version, step.to, err)
		}
		migrated["version"] = document.String(step.to)

		doc = migrated
		version = step.to
		if version == target {
			return doc, nil
		}
	}

	return nil, newError(ErrCodeNoMigrationPath,
		"migration chain from %q never reaches %q", from, target)
}

// DefaultMigrations returns the registry covering every snapshot version
// this engine has shipped.
func DefaultMigrations() *Migrations {
	return NewMigrations().
		Register("1.0.0", "1.1.0", migrateHeatStress).
		Register("1.1.0", "2.0.0", migrateSpellcastingSplit)
}

// migrateHeatStress upgrades 1.0.0 snapshots, which stored heat as a bare
// heatPoints counter, to the structured heatStress sub-document with the
// derived level.
func migrateHeatStress(doc document.Object) (document.Object, error) {
	points, ok := doc["heatPoints"].(document.Int)
	if !ok {
		// Characters created before the heat system have neither field.
		if _, present := doc["heatStress"]; !present {
			doc["heatStress"] = document.Object{
				"currentHeatPoints":  document.Int(0),
				"currentLevel":       document.Int(0),
				"recentAccumulation": document.Array{},
			}
		}
		return doc, nil
	}

	delete(doc, "heatPoints")
	doc["heatStress"] = document.Object{
		"currentHeatPoints":  points,
		"currentLevel":       document.Int(mechanics.CalculateHeatStressLevel(int(points))),
		"recentAccumulation": document.Array{},
	}
	return doc, nil
}

// migrateSpellcastingSplit upgrades 1.1.0 snapshots, which carried a single
// "spellcasting" sub-document tagged with an archetype field, to the
// current per-archetype keys.
func migrateSpellcastingSplit(doc document.Object) (document.Object, error) {
	casting, ok := doc["spellcasting"].(document.Object)
	if !ok {
		return doc, nil
	}

	archetype, ok := casting["archetype"].(document.String)
	if !ok {
		return nil, newError(ErrCodeMalformedSnapshot,
			"spellcasting sub-document has no archetype")
	}

	delete(doc, "spellcasting")
	switch archetype {
	case "arcanist":
		doc["arcanist"] = casting
	case "templar":
		doc["templar"] = casting
	default:
		return nil, newError(ErrCodeMalformedSnapshot,
			"unknown spellcasting archetype %q", archetype)
	}
	return doc, nil
}
