package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aetherforge/internal/document"
)

// legacyDocument regresses a current snapshot document to the 1.0.0 shape:
// flat heatPoints counter and a single archetype-tagged spellcasting block.
func legacyDocument(t *testing.T) document.Object {
	t.Helper()

	doc := testDocument(t)
	doc["version"] = document.String("1.0.0")

	delete(doc, "heatStress")
	doc["heatPoints"] = document.Int(7)

	casting := doc["arcanist"]
	delete(doc, "arcanist")
	doc["spellcasting"] = casting

	return doc
}

// TestMigrations_WalksFullChain tests a 1.0.0 snapshot upgrades through
// 1.1.0 to current in one Deserialize call.
func TestMigrations_WalksFullChain(t *testing.T) {
	data, err := Marshal(legacyDocument(t))
	require.NoError(t, err)

	c, err := Deserialize(data, DefaultMigrations())
	require.NoError(t, err)

	assert.Equal(t, 7, c.HeatStress.Points)
	assert.Equal(t, 1, int(c.HeatStress.Level))
	require.NotNil(t, c.Arcanist)
	assert.Equal(t, 16, c.Arcanist.Charges.Maximum)
	assert.Nil(t, c.Templar)
}

// TestMigrations_MissingLinkFails tests a version with no registered step
// aborts with a no-migration-path error and no partial data.
func TestMigrations_MissingLinkFails(t *testing.T) {
	doc := testDocument(t)
	doc["version"] = document.String("0.9.0")

	data, err := Marshal(doc)
	require.NoError(t, err)

	c, err := Deserialize(data, DefaultMigrations())
	require.Error(t, err)
	assert.True(t, IsNoMigrationPath(err))
	assert.Nil(t, c)
}

// TestMigrations_BrokenChainFails tests a chain that starts but never
// reaches current.
func TestMigrations_BrokenChainFails(t *testing.T) {
	reg := NewMigrations().Register("1.0.0", "1.5.0", func(doc document.Object) (document.Object, error) {
		return doc, nil
	})

	doc := document.Object{"version": document.String("1.0.0")}
	_, err := reg.Apply(doc, "1.0.0", CurrentVersion)
	require.Error(t, err)
	assert.True(t, IsNoMigrationPath(err))
}

// TestMigrations_FailedApplyLeavesInputUntouched tests a broken chain
// returns the caller's document exactly as it was handed in.
func TestMigrations_FailedApplyLeavesInputUntouched(t *testing.T) {
	reg := NewMigrations().Register("1.0.0", "1.1.0", migrateHeatStress)

	doc := legacyDocument(t)
	before, err := Marshal(doc)
	require.NoError(t, err)

	out, err := reg.Apply(doc, "1.0.0", CurrentVersion)
	require.Error(t, err)
	assert.True(t, IsNoMigrationPath(err))
	assert.Nil(t, out)

	after, err := Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.Equal(t, document.String("1.0.0"), doc["version"])
	assert.Contains(t, doc, "heatPoints")
	assert.NotContains(t, doc, "heatStress")
}

// TestMigrations_SameVersionIsNoop tests Apply with from == target.
func TestMigrations_SameVersionIsNoop(t *testing.T) {
	doc := document.Object{"version": document.String(CurrentVersion)}

	out, err := NewMigrations().Apply(doc, CurrentVersion, CurrentVersion)
	require.NoError(t, err)
	assert.True(t, document.Equal(doc, out))
}

// TestMigrations_CyclicRegistryTerminates tests the step bound catches a
// registry whose links loop.
func TestMigrations_CyclicRegistryTerminates(t *testing.T) {
	identity := func(doc document.Object) (document.Object, error) { return doc, nil }
	reg := NewMigrations().
		Register("1.0.0", "1.1.0", identity).
		Register("1.1.0", "1.0.0", identity)

	doc := document.Object{"version": document.String("1.0.0")}
	_, err := reg.Apply(doc, "1.0.0", CurrentVersion)
	require.Error(t, err)
	assert.True(t, IsNoMigrationPath(err))
}

// TestMigrateHeatStress_NoLegacyField tests 1.0.0 documents predating the
// heat system gain an empty heatStress block.
func TestMigrateHeatStress_NoLegacyField(t *testing.T) {
	doc := document.Object{"version": document.String("1.0.0")}

	out, err := migrateHeatStress(doc)
	require.NoError(t, err)

	heat, ok := out["heatStress"].(document.Object)
	require.True(t, ok)
	assert.Equal(t, document.Int(0), heat["currentHeatPoints"])
}

// TestMigrateSpellcastingSplit_UnknownArchetype tests the malformed path.
func TestMigrateSpellcastingSplit_UnknownArchetype(t *testing.T) {
	doc := document.Object{
		"spellcasting": document.Object{"archetype": document.String("warlock")},
	}

	_, err := migrateSpellcastingSplit(doc)
	require.Error(t, err)
	assert.True(t, IsMalformedSnapshot(err))
}
