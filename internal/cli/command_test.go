package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aetherforge/internal/character"
	"github.com/roach88/aetherforge/internal/document"
	"github.com/roach88/aetherforge/internal/mechanics"
	"github.com/roach88/aetherforge/internal/snapshot"
	"github.com/roach88/aetherforge/internal/spellcasting"
)

func testSnapshotDoc(t *testing.T) document.Object {
	t.Helper()

	params := spellcasting.Params{
		ChargeName:         "AFP",
		RiskName:           "heat",
		OverdriveName:      "overclock",
		BaseCost:           2,
		PerLevelScaling:    1,
		RiskCap:            20,
		OverdriveMaxPerDay: 1,
		BaseCharges:        4,
		ChargesPerLevel:    2,
	}
	c, err := character.New(character.BuildOptions{
		ID:    "chr-1",
		Name:  "Vessa Coilwright",
		Level: 6,
		Abilities: mechanics.Abilities{
			Strength: 10, Dexterity: 14, Constitution: 12,
			Intelligence: 16, Wisdom: 8, Charisma: 11,
		},
		Emotion:  "determination",
		Arcanist: &params,
		Now:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	doc, err := snapshot.Serialize(c)
	require.NoError(t, err)
	return doc
}

func writeSnapshotFile(t *testing.T, doc document.Object) string {
	t.Helper()

	data, err := snapshot.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand_ValidSnapshot(t *testing.T) {
	path := writeSnapshotFile(t, testSnapshotDoc(t))

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshot valid")
}

func TestValidateCommand_InvalidSnapshot(t *testing.T) {
	doc := testSnapshotDoc(t)
	hp := doc["hitPoints"].(document.Object)["pool"].(document.Object)
	hp["current"] = document.Int(999)
	path := writeSnapshotFile(t, doc)

	out, err := execute(t, "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, `"valid": false`)
	assert.Contains(t, out, "EXCEEDS_MAXIMUM")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestShowCommand_TextSummary(t *testing.T) {
	path := writeSnapshotFile(t, testSnapshotDoc(t))

	out, err := execute(t, "show", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Vessa Coilwright")
	assert.Contains(t, out, "Level 6")
	assert.Contains(t, out, "HP 46/46")
	assert.Contains(t, out, "Arcanist: 16/16 AFP")
}

func TestShowCommand_JSONEmitsCanonicalDocument(t *testing.T) {
	path := writeSnapshotFile(t, testSnapshotDoc(t))

	out, err := execute(t, "--format", "json", "show", path)
	require.NoError(t, err)

	var doc document.Object
	require.NoError(t, doc.UnmarshalJSON([]byte(out)))
	assert.Equal(t, document.String(snapshot.CurrentVersion), doc["version"])
}

func TestDiffCommand(t *testing.T) {
	oldDoc := testSnapshotDoc(t)
	newDoc := document.CloneObject(oldDoc)
	newDoc["level"] = document.Int(7)

	oldPath := writeSnapshotFile(t, oldDoc)
	newPath := filepath.Join(t.TempDir(), "new.json")
	data, err := snapshot.Marshal(newDoc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(newPath, data, 0o644))

	out, err := execute(t, "diff", oldPath, newPath)
	require.NoError(t, err)
	assert.Contains(t, out, "~ level: 6 -> 7")
	assert.Contains(t, out, "1 change(s)")
}

func TestPatchCreateApply_RoundTrip(t *testing.T) {
	oldDoc := testSnapshotDoc(t)
	newDoc := document.CloneObject(oldDoc)
	newDoc["level"] = document.Int(7)

	dir := t.TempDir()
	oldPath := writeSnapshotFile(t, oldDoc)
	newPath := filepath.Join(dir, "new.json")
	data, err := snapshot.Marshal(newDoc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(newPath, data, 0o644))

	patchPath := filepath.Join(dir, "change.patch.json")
	_, err = execute(t, "patch", "create", oldPath, newPath, "-o", patchPath)
	require.NoError(t, err)

	out, err := execute(t, "patch", "apply", oldPath, patchPath)
	require.NoError(t, err)

	var applied document.Object
	require.NoError(t, applied.UnmarshalJSON([]byte(out)))
	assert.True(t, document.Equal(newDoc, applied))
}

func TestPatchApply_TamperedPatchFails(t *testing.T) {
	oldDoc := testSnapshotDoc(t)
	newDoc := document.CloneObject(oldDoc)
	newDoc["level"] = document.Int(7)

	patch, err := snapshot.CreatePatch(oldDoc, newDoc, time.Now())
	require.NoError(t, err)
	patch.Checksum = "deadbeef"

	dir := t.TempDir()
	patchPath := filepath.Join(dir, "bad.patch.json")
	data, err := snapshot.EncodePatch(patch)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(patchPath, data, 0o644))

	oldPath := writeSnapshotFile(t, oldDoc)
	out, err := execute(t, "patch", "apply", oldPath, patchPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, string(snapshot.ErrCodeChecksumMismatch))
}

func TestMigrateCommand_UpgradesLegacySnapshot(t *testing.T) {
	doc := testSnapshotDoc(t)
	doc["version"] = document.String("1.0.0")
	delete(doc, "heatStress")
	doc["heatPoints"] = document.Int(7)
	casting := doc["arcanist"]
	delete(doc, "arcanist")
	doc["spellcasting"] = casting

	path := writeSnapshotFile(t, doc)
	out, err := execute(t, "migrate", path)
	require.NoError(t, err)

	var migrated document.Object
	require.NoError(t, migrated.UnmarshalJSON([]byte(out)))
	assert.Equal(t, document.String(snapshot.CurrentVersion), migrated["version"])
	heat, ok := migrated["heatStress"].(document.Object)
	require.True(t, ok)
	assert.Equal(t, document.Int(7), heat["currentHeatPoints"])
}

func TestMigrateCommand_NoPathFails(t *testing.T) {
	doc := testSnapshotDoc(t)
	doc["version"] = document.String("0.9.0")
	path := writeSnapshotFile(t, doc)

	out, err := execute(t, "migrate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, string(snapshot.ErrCodeNoMigrationPath))
}

func TestJournalSaveAndReplay(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "journal.db")

	oldDoc := testSnapshotDoc(t)
	oldPath := writeSnapshotFile(t, oldDoc)

	_, err := execute(t, "journal", "--db", dbPath, "save", oldPath)
	require.NoError(t, err)

	newDoc := document.CloneObject(oldDoc)
	newDoc["level"] = document.Int(7)
	patch, err := snapshot.CreatePatch(oldDoc, newDoc, time.Now())
	require.NoError(t, err)

	patchPath := filepath.Join(dir, "up.patch.json")
	data, err := snapshot.EncodePatch(patch)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(patchPath, data, 0o644))

	_, err = execute(t, "journal", "--db", dbPath, "append", patchPath)
	require.NoError(t, err)

	out, err := execute(t, "journal", "--db", dbPath, "replay", "chr-1")
	require.NoError(t, err)

	var replayed document.Object
	require.NoError(t, replayed.UnmarshalJSON([]byte(out)))
	assert.True(t, document.Equal(newDoc, replayed))

	logOut, err := execute(t, "--format", "json", "journal", "--db", dbPath, "log", "chr-1")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(logOut), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestLoadSnapshotFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	yamlBody := "id: chr-1\nversion: 2.0.0\nlevel: 6\nname: Vessa\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	doc, err := LoadSnapshotFile(path)
	require.NoError(t, err)
	assert.Equal(t, document.Int(6), doc["level"])
	assert.Equal(t, document.String("2.0.0"), doc["version"])
}

func TestLoadSnapshotFile_RejectsFloats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: 6.5\n"), 0o644))

	_, err := LoadSnapshotFile(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeParse, loadErr.Code)
}

func TestLoadSnapshotFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	_, err := LoadSnapshotFile(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeUnsupported, loadErr.Code)
}
