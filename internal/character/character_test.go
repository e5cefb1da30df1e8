package character

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aetherforge/internal/mechanics"
	"github.com/roach88/aetherforge/internal/spellcasting"
)

func testAbilities() mechanics.Abilities {
	return mechanics.Abilities{
		Strength:     10,
		Dexterity:    14,
		Constitution: 12,
		Intelligence: 16,
		Wisdom:       8,
		Charisma:     11,
	}
}

func arcanistParams() spellcasting.Params {
	return spellcasting.Params{
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
}

// TestNew_DerivesLevelBasedValues tests hit points, proficiency, focus
// limit, and casting charges all derive from level at build time.
func TestNew_DerivesLevelBasedValues(t *testing.T) {
	params := arcanistParams()
	c, err := New(BuildOptions{
		ID:        "chr-1",
		Name:      "Vessa Coilwright",
		Level:     6,
		Abilities: testAbilities(),
		Emotion:   "determination",
		Arcanist:  &params,
		Now:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Constitution 12 is a +1 modifier: 11 at first level, 7 per level after.
	assert.Equal(t, 46, c.HitPoints.Pool.Maximum)
	assert.Equal(t, 46, c.HitPoints.Pool.Current)
	assert.Equal(t, mechanics.Conscious, c.HitPoints.State)
	assert.Equal(t, 3, c.ProficiencyBonus)
	assert.Equal(t, 2, c.Focus.FocusLimit)

	require.NotNil(t, c.Arcanist)
	assert.Equal(t, 16, c.Arcanist.Charges.Maximum)
	assert.Nil(t, c.Templar)

	assert.Equal(t, c.Created, c.LastModified)
}

// TestNew_AccumulatesBuildViolations tests that every invalid input is
// reported, not just the first.
func TestNew_AccumulatesBuildViolations(t *testing.T) {
	abilities := testAbilities()
	abilities.Strength = 40
	abilities.Wisdom = 0

	_, err := New(BuildOptions{
		ID:        "chr-1",
		Name:      "Broken",
		Level:     25,
		Abilities: abilities,
	})
	require.Error(t, err)

	var ve *mechanics.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 3)
}

// TestValidate_ChecksSubStatePools tests aggregate validation reaches into
// casting pools.
func TestValidate_ChecksSubStatePools(t *testing.T) {
	params := arcanistParams()
	c, err := New(BuildOptions{
		ID:        "chr-1",
		Name:      "Vessa",
		Level:     6,
		Abilities: testAbilities(),
		Arcanist:  &params,
	})
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	c.Arcanist.Charges.Current = c.Arcanist.Charges.Maximum + 5
	err = c.Validate()
	require.Error(t, err)

	var ve *mechanics.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "arcanist.charges.current", ve.Errors[0].Field)
}

// TestDocumentRoundTrip tests ToDocument/FromDocument preserve the whole
// aggregate, including temporal fields at second precision.
func TestDocumentRoundTrip(t *testing.T) {
	params := arcanistParams()
	c, err := New(BuildOptions{
		ID:        "chr-1",
		Name:      "Vessa Coilwright",
		Level:     6,
		Abilities: testAbilities(),
		Emotion:   "anger",
		Arcanist:  &params,
		Now:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	doc, err := c.ToDocument()
	require.NoError(t, err)

	back, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

// TestTouch_TruncatesToSecond tests the canonical timestamp resolution.
func TestTouch_TruncatesToSecond(t *testing.T) {
	c := Character{}
	touched := c.Touch(time.Date(2024, 3, 1, 10, 0, 0, 987654321, time.FixedZone("X", 3600)))

	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), touched.LastModified)
}
