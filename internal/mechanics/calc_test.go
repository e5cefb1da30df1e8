package mechanics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAbilityModifier tests floored-division modifiers, including scores
// below 10.
func TestAbilityModifier(t *testing.T) {
	tests := []struct {
		score, want int
	}{
		{1, -5}, {7, -2}, {8, -1}, {9, -1}, {10, 0}, {11, 0},
		{12, 1}, {15, 2}, {18, 4}, {20, 5}, {30, 10},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score=%d", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.want, AbilityModifier(tt.score))
		})
	}
}

// TestProficiencyBonus tests the level bands.
func TestProficiencyBonus(t *testing.T) {
	tests := []struct {
		level, want int
	}{
		{1, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {12, 4}, {13, 5}, {16, 5}, {17, 6}, {20, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ProficiencyBonus(tt.level), "level %d", tt.level)
	}
}

// TestInitiative tests the dexterity-plus-bonus total.
func TestInitiative(t *testing.T) {
	assert.Equal(t, 3, Initiative(14, 1))
	assert.Equal(t, -2, Initiative(7, 0))
	assert.Equal(t, 0, Initiative(10, 0))
}

// TestMaxHitPointsForLevel tests the build-time maximum derivation.
func TestMaxHitPointsForLevel(t *testing.T) {
	assert.Equal(t, 12, MaxHitPointsForLevel(1, 2))
	assert.Equal(t, 10, MaxHitPointsForLevel(1, 0))
	assert.Equal(t, 52, MaxHitPointsForLevel(6, 2))
	assert.Equal(t, 1, MaxHitPointsForLevel(1, -10), "floors at 1")
}

// TestValidateAbilities_AccumulatesInFieldOrder tests that every violation
// is reported in one call, ordered by field.
func TestValidateAbilities_AccumulatesInFieldOrder(t *testing.T) {
	err := ValidateAbilities(Abilities{
		Strength:     0,  // out of range
		Dexterity:    14,
		Constitution: 35, // out of range
		Intelligence: 10,
		Wisdom:       10,
		Charisma:     -1, // out of range
	})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 3)
	assert.Equal(t, "abilities.strength", ve.Errors[0].Field)
	assert.Equal(t, "abilities.constitution", ve.Errors[1].Field)
	assert.Equal(t, "abilities.charisma", ve.Errors[2].Field)
	for _, fe := range ve.Errors {
		assert.Equal(t, ErrCodeOutOfRange, fe.Code)
	}
}

// TestValidateAbilities_Valid tests the success path.
func TestValidateAbilities_Valid(t *testing.T) {
	assert.NoError(t, ValidateAbilities(Abilities{
		Strength: 10, Dexterity: 14, Constitution: 12,
		Intelligence: 16, Wisdom: 8, Charisma: 11,
	}))
}

// TestValidateProficiencyBonus tests both the band check and the
// level-consistency check accumulating together.
func TestValidateProficiencyBonus(t *testing.T) {
	assert.NoError(t, ValidateProficiencyBonus(5, 3))

	err := ValidateProficiencyBonus(5, 7)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2, "out of band AND inconsistent with level")
}

// TestValidateLevel tests the level bounds.
func TestValidateLevel(t *testing.T) {
	assert.NoError(t, ValidateLevel(1))
	assert.NoError(t, ValidateLevel(20))
	assert.Error(t, ValidateLevel(0))
	assert.Error(t, ValidateLevel(21))
}
