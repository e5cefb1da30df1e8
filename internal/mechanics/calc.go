package mechanics

// Pure numeric calculators. These are total functions with no failure mode;
// invalid inputs must be rejected by the validation boundary before a score
// or level ever reaches them.

// Ability score and level bounds enforced by the validators.
const (
	MinAbilityScore = 1
	MaxAbilityScore = 30
	MinLevel        = 1
	MaxLevel        = 20
)

// AbilityModifier converts an ability score to its modifier:
// floor((score-10)/2). Uses floored (not truncated) division so that
// score 9 yields -1 and score 7 yields -2.
func AbilityModifier(score int) int {
	return floorDiv(score-10, 2)
}

// ProficiencyBonus derives the proficiency bonus from character level:
// +2 at levels 1-4, climbing by 1 every four levels to +6 at 17-20.
func ProficiencyBonus(level int) int {
	return 2 + (level-1)/4
}

// Initiative computes the initiative total from a dexterity score and any
// flat bonus.
func Initiative(dexterityScore, bonus int) int {
	return AbilityModifier(dexterityScore) + bonus
}

// MaxHitPointsForLevel derives the level-based hit point maximum used at
// character build: a full hit die at level one, average rolls after.
func MaxHitPointsForLevel(level, constitutionMod int) int {
	max := 10 + constitutionMod + (level-1)*(6+constitutionMod)
	if max < 1 {
		return 1
	}
	return max
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
