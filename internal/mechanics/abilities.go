package mechanics

import "fmt"

// Abilities holds the six core ability scores.
type Abilities struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// abilityFields fixes the validation walk order so accumulated errors are
// reported deterministically.
var abilityFields = []struct {
	name  string
	value func(Abilities) int
}{
	{"strength", func(a Abilities) int { return a.Strength }},
	{"dexterity", func(a Abilities) int { return a.Dexterity }},
	{"constitution", func(a Abilities) int { return a.Constitution }},
	{"intelligence", func(a Abilities) int { return a.Intelligence }},
	{"wisdom", func(a Abilities) int { return a.Wisdom }},
	{"charisma", func(a Abilities) int { return a.Charisma }},
}

// ValidateAbilities checks every score against [MinAbilityScore,
// MaxAbilityScore], accumulating all violations in field order.
func ValidateAbilities(a Abilities) error {
	var errs []FieldError

	for _, f := range abilityFields {
		score := f.value(a)
		if score < MinAbilityScore || score > MaxAbilityScore {
			errs = append(errs, FieldError{
				Field:   "abilities." + f.name,
				Code:    ErrCodeOutOfRange,
				Message: fmt.Sprintf("score %d outside [%d,%d]", score, MinAbilityScore, MaxAbilityScore),
			})
		}
	}

	return collect(errs)
}

// ValidateLevel checks a character level against [MinLevel, MaxLevel].
func ValidateLevel(level int) error {
	var errs []FieldError

	if level < MinLevel || level > MaxLevel {
		errs = append(errs, FieldError{
			Field:   "level",
			Code:    ErrCodeOutOfRange,
			Message: fmt.Sprintf("level %d outside [%d,%d]", level, MinLevel, MaxLevel),
		})
	}

	return collect(errs)
}

// ValidateProficiencyBonus checks a stored bonus against the level-derived
// value and the legal [2,6] band.
func ValidateProficiencyBonus(level, bonus int) error {
	var errs []FieldError

	if bonus < 2 || bonus > 6 {
		errs = append(errs, FieldError{
			Field:   "proficiencyBonus",
			Code:    ErrCodeOutOfRange,
			Message: fmt.Sprintf("bonus %d outside [2,6]", bonus),
		})
	}
	if level >= MinLevel && level <= MaxLevel && bonus != ProficiencyBonus(level) {
		errs = append(errs, FieldError{
			Field:   "proficiencyBonus",
			Code:    ErrCodeOutOfRange,
			Message: fmt.Sprintf("bonus %d does not match level %d (expected %d)", bonus, level, ProficiencyBonus(level)),
		})
	}

	return collect(errs)
}
