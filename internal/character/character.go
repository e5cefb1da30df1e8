package character

import (
	"time"

	"github.com/roach88/aetherforge/internal/mechanics"
	"github.com/roach88/aetherforge/internal/psionics"
	"github.com/roach88/aetherforge/internal/spellcasting"
)

// Character is the aggregate root: every rule-governed sub-state the engine
// owns for one character. Each sub-state is owned exclusively by its
// aggregate; nothing here is shared across characters.
//
// The aggregate is a plain value. Mutations go through the sub-state
// packages' pure functions; callers re-store the returned copy.
type Character struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Level            int                 `json:"level"`
	Abilities        mechanics.Abilities `json:"abilities"`
	ProficiencyBonus int                 `json:"proficiencyBonus"`

	HitPoints  mechanics.HitPointState   `json:"hitPoints"`
	HeatStress mechanics.HeatStressState `json:"heatStress"`

	Focus     psionics.FocusState    `json:"focus"`
	Overload  psionics.OverloadState `json:"overload"`
	Signature psionics.Signature     `json:"signature"`

	// Arcanist and Templar are the two casting economies; a character
	// carries the one (or both, for rare dual-path builds) they have
	// trained.
	Arcanist *spellcasting.State `json:"arcanist,omitempty"`
	Templar  *spellcasting.State `json:"templar,omitempty"`

	Created      time.Time `json:"created"`
	LastModified time.Time `json:"lastModified"`
}

// BuildOptions configure character creation.
type BuildOptions struct {
	ID        string
	Name      string
	Level     int
	Abilities mechanics.Abilities
	Emotion   string

	// Arcanist/Templar hold the casting constants for the economies the
	// character trains; nil skips that path.
	Arcanist *spellcasting.Params
	Templar  *spellcasting.Params

	// Now stamps Created/LastModified.
	Now time.Time
}

// New builds a character, deriving every level-based value: hit point
// maximum, proficiency bonus, and focus limit. Validation runs first and
// returns the full accumulated error list on any violation.
func New(opts BuildOptions) (*Character, error) {
	if err := validateBuild(opts); err != nil {
		return nil, err
	}

	conMod := mechanics.AbilityModifier(opts.Abilities.Constitution)
	now := opts.Now.UTC().Truncate(time.Second)

	c := &Character{
		ID:               opts.ID,
		Name:             opts.Name,
		Level:            opts.Level,
		Abilities:        opts.Abilities,
		ProficiencyBonus: mechanics.ProficiencyBonus(opts.Level),
		HitPoints:        mechanics.NewHitPointState(mechanics.MaxHitPointsForLevel(opts.Level, conMod)),
		Focus:            psionics.NewFocusState(opts.Level),
		Signature:        psionics.Signature{Emotion: opts.Emotion, DetectabilityRange: 30},
		Created:          now,
		LastModified:     now,
	}

	if opts.Arcanist != nil {
		s := spellcasting.NewState(spellcasting.ArchetypeArcanist, opts.Level, *opts.Arcanist)
		c.Arcanist = &s
	}
	if opts.Templar != nil {
		s := spellcasting.NewState(spellcasting.ArchetypeTemplar, opts.Level, *opts.Templar)
		c.Templar = &s
	}

	return c, nil
}

// validateBuild accumulates every build-input violation before any derived
// value is computed.
func validateBuild(opts BuildOptions) error {
	var errs []mechanics.FieldError

	appendFieldErrors(&errs, mechanics.ValidateLevel(opts.Level))
	appendFieldErrors(&errs, mechanics.ValidateAbilities(opts.Abilities))

	if len(errs) > 0 {
		return &mechanics.ValidationError{Errors: errs}
	}
	return nil
}

// Validate checks the aggregate's domain invariants, accumulating all
// violations across sub-states into one ordered list.
func (c *Character) Validate() error {
	var errs []mechanics.FieldError

	appendFieldErrors(&errs, mechanics.ValidateLevel(c.Level))
	appendFieldErrors(&errs, mechanics.ValidateAbilities(c.Abilities))
	appendFieldErrors(&errs, mechanics.ValidateProficiencyBonus(c.Level, c.ProficiencyBonus))
	appendFieldErrors(&errs, mechanics.ValidatePool("hitPoints", c.HitPoints.Pool))
	if c.Arcanist != nil {
		appendFieldErrors(&errs, mechanics.ValidatePool("arcanist.charges", c.Arcanist.Charges))
	}
	if c.Templar != nil {
		appendFieldErrors(&errs, mechanics.ValidatePool("templar.charges", c.Templar.Charges))
	}

	if len(errs) > 0 {
		return &mechanics.ValidationError{Errors: errs}
	}
	return nil
}

// Touch stamps a modification time (UTC, second precision - the canonical
// timestamp resolution of the snapshot format).
func (c Character) Touch(now time.Time) Character {
	c.LastModified = now.UTC().Truncate(time.Second)
	return c
}

// appendFieldErrors flattens a ValidationError (or nil) into the running
// accumulation.
func appendFieldErrors(errs *[]mechanics.FieldError, err error) {
	if err == nil {
		return
	}
	if ve, ok := err.(*mechanics.ValidationError); ok {
		*errs = append(*errs, ve.Errors...)
	}
}
