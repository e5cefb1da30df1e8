package harness

import (
	"fmt"
	"time"

	"github.com/roach88/aetherforge/internal/character"
	"github.com/roach88/aetherforge/internal/dice"
	"github.com/roach88/aetherforge/internal/document"
	"github.com/roach88/aetherforge/internal/mechanics"
	"github.com/roach88/aetherforge/internal/psionics"
	"github.com/roach88/aetherforge/internal/rules"
	"github.com/roach88/aetherforge/internal/snapshot"
	"github.com/roach88/aetherforge/internal/spellcasting"
)

// secondsPerRound is the combat round length used when advancing the clock.
const secondsPerRound = 6

// Result is the outcome of a scenario run: the final character and its
// serialized snapshot document.
type Result struct {
	Character *character.Character
	Document  document.Object
}

// Run builds the scenario's character, executes every step in order, and
// verifies the assertions against the final snapshot document.
//
// Execution is deterministic: the clock starts at the scenario's fixed time
// base and only advance steps move it, and every dice roll comes from the
// scenario's scripted roll list.
func Run(s *Scenario, tables *rules.Tables) (*Result, error) {
	c, err := buildCharacter(s, tables)
	if err != nil {
		return nil, err
	}

	src := dice.NewScripted(s.Rolls...)
	now := s.baseTime()

	for i, step := range s.Steps {
		now, err = applyStep(c, step, now, src, tables)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] %s: %w", i, step.Op, err)
		}
	}

	*c = c.Touch(now)

	doc, err := snapshot.Serialize(c)
	if err != nil {
		return nil, fmt.Errorf("serialize final snapshot: %w", err)
	}

	if err := verifyAssertions(doc, s.Assertions); err != nil {
		return nil, err
	}

	return &Result{Character: c, Document: doc}, nil
}

// buildCharacter translates the scenario character spec into a build,
// resolving archetype casting constants from the rules tables.
func buildCharacter(s *Scenario, tables *rules.Tables) (*character.Character, error) {
	opts := character.BuildOptions{
		ID:        s.Character.ID,
		Name:      s.Character.Name,
		Level:     s.Character.Level,
		Abilities: s.Character.Abilities,
		Emotion:   s.Character.Emotion,
		Now:       s.baseTime(),
	}

	for _, name := range s.Character.Archetypes {
		arch := spellcasting.Archetype(name)
		params, ok := tables.ArchetypeParams(arch)
		if !ok {
			return nil, fmt.Errorf("character: unknown archetype %q", name)
		}
		p := params
		switch arch {
		case spellcasting.ArchetypeArcanist:
			opts.Arcanist = &p
		case spellcasting.ArchetypeTemplar:
			opts.Templar = &p
		}
	}

	return character.New(opts)
}

// applyStep executes one operation against the character and returns the
// (possibly advanced) clock.
func applyStep(c *character.Character, step Step, now time.Time, src dice.Source, tables *rules.Tables) (time.Time, error) {
	switch step.Op {
	case OpTakeDamage:
		hp, outcome := c.HitPoints.TakeDamage(step.Amount)
		c.HitPoints = hp
		if outcome.DroppedUnconscious {
			breakPowers(c, psionics.CauseUnconscious, src)
		}
		if outcome.MassiveDamage {
			breakPowers(c, psionics.CauseDeath, src)
		}

	case OpHeal:
		c.HitPoints, _ = c.HitPoints.Heal(step.Amount)

	case OpAddTemporary:
		c.HitPoints.Pool = c.HitPoints.Pool.AddTemporary(step.Amount)

	case OpDeathSave:
		c.HitPoints = c.HitPoints.RecordDeathSave(step.Success)

	case OpStabilize:
		c.HitPoints = c.HitPoints.Stabilize()

	case OpRevive:
		c.HitPoints = c.HitPoints.Revive(step.Amount)

	case OpAddHeat:
		c.HeatStress = c.HeatStress.AddHeatPoints(step.Source, step.Amount, step.Description)

	case OpEquipHarness:
		c.HeatStress.Harness = &mechanics.SteamVentHarness{
			Charges:                step.Charges,
			MaxCharges:             step.MaxCharges,
			HeatReductionPerUse:    step.Reduction,
			MalfunctionRiskPercent: step.Risk,
			Condition:              step.Condition,
		}

	case OpUseVent:
		heat, _, err := c.HeatStress.UseSteamVent(step.Charges, src)
		if err != nil {
			return now, err
		}
		c.HeatStress = heat

	case OpAddCoolant:
		c.HeatStress.CoolantFlasks += step.Amount

	case OpUseCoolant:
		c.HeatStress, _ = c.HeatStress.UseCoolantFlask()

	case OpMaintainPower:
		focus, err := c.Focus.AddMaintainedPower(psionics.MaintainedPower{
			PowerID:               step.PowerID,
			StartTime:             now,
			Duration:              step.Duration,
			DurationUnit:          psionics.DurationUnit(step.DurationUnit),
			ConcentrationRequired: step.Concentration,
			FocusRequired:         step.Focus,
		})
		if err != nil {
			return now, err
		}
		c.Focus = focus

	case OpRemovePower:
		focus, result, err := c.Focus.RemoveMaintainedPower(step.PowerID, removalCause(step.Cause), src)
		if err != nil {
			return now, err
		}
		c.Focus = focus
		applyBacklash(c, result)

	case OpBreakAll:
		breakPowers(c, removalCause(step.Cause), src)

	case OpAdvance:
		elapsed := psionics.Elapsed{Rounds: step.Rounds, Minutes: step.Minutes, Hours: step.Hours}
		c.Focus, _ = c.Focus.UpdateMaintainedPowers(elapsed)

		minutes := step.Minutes + step.Hours*60 + step.Rounds*secondsPerRound/60
		c.Overload.AccumulatedFeedback = psionics.ClearExpiredFeedbackEffects(c.Overload.AccumulatedFeedback, minutes)

		now = now.Add(time.Duration(step.Rounds*secondsPerRound)*time.Second +
			time.Duration(step.Minutes)*time.Minute +
			time.Duration(step.Hours)*time.Hour)
		c.Overload, _ = c.Overload.CheckOverloadRecovery(now)

	case OpOverload:
		c.Overload = c.Overload.CalculateOverloadRecovery(step.Amount, now)
		breakPowers(c, psionics.CauseOverload, src)

	case OpFeedback:
		c.Overload.AccumulatedFeedback = psionics.AccumulateFeedbackEffects(
			c.Overload.AccumulatedFeedback,
			psionics.FeedbackEffect{
				Type:        psionics.FeedbackType(step.FeedbackType),
				Description: step.Description,
				Severity:    step.Severity,
			},
		)

	case OpCast:
		state, params, err := economyFor(c, step.Archetype, tables)
		if err != nil {
			return now, err
		}
		next, _, err := state.Cast(spellcasting.CastRequest{
			PowerLevel:        step.PowerLevel,
			CastLevel:         step.CastLevel,
			Category:          step.Category,
			Overdrive:         step.Overdrive,
			OverdriveEligible: step.OverdriveEligible,
		}, params)
		if err != nil {
			return now, err
		}
		*state = next
		if step.Tier > 0 {
			c.Signature = c.Signature.RecordUse(step.Tier, step.CastLevel, now)
		}

	case OpFailCast:
		state, _, err := economyFor(c, step.Archetype, tables)
		if err != nil {
			return now, err
		}
		*state = state.RecordFailedCast(step.Category)

	case OpShedRisk:
		state, _, err := economyFor(c, step.Archetype, tables)
		if err != nil {
			return now, err
		}
		*state = state.ShedRisk(step.Amount)

	case OpLongRest:
		if c.Arcanist != nil {
			*c.Arcanist = c.Arcanist.LongRest()
		}
		if c.Templar != nil {
			*c.Templar = c.Templar.LongRest()
		}

	default:
		return now, fmt.Errorf("unknown op %q", step.Op)
	}

	return now, nil
}

// breakPowers tears away every maintained power and lands the psychic
// backlash damage on the character.
func breakPowers(c *character.Character, cause psionics.RemovalCause, src dice.Source) {
	focus, results := c.Focus.BreakAllMaintainedPowers(cause, src)
	c.Focus = focus
	for _, r := range results {
		applyBacklash(c, r)
	}
}

// applyBacklash lands rolled backlash damage as ordinary damage, so a
// downed psion losing powers accrues death-save failures the normal way.
func applyBacklash(c *character.Character, r psionics.RemovalResult) {
	if !r.PsychicBacklash || r.BacklashDamage <= 0 {
		return
	}
	c.HitPoints, _ = c.HitPoints.TakeDamage(r.BacklashDamage)
}

// economyFor resolves the casting economy and its rules constants for one
// archetype name.
func economyFor(c *character.Character, name string, tables *rules.Tables) (*spellcasting.State, spellcasting.Params, error) {
	arch := spellcasting.Archetype(name)
	params, ok := tables.ArchetypeParams(arch)
	if !ok {
		return nil, spellcasting.Params{}, fmt.Errorf("unknown archetype %q", name)
	}

	var state *spellcasting.State
	switch arch {
	case spellcasting.ArchetypeArcanist:
		state = c.Arcanist
	case spellcasting.ArchetypeTemplar:
		state = c.Templar
	}
	if state == nil {
		return nil, spellcasting.Params{}, fmt.Errorf("character has no %s economy", name)
	}

	return state, params, nil
}

// removalCause parses a scenario cause string, defaulting to voluntary.
func removalCause(s string) psionics.RemovalCause {
	if s == "" {
		return psionics.CauseVoluntary
	}
	return psionics.RemovalCause(s)
}

// verifyAssertions resolves each assertion path in the final document and
// compares structurally.
func verifyAssertions(doc document.Object, assertions []Assertion) error {
	for i, a := range assertions {
		path, err := document.ParsePath(a.Path)
		if err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}

		got, err := document.Resolve(doc, path)
		if err != nil {
			return fmt.Errorf("assertions[%d] %s: %w", i, a.Path, err)
		}

		want, err := document.FromGo(a.Equals)
		if err != nil {
			return fmt.Errorf("assertions[%d] %s: expected value: %w", i, a.Path, err)
		}

		if !document.Equal(got, want) {
			return fmt.Errorf("assertions[%d] %s: got %v, want %v",
				i, a.Path, document.ToGo(got), document.ToGo(want))
		}
	}
	return nil
}
