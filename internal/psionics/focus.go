package psionics

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/aetherforge/internal/dice"
)

// DurationUnit is the unit a maintained power's duration is declared in.
type DurationUnit string

const (
	DurationRounds  DurationUnit = "rounds"
	DurationMinutes DurationUnit = "minutes"
	DurationHours   DurationUnit = "hours"
)

// backlashDie is the die rolled for psychic backlash damage when a
// focus-requiring power is torn away involuntarily.
const backlashDie = 4

// MaintainedPower is one ongoing power a psion is sustaining.
type MaintainedPower struct {
	PowerID               string       `json:"powerId"`
	StartTime             time.Time    `json:"startTime"`
	Duration              int          `json:"duration"`
	RemainingDuration     int          `json:"remainingDuration"`
	DurationUnit          DurationUnit `json:"durationUnit"`
	ConcentrationRequired bool         `json:"concentrationRequired"`
	FocusRequired         bool         `json:"focusRequired"`
}

// FocusState is the sustained-power bookkeeping for one character.
type FocusState struct {
	// FocusLimit is the level-derived cap on simultaneously maintained
	// focus-requiring powers.
	FocusLimit int `json:"focusLimit"`

	// MaintainedPowers is the ordered list of active sustained powers.
	MaintainedPowers []MaintainedPower `json:"maintainedPowers"`

	// ConcentrationPowerID names the single active concentration power,
	// empty when none.
	ConcentrationPowerID string `json:"concentrationPower,omitempty"`
}

// FocusLimitForLevel derives the focus limit from character level:
// 1 below level 6, 2 for levels 6-9, 3 at 10 and above.
func FocusLimitForLevel(level int) int {
	switch {
	case level >= 10:
		return 3
	case level >= 6:
		return 2
	default:
		return 1
	}
}

// NewFocusState creates empty bookkeeping with the level-derived limit.
func NewFocusState(level int) FocusState {
	return FocusState{FocusLimit: FocusLimitForLevel(level)}
}

// FocusDenial is one reason a power cannot be maintained.
type FocusDenial struct {
	Code    FocusDenialCode
	Message string
}

// FocusDenialCode categorizes maintain rejections.
type FocusDenialCode string

const (
	// DenialFocusLimit indicates the focus-requiring power count is at
	// the limit.
	DenialFocusLimit FocusDenialCode = "FOCUS_LIMIT_REACHED"

	// DenialConcentrationBusy indicates a concentration power is already
	// active.
	DenialConcentrationBusy FocusDenialCode = "CONCENTRATION_ACTIVE"

	// DenialDuplicatePower indicates the power is already maintained.
	DenialDuplicatePower FocusDenialCode = "ALREADY_MAINTAINED"
)

// focusedCount returns how many maintained powers require focus.
func (s FocusState) focusedCount() int {
	n := 0
	for _, p := range s.MaintainedPowers {
		if p.FocusRequired {
			n++
		}
	}
	return n
}

// CanMaintainAdditionalPower checks whether a new power could be sustained
// right now. Every violated constraint is returned, not just the first.
func (s FocusState) CanMaintainAdditionalPower(power MaintainedPower) (bool, []FocusDenial) {
	var denials []FocusDenial

	for _, p := range s.MaintainedPowers {
		if p.PowerID == power.PowerID {
			denials = append(denials, FocusDenial{
				Code:    DenialDuplicatePower,
				Message: fmt.Sprintf("power %q is already maintained", power.PowerID),
			})
			break
		}
	}
	if power.FocusRequired && s.focusedCount() >= s.FocusLimit {
		denials = append(denials, FocusDenial{
			Code:    DenialFocusLimit,
			Message: fmt.Sprintf("focus limit %d reached", s.FocusLimit),
		})
	}
	if power.ConcentrationRequired && s.ConcentrationPowerID != "" {
		denials = append(denials, FocusDenial{
			Code:    DenialConcentrationBusy,
			Message: fmt.Sprintf("already concentrating on %q", s.ConcentrationPowerID),
		})
	}

	return len(denials) == 0, denials
}

// FocusError reports a rejected focus operation.
type FocusError struct {
	Code    FocusErrorCode
	Message string
	Denials []FocusDenial
}

// FocusErrorCode categorizes focus operation failures.
type FocusErrorCode string

const (
	// ErrCodeCannotMaintain indicates CanMaintainAdditionalPower said no.
	ErrCodeCannotMaintain FocusErrorCode = "CANNOT_MAINTAIN"

	// ErrCodeUnknownPower indicates a power id not currently maintained.
	ErrCodeUnknownPower FocusErrorCode = "UNKNOWN_POWER"
)

// Error implements the error interface.
func (e *FocusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownPowerError returns true for missing-power rejections.
func IsUnknownPowerError(err error) bool {
	var fe *FocusError
	if errors.As(err, &fe) {
		return fe.Code == ErrCodeUnknownPower
	}
	return false
}

// AddMaintainedPower starts sustaining a power. RemainingDuration is
// initialized from Duration when unset.
func (s FocusState) AddMaintainedPower(power MaintainedPower) (FocusState, error) {
	ok, denials := s.CanMaintainAdditionalPower(power)
	if !ok {
		return s, &FocusError{
			Code:    ErrCodeCannotMaintain,
			Message: denials[0].Message,
			Denials: denials,
		}
	}

	if power.RemainingDuration == 0 {
		power.RemainingDuration = power.Duration
	}

	powers := make([]MaintainedPower, len(s.MaintainedPowers), len(s.MaintainedPowers)+1)
	copy(powers, s.MaintainedPowers)
	s.MaintainedPowers = append(powers, power)

	if power.ConcentrationRequired {
		s.ConcentrationPowerID = power.PowerID
	}

	return s, nil
}

// RemovalCause explains why a maintained power ended.
type RemovalCause string

const (
	CauseVoluntary   RemovalCause = "voluntary"
	CauseDisrupted   RemovalCause = "disrupted"
	CauseUnconscious RemovalCause = "unconscious"
	CauseDeath       RemovalCause = "death"
	CauseOverload    RemovalCause = "overload"
	CauseExpired     RemovalCause = "expired"
)

// RemovalResult describes the fallout of ending a maintained power.
type RemovalResult struct {
	// PsychicBacklash is true when the removal was involuntary and the
	// power required focus.
	PsychicBacklash bool

	// BacklashDamage is the 1d4 psychic damage rolled when backlash
	// triggered.
	BacklashDamage int
}

// RemoveMaintainedPower ends one power. An involuntary cause on a
// focus-requiring power triggers psychic backlash (1d4); voluntary release
// never does. Expiry is bookkeeping, not a tear-away, so it does not
// backlash either.
func (s FocusState) RemoveMaintainedPower(powerID string, cause RemovalCause, src dice.Source) (FocusState, RemovalResult, error) {
	idx := -1
	for i, p := range s.MaintainedPowers {
		if p.PowerID == powerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, RemovalResult{}, &FocusError{
			Code:    ErrCodeUnknownPower,
			Message: fmt.Sprintf("power %q is not maintained", powerID),
		}
	}

	removed := s.MaintainedPowers[idx]

	powers := make([]MaintainedPower, 0, len(s.MaintainedPowers)-1)
	powers = append(powers, s.MaintainedPowers[:idx]...)
	powers = append(powers, s.MaintainedPowers[idx+1:]...)
	s.MaintainedPowers = powers

	if s.ConcentrationPowerID == powerID {
		s.ConcentrationPowerID = ""
	}

	result := RemovalResult{}
	if removed.FocusRequired && cause != CauseVoluntary && cause != CauseExpired {
		result.PsychicBacklash = true
		result.BacklashDamage = src.Roll(backlashDie)
	}

	return s, result, nil
}

// BreakAllMaintainedPowers clears every maintained power and the
// concentration pointer in one step, for unconsciousness, death, or
// overload. Each focus-requiring power torn away rolls its own backlash.
func (s FocusState) BreakAllMaintainedPowers(cause RemovalCause, src dice.Source) (FocusState, []RemovalResult) {
	results := make([]RemovalResult, 0, len(s.MaintainedPowers))
	for _, p := range s.MaintainedPowers {
		r := RemovalResult{}
		if p.FocusRequired && cause != CauseVoluntary && cause != CauseExpired {
			r.PsychicBacklash = true
			r.BacklashDamage = src.Roll(backlashDie)
		}
		results = append(results, r)
	}

	s.MaintainedPowers = nil
	s.ConcentrationPowerID = ""

	return s, results
}

// Elapsed is game time passed since the last update, expressed in each
// duration unit. A combat round is six seconds; callers convert as suits
// their table's pacing.
type Elapsed struct {
	Rounds  int
	Minutes int
	Hours   int
}

// forUnit returns the elapsed amount matching a declared duration unit.
func (e Elapsed) forUnit(unit DurationUnit) int {
	switch unit {
	case DurationRounds:
		return e.Rounds
	case DurationMinutes:
		return e.Minutes
	case DurationHours:
		return e.Hours
	default:
		return 0
	}
}

// UpdateMaintainedPowers advances time: each power's remaining duration
// drops by the elapsed amount in its declared unit, expired powers are
// pruned, and the concentration pointer is cleared if its power expired.
// Returns the new state and the ids of expired powers.
func (s FocusState) UpdateMaintainedPowers(elapsed Elapsed) (FocusState, []string) {
	var expired []string
	var kept []MaintainedPower

	for _, p := range s.MaintainedPowers {
		p.RemainingDuration -= elapsed.forUnit(p.DurationUnit)
		if p.RemainingDuration <= 0 {
			expired = append(expired, p.PowerID)
			if s.ConcentrationPowerID == p.PowerID {
				s.ConcentrationPowerID = ""
			}
			continue
		}
		kept = append(kept, p)
	}

	s.MaintainedPowers = kept
	return s, expired
}

// ConcentrationSaveDC computes the save DC to hold concentration after
// taking damage: max(10, floor(damage/2)).
func ConcentrationSaveDC(damageTaken int) int {
	dc := damageTaken / 2
	if dc < 10 {
		return 10
	}
	return dc
}
