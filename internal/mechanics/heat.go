package mechanics

import (
	"errors"
	"fmt"

	"github.com/roach88/aetherforge/internal/dice"
)

// HeatLevel is the derived stress tier, 0 (none) through 3 (critical).
type HeatLevel int

// Fixed heat thresholds: level 0 = [0,4], 1 = [5,9], 2 = [10,14], 3 = [15,+).
const (
	heatLevel1Threshold = 5
	heatLevel2Threshold = 10
	heatLevel3Threshold = 15
)

// heatHistoryLimit bounds the recent-accumulation log.
const heatHistoryLimit = 10

// coolantFlaskReduction is the fixed heat removed by one coolant flask.
const coolantFlaskReduction = 2

// HeatEffect is one penalty imposed by a stress tier.
type HeatEffect struct {
	Kind        HeatEffectKind `json:"kind"`
	Description string         `json:"description"`
}

// HeatEffectKind identifies a heat penalty.
type HeatEffectKind string

const (
	EffectDexterityPenalty     HeatEffectKind = "dexterity_penalty"
	EffectSpeedReduction       HeatEffectKind = "speed_reduction"
	EffectDisadvantage         HeatEffectKind = "disadvantage"
	EffectEquipmentMalfunction HeatEffectKind = "equipment_malfunction"
)

// heatEffectTable holds the explicit effect set per level. Sets are listed
// in full rather than derived cumulatively: the rules text enumerates them
// per tier and the tiers are not a strict superset chain in the source
// material's wording.
var heatEffectTable = map[HeatLevel][]HeatEffect{
	0: {},
	1: {
		{Kind: EffectDexterityPenalty, Description: "-1 to Dexterity-based checks"},
	},
	2: {
		{Kind: EffectDexterityPenalty, Description: "-2 to Dexterity-based checks"},
		{Kind: EffectSpeedReduction, Description: "speed reduced by 10 feet"},
	},
	3: {
		{Kind: EffectDexterityPenalty, Description: "-3 to Dexterity-based checks"},
		{Kind: EffectSpeedReduction, Description: "speed reduced by 15 feet"},
		{Kind: EffectDisadvantage, Description: "disadvantage on attack rolls and saves"},
		{Kind: EffectEquipmentMalfunction, Description: "equipment malfunctions on attack rolls of 1-3"},
	},
}

// HeatEvent is one entry in the recent-accumulation log.
type HeatEvent struct {
	Source      string `json:"source"`
	Amount      int    `json:"amount"`
	Description string `json:"description,omitempty"`
}

// SteamVentHarness is the optional worn mitigation rig.
type SteamVentHarness struct {
	Charges                int    `json:"charges"`
	MaxCharges             int    `json:"maxCharges"`
	HeatReductionPerUse    int    `json:"heatReductionPerUse"`
	MalfunctionRiskPercent int    `json:"malfunctionRiskPercent"`
	Condition              string `json:"condition"`
}

// HeatStressState is the heat subsystem's full state.
type HeatStressState struct {
	Points        int               `json:"currentHeatPoints"`
	Level         HeatLevel         `json:"currentLevel"`
	Recent        []HeatEvent       `json:"recentAccumulation"`
	Harness       *SteamVentHarness `json:"steamVentHarness,omitempty"`
	CoolantFlasks int               `json:"coolantFlasks"`
}

// CalculateHeatStressLevel derives the stress tier from a point total.
// Negative totals floor to level 0.
func CalculateHeatStressLevel(points int) HeatLevel {
	switch {
	case points >= heatLevel3Threshold:
		return 3
	case points >= heatLevel2Threshold:
		return 2
	case points >= heatLevel1Threshold:
		return 1
	default:
		return 0
	}
}

// HeatEffectsForLevel returns the explicit effect set for a tier.
// The returned slice is shared; callers must not mutate it.
func HeatEffectsForLevel(level HeatLevel) []HeatEffect {
	return heatEffectTable[level]
}

// AddHeatPoints accumulates (or, with a negative amount, sheds) heat.
// Points clamp at 0, the tier is recomputed, and the event is prepended to
// the recent-accumulation log, which keeps only the 10 newest entries.
func (s HeatStressState) AddHeatPoints(source string, amount int, description string) HeatStressState {
	s.Points += amount
	if s.Points < 0 {
		s.Points = 0
	}
	s.Level = CalculateHeatStressLevel(s.Points)

	event := HeatEvent{Source: source, Amount: amount, Description: description}
	recent := make([]HeatEvent, 0, heatHistoryLimit)
	recent = append(recent, event)
	for i := 0; i < len(s.Recent) && len(recent) < heatHistoryLimit; i++ {
		recent = append(recent, s.Recent[i])
	}
	s.Recent = recent

	return s
}

// VentError reports why a steam-vent use was rejected outright.
type VentError struct {
	Code    VentErrorCode
	Message string
}

// VentErrorCode categorizes vent rejections.
type VentErrorCode string

const (
	// ErrCodeNoHarness indicates no steam-vent harness is equipped.
	ErrCodeNoHarness VentErrorCode = "NO_HARNESS"

	// ErrCodeInsufficientCharges indicates fewer charges than requested.
	ErrCodeInsufficientCharges VentErrorCode = "INSUFFICIENT_CHARGES"
)

// Error implements the error interface.
func (e *VentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsVentError returns true if err is (or wraps) a VentError.
func IsVentError(err error) bool {
	var ve *VentError
	return errors.As(err, &ve)
}

// VentResult describes a completed steam-vent use.
type VentResult struct {
	// ChargesSpent is how many charges were consumed.
	ChargesSpent int

	// HeatReduced is the heat actually removed (0 on malfunction).
	HeatReduced int

	// Malfunctioned is true when the malfunction roll came up at or under
	// the harness risk. The charge is still spent.
	Malfunctioned bool
}

// UseSteamVent vents heat through the harness, spending the given number of
// charges. The call fails outright - no heat change, no charge consumed -
// when no harness is equipped or charges are insufficient. Otherwise the
// charges are spent and a malfunction check rolls against the harness risk:
// on malfunction the charges are lost with no heat reduction.
func (s HeatStressState) UseSteamVent(charges int, src dice.Source) (HeatStressState, VentResult, error) {
	if charges < 1 {
		charges = 1
	}
	if s.Harness == nil {
		return s, VentResult{}, &VentError{
			Code:    ErrCodeNoHarness,
			Message: "no steam-vent harness equipped",
		}
	}
	if s.Harness.Charges < charges {
		return s, VentResult{}, &VentError{
			Code:    ErrCodeInsufficientCharges,
			Message: fmt.Sprintf("harness has %d charge(s), %d requested", s.Harness.Charges, charges),
		}
	}

	harness := *s.Harness
	harness.Charges -= charges
	s.Harness = &harness

	if src.Percent() <= harness.MalfunctionRiskPercent {
		return s, VentResult{ChargesSpent: charges, Malfunctioned: true}, nil
	}

	reduction := harness.HeatReductionPerUse * charges
	s = s.AddHeatPoints("steam_vent", -reduction, "vented heat through harness")

	return s, VentResult{ChargesSpent: charges, HeatReduced: reduction}, nil
}

// UseCoolantFlask drinks one coolant flask, shedding a fixed 2 heat.
// A no-op (reported by the bool) when no flasks remain.
func (s HeatStressState) UseCoolantFlask() (HeatStressState, bool) {
	if s.CoolantFlasks <= 0 {
		return s, false
	}

	s.CoolantFlasks--
	s = s.AddHeatPoints("coolant_flask", -coolantFlaskReduction, "drank a coolant flask")

	return s, true
}
