package spellcasting

import (
	"errors"
	"fmt"

	"github.com/roach88/aetherforge/internal/mechanics"
)

// Archetype selects which of the two parallel casting economies applies.
type Archetype string

const (
	// ArchetypeArcanist spends Aether Flux Points and accumulates heat;
	// its overdrive is Overclock and its derived bonus the equilibrium
	// tier.
	ArchetypeArcanist Archetype = "arcanist"

	// ArchetypeTemplar spends Resonance Charges and accumulates faith
	// feedback; its overdrive is Overchannel and its derived bonus the
	// resonance harmony score.
	ArchetypeTemplar Archetype = "templar"
)

// harmonyCap bounds the derived bonus score.
const harmonyCap = 20

// harmonyFailurePenalty is subtracted from the score per failed cast.
const harmonyFailurePenalty = 2

// castHistoryLimit bounds the recent-cast log the derived bonus is
// recomputed from.
const castHistoryLimit = 10

// Params are the archetype's casting constants, compiled from the rules
// tables.
type Params struct {
	// ChargeName labels the pool ("AFP" or "RC").
	ChargeName string `json:"chargeName"`

	// RiskName labels the accumulator ("heat" or "faithFeedback").
	RiskName string `json:"riskName"`

	// OverdriveName labels the per-rest ability ("overclock" or
	// "overchannel").
	OverdriveName string `json:"overdriveName"`

	// BaseCost is the charge cost of casting a power at its own level.
	BaseCost int `json:"baseCost"`

	// PerLevelScaling is the extra cost per level of upcast.
	PerLevelScaling int `json:"perLevelScaling"`

	// RiskCap is the accumulator ceiling.
	RiskCap int `json:"riskCap"`

	// OverdriveMaxPerDay is the per-rest-cycle use limit.
	OverdriveMaxPerDay int `json:"overdriveMaxPerDay"`

	// BaseCharges and ChargesPerLevel derive the pool maximum at build.
	BaseCharges     int `json:"baseCharges"`
	ChargesPerLevel int `json:"chargesPerLevel"`
}

// CastRecord is one entry in the recent-cast history.
type CastRecord struct {
	Category  string `json:"category"`
	Succeeded bool   `json:"succeeded"`
	Overdrive bool   `json:"overdrive"`
}

// State is one archetype's full casting economy.
type State struct {
	Archetype Archetype `json:"archetype"`

	// Charges is the AFP/RC pool.
	Charges mechanics.Pool `json:"charges"`

	// Risk is the heat/faith-feedback accumulator, bounded by RiskCap.
	Risk    int `json:"risk"`
	RiskCap int `json:"riskCap"`

	// OverdriveUsed counts overdrive activations this rest cycle.
	OverdriveUsed      int `json:"overdriveUsed"`
	OverdriveMaxPerDay int `json:"overdriveMaxPerDay"`

	// Harmony is the derived bonus (equilibrium tier source for the
	// Arcanist, resonance harmony for the Templar), recomputed from
	// RecentCasts after every cast.
	Harmony int `json:"harmony"`

	// RecentCasts is the bounded cast history, oldest first.
	RecentCasts []CastRecord `json:"recentCasts"`
}

// NewState builds an economy for a character of the given level.
func NewState(archetype Archetype, level int, p Params) State {
	return State{
		Archetype:          archetype,
		Charges:            mechanics.NewPool(p.BaseCharges + p.ChargesPerLevel*level),
		RiskCap:            p.RiskCap,
		OverdriveMaxPerDay: p.OverdriveMaxPerDay,
	}
}

// CastRequest describes one attempted cast.
type CastRequest struct {
	// PowerLevel is the power's native level; CastLevel the level it is
	// being cast at (>= PowerLevel).
	PowerLevel int
	CastLevel  int

	// Category groups powers for the harmony recomputation.
	Category string

	// Overdrive requests the archetype's overdrive ability.
	Overdrive bool

	// OverdriveEligible marks whether the power supports overdrive at
	// all.
	OverdriveEligible bool
}

// CastViolation is one failed precondition.
type CastViolation struct {
	Code    CastViolationCode
	Message string
}

// CastViolationCode categorizes precondition failures.
type CastViolationCode string

const (
	// ViolationInsufficientCharge indicates the pool cannot cover the
	// cost.
	ViolationInsufficientCharge CastViolationCode = "INSUFFICIENT_CHARGE"

	// ViolationOverdriveExhausted indicates no overdrive uses remain
	// this rest cycle.
	ViolationOverdriveExhausted CastViolationCode = "OVERDRIVE_EXHAUSTED"

	// ViolationOverdriveIneligible indicates the power cannot be
	// overdriven.
	ViolationOverdriveIneligible CastViolationCode = "OVERDRIVE_INELIGIBLE"

	// ViolationRiskCap indicates the resulting risk would exceed the
	// cap.
	ViolationRiskCap CastViolationCode = "RISK_CAP_EXCEEDED"

	// ViolationBadLevels indicates cast level below power level.
	ViolationBadLevels CastViolationCode = "INVALID_CAST_LEVEL"
)

// CastError reports a rejected cast with every violated precondition.
type CastError struct {
	Violations []CastViolation
}

// Error implements the error interface.
func (e *CastError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("cast rejected: %s: %s", e.Violations[0].Code, e.Violations[0].Message)
	}
	return fmt.Sprintf("cast rejected: %d preconditions violated", len(e.Violations))
}

// IsCastError returns true if err is (or wraps) a CastError.
func IsCastError(err error) bool {
	var ce *CastError
	return errors.As(err, &ce)
}

// CastCost computes the scaled charge cost:
// base + (castLevel - powerLevel) * perLevelScaling.
func CastCost(p Params, powerLevel, castLevel int) int {
	return p.BaseCost + (castLevel-powerLevel)*p.PerLevelScaling
}

// riskForCast is the accumulator increase for a cast: one point per cast
// level, doubled under overdrive.
func riskForCast(castLevel int, overdrive bool) int {
	risk := castLevel
	if risk < 1 {
		risk = 1
	}
	if overdrive {
		risk *= 2
	}
	return risk
}

// CheckCast evaluates every cast precondition and returns ALL violations
// found, never short-circuiting on the first. An empty slice means the
// cast may proceed.
func (s State) CheckCast(req CastRequest, p Params) []CastViolation {
	var violations []CastViolation

	if req.CastLevel < req.PowerLevel {
		violations = append(violations, CastViolation{
			Code:    ViolationBadLevels,
			Message: fmt.Sprintf("cast level %d below power level %d", req.CastLevel, req.PowerLevel),
		})
	}

	cost := CastCost(p, req.PowerLevel, req.CastLevel)
	if cost > s.Charges.Current {
		violations = append(violations, CastViolation{
			Code:    ViolationInsufficientCharge,
			Message: fmt.Sprintf("cost %d exceeds %d remaining %s", cost, s.Charges.Current, p.ChargeName),
		})
	}

	if req.Overdrive {
		if !req.OverdriveEligible {
			violations = append(violations, CastViolation{
				Code:    ViolationOverdriveIneligible,
				Message: fmt.Sprintf("power is not eligible for %s", p.OverdriveName),
			})
		}
		if s.OverdriveUsed >= s.OverdriveMaxPerDay {
			violations = append(violations, CastViolation{
				Code:    ViolationOverdriveExhausted,
				Message: fmt.Sprintf("%s already used %d of %d times", p.OverdriveName, s.OverdriveUsed, s.OverdriveMaxPerDay),
			})
		}
	}

	if s.Risk+riskForCast(req.CastLevel, req.Overdrive) > s.RiskCap {
		violations = append(violations, CastViolation{
			Code:    ViolationRiskCap,
			Message: fmt.Sprintf("resulting %s would exceed cap %d", p.RiskName, s.RiskCap),
		})
	}

	return violations
}

// CastResult describes a resolved cast.
type CastResult struct {
	// Cost is the charges deducted.
	Cost int

	// RiskAdded is the accumulator increase (doubled under overdrive).
	RiskAdded int

	// Harmony is the recomputed derived bonus after this cast.
	Harmony int

	// RiskPenalty is the attack/DC penalty at the new risk level.
	RiskPenalty int
}

// Cast resolves a successful cast attempt: all preconditions are checked
// (rejecting with the full violation list), the scaled cost is deducted,
// risk accumulates, and the derived bonus is recomputed from the updated
// cast history.
func (s State) Cast(req CastRequest, p Params) (State, CastResult, error) {
	if violations := s.CheckCast(req, p); len(violations) > 0 {
		return s, CastResult{}, &CastError{Violations: violations}
	}

	cost := CastCost(p, req.PowerLevel, req.CastLevel)
	risk := riskForCast(req.CastLevel, req.Overdrive)

	s.Charges, _ = s.Charges.ApplyDamage(cost)
	s.Risk += risk
	if req.Overdrive {
		s.OverdriveUsed++
	}

	s = s.recordCast(CastRecord{Category: req.Category, Succeeded: true, Overdrive: req.Overdrive})

	return s, CastResult{
		Cost:        cost,
		RiskAdded:   risk,
		Harmony:     s.Harmony,
		RiskPenalty: RiskPenalty(s.Risk, s.RiskCap),
	}, nil
}

// RecordFailedCast notes a failed casting attempt (e.g. a disrupted ritual)
// in the history. Failed casts cost no charges but drag the derived bonus
// down.
func (s State) RecordFailedCast(category string) State {
	return s.recordCast(CastRecord{Category: category, Succeeded: false})
}

// recordCast appends to the bounded history and recomputes harmony.
func (s State) recordCast(rec CastRecord) State {
	history := make([]CastRecord, 0, castHistoryLimit)
	start := 0
	if len(s.RecentCasts) >= castHistoryLimit {
		start = len(s.RecentCasts) - castHistoryLimit + 1
	}
	history = append(history, s.RecentCasts[start:]...)
	history = append(history, rec)

	s.RecentCasts = history
	s.Harmony = RecomputeHarmony(history)
	return s
}

// RecomputeHarmony derives the bonus score from a cast history, oldest
// first: each successful cast in the same category as its successful
// predecessor adds one, any failed cast subtracts two, and the score is
// clamped to [0, 20]. The recomputation is deterministic - equal histories
// always yield equal scores.
func RecomputeHarmony(history []CastRecord) int {
	harmony := 0
	var prev *CastRecord

	for i := range history {
		rec := history[i]
		if !rec.Succeeded {
			harmony -= harmonyFailurePenalty
			if harmony < 0 {
				harmony = 0
			}
			prev = nil
			continue
		}
		if prev != nil && prev.Category == rec.Category {
			harmony++
			if harmony > harmonyCap {
				harmony = harmonyCap
			}
		}
		prev = &history[i]
	}

	return harmony
}

// EquilibriumTier converts the harmony score into the Arcanist's coarse
// tier (0-4).
func EquilibriumTier(harmony int) int {
	return harmony / 5
}

// RiskPenalty buckets the accumulator into the escalating attack/DC
// penalty: below 50% of cap none, at 50% -1, at 75% -2, at 100% -4.
func RiskPenalty(risk, cap int) int {
	if cap <= 0 {
		return 0
	}
	switch {
	case risk*100 >= cap*100:
		return -4
	case risk*100 >= cap*75:
		return -2
	case risk*100 >= cap*50:
		return -1
	default:
		return 0
	}
}

// ShedRisk reduces the accumulator (cooldown, prayer, rest), floored at 0.
func (s State) ShedRisk(amount int) State {
	if amount <= 0 {
		return s
	}
	s.Risk -= amount
	if s.Risk < 0 {
		s.Risk = 0
	}
	return s
}

// LongRest restores the economy: full charges, zero risk, overdrive uses
// back, history cleared.
func (s State) LongRest() State {
	s.Charges.Current = s.Charges.Maximum
	s.Charges.Temporary = 0
	s.Risk = 0
	s.OverdriveUsed = 0
	s.RecentCasts = nil
	s.Harmony = 0
	return s
}
