package psionics

import "time"

// Recovery pacing: each point of excess AFP takes ten minutes to burn off.
const recoveryMinutesPerExcess = 10

// feedbackExpiryMinutes is how long non-persistent feedback effects last.
const feedbackExpiryMinutes = 10

// FeedbackType identifies a feedback effect category.
type FeedbackType string

const (
	// FeedbackNeuralSpark stacks as independent instances.
	FeedbackNeuralSpark FeedbackType = "neural_spark"

	// FeedbackAetherFlare stacks as independent instances.
	FeedbackAetherFlare FeedbackType = "aether_flare"

	// FeedbackMindfracture never expires on its own; only downtime
	// treatment removes it.
	FeedbackMindfracture FeedbackType = "mindfracture"

	// FeedbackSynapticStatic replaces any existing instance of itself.
	FeedbackSynapticStatic FeedbackType = "synaptic_static"

	// FeedbackPhantomPain replaces any existing instance of itself.
	FeedbackPhantomPain FeedbackType = "phantom_pain"
)

// stackableFeedback designates the types that accumulate as independent
// instances. Every other type replaces the existing instance of its type.
var stackableFeedback = map[FeedbackType]bool{
	FeedbackNeuralSpark: true,
	FeedbackAetherFlare: true,
}

// FeedbackEffect is one accumulated overload side effect.
type FeedbackEffect struct {
	Type        FeedbackType `json:"type"`
	Description string       `json:"description"`
	Severity    int          `json:"severity"`
}

// OverloadRecovery tracks an in-progress recovery window.
type OverloadRecovery struct {
	RecoveryStartTime time.Time `json:"recoveryStartTime"`
	// RecoveryDuration is in minutes.
	RecoveryDuration int       `json:"recoveryDuration"`
	PenaltiesActive  bool      `json:"penaltiesActive"`
	NextRecoveryTime time.Time `json:"nextRecoveryTime"`
}

// OverloadState is the psionic overload subsystem's full state.
type OverloadState struct {
	IsOverloaded        bool              `json:"isOverloaded"`
	ExcessAFP           int               `json:"excessAfp"`
	SaveDC              int               `json:"saveDc"`
	FeedbackRisk        int               `json:"feedbackRisk"`
	Recovery            *OverloadRecovery `json:"recovery,omitempty"`
	AccumulatedFeedback []FeedbackEffect  `json:"accumulatedFeedback"`
}

// CalculateOverloadRecovery enters the recovery window for an overload of
// the given excess: ten minutes per excess point, penalties active until
// the window elapses.
func (s OverloadState) CalculateOverloadRecovery(excessAFP int, now time.Time) OverloadState {
	if excessAFP < 0 {
		excessAFP = 0
	}

	duration := excessAFP * recoveryMinutesPerExcess
	s.IsOverloaded = true
	s.ExcessAFP = excessAFP
	s.Recovery = &OverloadRecovery{
		RecoveryStartTime: now,
		RecoveryDuration:  duration,
		PenaltiesActive:   true,
		NextRecoveryTime:  now.Add(time.Duration(duration) * time.Minute),
	}

	return s
}

// CheckOverloadRecovery reports whether the recovery window has elapsed.
// On completion the overload flag and penalties clear; before completion
// the state passes through unchanged.
func (s OverloadState) CheckOverloadRecovery(now time.Time) (OverloadState, bool) {
	if s.Recovery == nil {
		return s, !s.IsOverloaded
	}

	elapsed := now.Sub(s.Recovery.RecoveryStartTime)
	required := time.Duration(s.Recovery.RecoveryDuration) * time.Minute
	if elapsed < required {
		return s, false
	}

	s.IsOverloaded = false
	s.ExcessAFP = 0
	s.Recovery = nil

	return s, true
}

// AccumulateFeedbackEffects folds new effects into the accumulated list.
// Stackable types (neural spark, aether flare) append as independent
// instances; every other type replaces the existing instance of its type.
func AccumulateFeedbackEffects(effects []FeedbackEffect, incoming ...FeedbackEffect) []FeedbackEffect {
	out := make([]FeedbackEffect, len(effects))
	copy(out, effects)

	for _, effect := range incoming {
		if stackableFeedback[effect.Type] {
			out = append(out, effect)
			continue
		}

		replaced := false
		for i, existing := range out {
			if existing.Type == effect.Type {
				out[i] = effect
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, effect)
		}
	}

	return out
}

// ClearExpiredFeedbackEffects drops effects whose lifetime has passed.
// Mindfracture survives indefinitely; everything else expires once ten
// minutes have elapsed.
func ClearExpiredFeedbackEffects(effects []FeedbackEffect, elapsedMinutes int) []FeedbackEffect {
	if elapsedMinutes < feedbackExpiryMinutes {
		out := make([]FeedbackEffect, len(effects))
		copy(out, effects)
		return out
	}

	var kept []FeedbackEffect
	for _, effect := range effects {
		if effect.Type == FeedbackMindfracture {
			kept = append(kept, effect)
		}
	}
	return kept
}
