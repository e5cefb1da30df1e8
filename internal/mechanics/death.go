package mechanics

// Consciousness is the death state machine's current state.
// Transitions: Conscious -> Unconscious (HP hits 0) -> Stable (3 save
// successes) or Dead (3 failures, or massive damage at any point).
type Consciousness string

const (
	Conscious   Consciousness = "conscious"
	Unconscious Consciousness = "unconscious"
	Stable      Consciousness = "stable"
	Dead        Consciousness = "dead"
)

// deathSaveLimit is the success/failure count that resolves the state.
const deathSaveLimit = 3

// DeathSaves tracks accumulated death-save results while at 0 HP.
// Both counters clamp to [0,3].
type DeathSaves struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// IsStable reports three accumulated successes.
func (d DeathSaves) IsStable() bool {
	return d.Successes >= deathSaveLimit
}

// IsDead reports three accumulated failures.
func (d DeathSaves) IsDead() bool {
	return d.Failures >= deathSaveLimit
}

// HitPointState is the full hit-point aggregate: the pool, the death state
// machine, and any pending death saves.
type HitPointState struct {
	Pool  Pool          `json:"pool"`
	State Consciousness `json:"state"`
	Saves DeathSaves    `json:"deathSaves"`
}

// NewHitPointState creates a conscious character at full hit points.
func NewHitPointState(maximum int) HitPointState {
	return HitPointState{Pool: NewPool(maximum), State: Conscious}
}

// DamageOutcome describes what a TakeDamage call did.
type DamageOutcome struct {
	// Result is the pool-level damage split.
	Result DamageResult

	// DroppedUnconscious is true when this hit reduced Current to 0 from
	// a positive value.
	DroppedUnconscious bool

	// MassiveDamage is true when the instant-death rule triggered.
	MassiveDamage bool
}

// TakeDamage applies damage and advances the death state machine.
//
// The massive-damage rule is evaluated BEFORE death saves are consulted:
//   - While Current > 0 and the hit would bring it to 0 or below, the
//     excess beyond Current kills instantly when it reaches Maximum.
//   - While already at 0 HP, any hit of Maximum or more kills instantly;
//     a lesser hit records a death-save failure instead.
//
// Damage to a dead character is a no-op.
func (h HitPointState) TakeDamage(amount int) (HitPointState, DamageOutcome) {
	if amount <= 0 || h.State == Dead {
		return h, DamageOutcome{}
	}

	wasDown := h.Pool.IsEmpty()
	before := h.Pool.Current
	pool, result := h.Pool.ApplyDamage(amount)
	h.Pool = pool

	outcome := DamageOutcome{Result: result}

	if wasDown {
		// Temporary points can absorb even at 0 HP; only damage that
		// actually lands matters for the downed rules.
		if result.Taken == 0 {
			return h, outcome
		}
		if result.Taken >= h.Pool.Maximum {
			h.State = Dead
			outcome.MassiveDamage = true
			return h, outcome
		}
		h.Saves = h.Saves.recordFailure()
		if h.Saves.IsDead() {
			h.State = Dead
		}
		return h, outcome
	}

	if !h.Pool.IsEmpty() {
		return h, outcome
	}

	// The hit dropped the character. Check massive damage first: the
	// excess beyond the hit points remaining at the moment of the hit.
	excess := result.Taken - before
	if excess >= h.Pool.Maximum {
		h.State = Dead
		outcome.MassiveDamage = true
		return h, outcome
	}

	h.State = Unconscious
	outcome.DroppedUnconscious = true
	return h, outcome
}

// Heal restores hit points. Healing an unconscious or stable character
// returns them to consciousness and clears pending death saves. Healing
// never revives the dead.
func (h HitPointState) Heal(amount int) (HitPointState, int) {
	if h.State == Dead {
		return h, 0
	}

	pool, healed := h.Pool.ApplyHealing(amount)
	h.Pool = pool

	if healed > 0 && h.Pool.Current > 0 && h.State != Conscious {
		h.State = Conscious
		h.Saves = DeathSaves{}
	}

	return h, healed
}

// RecordDeathSave records one death-save result for an unconscious
// character. Three successes stabilize; three failures kill. Saves made in
// any other state are no-ops.
func (h HitPointState) RecordDeathSave(success bool) HitPointState {
	if h.State != Unconscious {
		return h
	}

	if success {
		h.Saves = h.Saves.recordSuccess()
		if h.Saves.IsStable() {
			h.State = Stable
		}
	} else {
		h.Saves = h.Saves.recordFailure()
		if h.Saves.IsDead() {
			h.State = Dead
		}
	}

	return h
}

// Stabilize marks an unconscious character stable (external event, e.g. a
// medicine check) and resets death saves.
func (h HitPointState) Stabilize() HitPointState {
	if h.State != Unconscious {
		return h
	}
	h.State = Stable
	h.Saves = DeathSaves{}
	return h
}

// Revive returns a dead or dying character to consciousness with the given
// hit points (external event, e.g. a revival ritual). Death saves reset.
func (h HitPointState) Revive(hitPoints int) HitPointState {
	if hitPoints < 1 {
		hitPoints = 1
	}
	if hitPoints > h.Pool.Maximum {
		hitPoints = h.Pool.Maximum
	}
	h.Pool.Current = hitPoints
	h.State = Conscious
	h.Saves = DeathSaves{}
	return h
}

func (d DeathSaves) recordSuccess() DeathSaves {
	d.Successes++
	if d.Successes > deathSaveLimit {
		d.Successes = deathSaveLimit
	}
	return d
}

func (d DeathSaves) recordFailure() DeathSaves {
	d.Failures++
	if d.Failures > deathSaveLimit {
		d.Failures = deathSaveLimit
	}
	return d
}
