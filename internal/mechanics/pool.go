package mechanics

// Pool is the bounded numeric resource primitive shared by hit points and
// the charge pools. Invariants: 0 <= Current <= Maximum, Temporary >= 0.
//
// All mutators are pure: they take the pool by value and return the new
// pool. Nothing in this package mutates in place.
type Pool struct {
	Current   int `json:"current"`
	Maximum   int `json:"maximum"`
	Temporary int `json:"temporary,omitempty"`
}

// NewPool creates a full pool with the given maximum.
func NewPool(maximum int) Pool {
	return Pool{Current: maximum, Maximum: maximum}
}

// DamageResult reports how an ApplyDamage call split across the temporary
// overlay and the underlying pool.
type DamageResult struct {
	// Absorbed is the portion soaked by temporary points.
	Absorbed int

	// Taken is the portion applied to Current.
	Taken int
}

// ApplyDamage applies damage to the pool. Temporary points absorb first;
// the remainder reduces Current, floored at 0. Negative and zero amounts
// are no-ops.
func (p Pool) ApplyDamage(amount int) (Pool, DamageResult) {
	if amount <= 0 {
		return p, DamageResult{}
	}

	absorbed := amount
	if p.Temporary < absorbed {
		absorbed = p.Temporary
	}
	p.Temporary -= absorbed

	taken := amount - absorbed
	p.Current -= taken
	if p.Current < 0 {
		p.Current = 0
	}

	return p, DamageResult{Absorbed: absorbed, Taken: taken}
}

// ApplyHealing adds to Current, capped at Maximum. Healing never touches
// the temporary overlay. Returns the new pool and the points actually
// restored.
func (p Pool) ApplyHealing(amount int) (Pool, int) {
	if amount <= 0 || p.Current >= p.Maximum {
		return p, 0
	}

	before := p.Current
	p.Current += amount
	if p.Current > p.Maximum {
		p.Current = p.Maximum
	}

	return p, p.Current - before
}

// AddTemporary grants temporary points. Temporary points never stack:
// the pool keeps the larger of the existing and incoming grant, matching
// standard tabletop rules.
func (p Pool) AddTemporary(amount int) Pool {
	if amount > p.Temporary {
		p.Temporary = amount
	}
	return p
}

// IsEmpty reports whether Current has hit the floor.
func (p Pool) IsEmpty() bool {
	return p.Current == 0
}

// ValidatePool checks pool invariants, accumulating every violation.
// The prefix names the pool in field codes, e.g. "hitPoints".
func ValidatePool(prefix string, p Pool) error {
	var errs []FieldError

	if p.Maximum < 1 {
		errs = append(errs, FieldError{
			Field:   prefix + ".maximum",
			Code:    ErrCodeOutOfRange,
			Message: "maximum must be at least 1",
		})
	}
	if p.Current < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".current",
			Code:    ErrCodeNegative,
			Message: "current cannot be negative",
		})
	}
	if p.Current > p.Maximum {
		errs = append(errs, FieldError{
			Field:   prefix + ".current",
			Code:    ErrCodeExceedsMaximum,
			Message: "current cannot exceed maximum",
		})
	}
	if p.Temporary < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".temporary",
			Code:    ErrCodeNegative,
			Message: "temporary cannot be negative",
		})
	}

	return collect(errs)
}
