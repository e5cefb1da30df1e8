// Package psionics implements the mental side of the character model:
// sustained-power focus and concentration bookkeeping, the overload
// recovery window with feedback-effect accumulation, and the lingering
// detectable signature left by power use.
//
// Like the rest of the engine, every operation is pure and every
// time-sensitive rule takes an explicit moment or elapsed amount from the
// caller. There is no scheduler here.
package psionics
