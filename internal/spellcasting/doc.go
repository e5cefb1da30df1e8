// Package spellcasting implements the two parallel casting economies: the
// Arcanist's Aether Flux Points with heat risk and Overclock, and the
// Templar's Resonance Charges with faith feedback and Overchannel. Both
// share one shape - a charge pool, a capped risk accumulator, a per-rest
// overdrive counter, and a derived bonus recomputed deterministically from
// recent-cast history.
//
// Cast precondition checks enumerate every violated constraint rather than
// short-circuiting, so a caller can surface the complete list at once.
package spellcasting
