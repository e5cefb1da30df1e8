// Package mechanics implements the physical side of the character model:
// the bounded resource-pool primitive, hit points with the death state
// machine and massive-damage rule, heat stress with steam-vent and coolant
// mitigation, the pure numeric calculators, and the accumulated-error
// domain validators.
//
// Every mutator is a pure function of (state, parameters) -> new state.
// Chance-based operations take a dice.Source so outcomes are reproducible.
package mechanics
