// Package harness provides scenario-driven conformance testing for the
// character state engine.
//
// The harness builds a character from a YAML scenario, drives it through a
// sequence of engine operations with deterministic time and dice, and
// validates the final snapshot document.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	time: 2024-03-01T10:00:00Z
//	rolls: [40, 2]
//	character:
//	  id: chr-1
//	  name: Vessa
//	  level: 3
//	  emotion: anger
//	  archetypes: [arcanist]
//	  abilities: { strength: 10, dexterity: 10, ... }
//	steps:
//	  - op: take_damage
//	    amount: 5
//	  - op: add_heat
//	    amount: 6
//	    source: forge
//	assertions:
//	  - path: hitPoints.pool.current
//	    equals: 17
//
// Step outcomes accumulate in one character value; every mutation goes
// through the same pure engine functions production callers use. The
// scenario's fixed time base and scripted dice make runs reproducible.
//
// Assertions resolve structured paths into the final serialized snapshot.
// Golden comparison (RunWithGolden) additionally pins the entire canonical
// document, so any unintended field drift fails the scenario.
package harness
