package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aetherforge/internal/mechanics"
)

// Scenario defines one conformance scenario: a character, a sequence of
// engine operations, and assertions on the final snapshot.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named
	// after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Time is the fixed wall-clock base for the run, RFC 3339. Defaults
	// to 2024-03-01T10:00:00Z so golden files stay stable.
	Time string `yaml:"time,omitempty"`

	// Rolls scripts the dice source. Ops that roll (steam vents,
	// backlash) consume entries in order; running out fails the
	// scenario loudly rather than silently randomizing.
	Rolls []int `yaml:"rolls,omitempty"`

	// Character describes the aggregate under test.
	Character CharacterSpec `yaml:"character"`

	// Steps is the ordered operation sequence.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final snapshot document.
	Assertions []Assertion `yaml:"assertions"`
}

// CharacterSpec builds the scenario's character.
type CharacterSpec struct {
	ID         string              `yaml:"id"`
	Name       string              `yaml:"name"`
	Level      int                 `yaml:"level"`
	Emotion    string              `yaml:"emotion,omitempty"`
	Archetypes []string            `yaml:"archetypes,omitempty"`
	Abilities  mechanics.Abilities `yaml:"abilities"`
}

// Step is one engine operation. Which fields apply depends on Op; unused
// fields are ignored by the executor but rejected by strict YAML parsing
// when misspelled.
type Step struct {
	Op string `yaml:"op"`

	// Shared numeric argument: damage, healing, heat, excess AFP, risk.
	Amount int `yaml:"amount,omitempty"`

	// Heat fields.
	Source      string `yaml:"source,omitempty"`
	Description string `yaml:"description,omitempty"`
	Charges     int    `yaml:"charges,omitempty"`
	MaxCharges  int    `yaml:"maxCharges,omitempty"`
	Reduction   int    `yaml:"reduction,omitempty"`
	Risk        int    `yaml:"risk,omitempty"`
	Condition   string `yaml:"condition,omitempty"`

	// Death save outcome.
	Success bool `yaml:"success,omitempty"`

	// Focus fields.
	PowerID       string `yaml:"powerId,omitempty"`
	Duration      int    `yaml:"duration,omitempty"`
	DurationUnit  string `yaml:"durationUnit,omitempty"`
	Concentration bool   `yaml:"concentration,omitempty"`
	Focus         bool   `yaml:"focus,omitempty"`
	Cause         string `yaml:"cause,omitempty"`

	// Time advancement.
	Rounds  int `yaml:"rounds,omitempty"`
	Minutes int `yaml:"minutes,omitempty"`
	Hours   int `yaml:"hours,omitempty"`

	// Casting fields.
	Archetype         string `yaml:"archetype,omitempty"`
	Tier              int    `yaml:"tier,omitempty"`
	PowerLevel        int    `yaml:"powerLevel,omitempty"`
	CastLevel         int    `yaml:"castLevel,omitempty"`
	Category          string `yaml:"category,omitempty"`
	Overdrive         bool   `yaml:"overdrive,omitempty"`
	OverdriveEligible bool   `yaml:"overdriveEligible,omitempty"`

	// Feedback fields.
	FeedbackType string `yaml:"feedbackType,omitempty"`
	Severity     int    `yaml:"severity,omitempty"`
}

// Assertion checks one value in the final snapshot document.
type Assertion struct {
	// Path addresses the value, e.g. "hitPoints.pool.current" or
	// "heatStress.recentAccumulation[0].amount".
	Path string `yaml:"path"`

	// Equals is the expected value. Integers, strings, bools, and nested
	// structures are compared structurally.
	Equals any `yaml:"equals"`
}

// Supported step operations.
const (
	OpTakeDamage    = "take_damage"
	OpHeal          = "heal"
	OpAddTemporary  = "add_temporary"
	OpDeathSave     = "death_save"
	OpStabilize     = "stabilize"
	OpRevive        = "revive"
	OpAddHeat       = "add_heat"
	OpEquipHarness  = "equip_harness"
	OpUseVent       = "use_vent"
	OpAddCoolant    = "add_coolant"
	OpUseCoolant    = "use_coolant"
	OpMaintainPower = "maintain_power"
	OpRemovePower   = "remove_power"
	OpBreakAll      = "break_all"
	OpAdvance       = "advance"
	OpOverload      = "overload"
	OpFeedback      = "feedback"
	OpCast          = "cast"
	OpFailCast      = "fail_cast"
	OpShedRisk      = "shed_risk"
	OpLongRest      = "long_rest"
)

var knownOps = map[string]bool{
	OpTakeDamage: true, OpHeal: true, OpAddTemporary: true,
	OpDeathSave: true, OpStabilize: true, OpRevive: true,
	OpAddHeat: true, OpEquipHarness: true, OpUseVent: true,
	OpAddCoolant: true, OpUseCoolant: true,
	OpMaintainPower: true, OpRemovePower: true, OpBreakAll: true,
	OpAdvance: true, OpOverload: true, OpFeedback: true,
	OpCast: true, OpFailCast: true, OpShedRisk: true, OpLongRest: true,
}

// defaultScenarioTime keeps golden files stable when a scenario does not
// pin its own clock.
const defaultScenarioTime = "2024-03-01T10:00:00Z"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs
	// "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Character.ID == "" {
		return fmt.Errorf("character.id is required")
	}
	if s.Character.Name == "" {
		return fmt.Errorf("character.name is required")
	}
	if s.Character.Level == 0 {
		return fmt.Errorf("character.level is required")
	}

	if s.Time != "" {
		if _, err := time.Parse(time.RFC3339, s.Time); err != nil {
			return fmt.Errorf("time: %w", err)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if !knownOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required", i)
		}
	}

	return nil
}

// baseTime returns the scenario's fixed clock.
func (s *Scenario) baseTime() time.Time {
	str := s.Time
	if str == "" {
		str = defaultScenarioTime
	}
	// Validated in validateScenario.
	ts, _ := time.Parse(time.RFC3339, str)
	return ts
}
