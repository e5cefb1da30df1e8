package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/aetherforge/internal/rules"
	"github.com/roach88/aetherforge/internal/snapshot"
)

// RunWithGolden executes a scenario and compares the final canonical
// snapshot document against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// The assertions in the scenario still run; the golden comparison pins the
// entire document on top of them, so any field drift fails even when no
// assertion covers it.
func RunWithGolden(t *testing.T, scenario *Scenario, tables *rules.Tables) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, tables)
	if err != nil {
		return nil, err
	}

	data, err := snapshot.Marshal(result.Document)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
