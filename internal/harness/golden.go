package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/rangeslider/internal/ir"
)

// Snapshot is the golden form of a run: the commits of every store and the
// final slider state. Frames are left out; they are covered by assertions.
func Snapshot(name string, result *Result) ([]byte, error) {
	state, err := stateValue(result.State)
	if err != nil {
		return nil, err
	}

	trace := make([]any, len(result.Trace))
	for i, ev := range result.Trace {
		m := map[string]any{
			"store":   ev.Store,
			"seq":     ev.Seq,
			"applied": ev.Applied,
		}
		if ev.Received != "" {
			m["received"] = ev.Received
		}
		trace[i] = m
	}

	return ir.MarshalCanonical(map[string]any{
		"name":  name,
		"state": state,
		"trace": trace,
	})
}

// RunWithGolden runs scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the snapshot of an existing result against its
// golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
