package harness

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted run of one slider.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Init holds init-data entries keyed by model name. Missing entries
	// are derived from the slider entry.
	Init map[string]any `yaml:"init,omitempty"`

	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one trigger. Exactly one of Dispatch, Fire or Resize is set.
type Step struct {
	// Dispatch is an action kind sent straight to the slider model, with
	// Payload decoded by slider.Registry.
	Dispatch string `yaml:"dispatch,omitempty"`
	Payload  any    `yaml:"payload,omitempty"`

	// Fire names a surface event fired on the Index-th node carrying the
	// class Target, with Value as the event's text.
	Fire   string `yaml:"fire,omitempty"`
	Target string `yaml:"target,omitempty"`
	Index  int    `yaml:"index,omitempty"`
	Value  string `yaml:"value,omitempty"`

	// Resize fires "resize" on the mount node.
	Resize bool `yaml:"resize,omitempty"`
}

// Assertion checks the outcome of a scenario.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Expect is the subset of the state to match (state).
	Expect map[string]any `yaml:"expect,omitempty"`

	// Store and Kind select commits (trace_count, trace_order).
	Store string   `yaml:"store,omitempty"`
	Kind  string   `yaml:"kind,omitempty"`
	Count int      `yaml:"count,omitempty"`
	Kinds []string `yaml:"kinds,omitempty"`

	// Target selects a node by class; Class is checked on it
	// (has_class, lacks_class).
	Target string `yaml:"target,omitempty"`
	Class  string `yaml:"class,omitempty"`
}

// Assertion types.
const (
	AssertState      = "state"
	AssertTraceCount = "trace_count"
	AssertTraceOrder = "trace_order"
	AssertHasClass   = "has_class"
	AssertLacksClass = "lacks_class"
)

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(bytes.NewReader(data))
}

// ParseScenario parses a scenario, rejecting unknown fields.
func ParseScenario(r io.Reader) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		set := 0
		if step.Dispatch != "" {
			set++
		}
		if step.Fire != "" {
			set++
			if step.Target == "" {
				return fmt.Errorf("steps[%d]: target is required for fire", i)
			}
			if step.Index < 0 {
				return fmt.Errorf("steps[%d]: index must be non-negative", i)
			}
		}
		if step.Resize {
			set++
		}
		if set != 1 {
			return fmt.Errorf("steps[%d]: exactly one of dispatch, fire or resize is required", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertState:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for state", index)
		}
	case AssertTraceCount:
		if a.Store == "" || a.Kind == "" {
			return fmt.Errorf("assertions[%d]: store and kind are required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertTraceOrder:
		if a.Store == "" || len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: store and kinds are required for trace_order", index)
		}
	case AssertHasClass, AssertLacksClass:
		if a.Target == "" || a.Class == "" {
			return fmt.Errorf("assertions[%d]: target and class are required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
