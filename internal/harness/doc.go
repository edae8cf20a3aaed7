// Package harness runs range-slider scenarios and checks their outcome.
//
// A scenario attaches a slider to a detached surface, applies a list of
// steps through an engine.Loop and then evaluates assertions against the
// final state, the dispatch trace and the rendered tree.
//
// # Scenario Format
//
//	name: reject_then_accept
//	description: "Text that is not a number is rejected"
//	init:
//	  slider: { min: 0, max: 100, step: 1, value: [25, 75], intervalMode: true }
//	steps:
//	  - fire: input
//	    target: range-slider__control
//	    value: abc
//	  - dispatch: CHANGE_LEFT_VALUE
//	    payload: 40
//	  - resize: true
//	assertions:
//	  - type: state
//	    expect: { value: [40, 75] }
//	  - type: trace_count
//	    store: slider
//	    kind: "@VALIDATION_REJECTED"
//	    count: 1
//	  - type: has_class
//	    target: range-slider
//	    class: range-slider--has-marker
//
// init is optional. Entries missing from it are derived from the slider
// entry, which itself defaults to slider.Default().
//
// # Assertion Types
//
//   - state: subset match against the slider state in its JSON form
//   - trace_count: a store committed a kind exactly N times
//   - trace_order: kinds appear in this order in one store's commits
//   - has_class, lacks_class: the first node carrying target has (or lacks) class
//
// # Determinism
//
// Store IDs are fixed to the model names, so traces are byte-identical
// across runs and can be compared against golden files.
package harness
