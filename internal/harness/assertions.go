package harness

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/rangeslider/internal/ir"
	"github.com/roach88/rangeslider/internal/slider"
	"github.com/roach88/rangeslider/internal/surface"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s#%d %s\n", i+1, ev.Store, ev.Seq, ev.Applied)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the messages of
// the failed ones. root is the rendered tree.
func EvaluateAssertions(result *Result, assertions []Assertion, root surface.Node) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertState:
			err = assertState(result.State, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertHasClass, AssertLacksClass:
			err = assertClass(root, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func assertState(state slider.State, a Assertion) error {
	actual, err := stateValue(state)
	if err != nil {
		return err
	}
	expected, err := ir.FromAny(a.Expect)
	if err != nil {
		return fmt.Errorf("state assertion: %w", err)
	}

	var mismatches []string
	want := expected.(ir.Object)
	for _, key := range want.SortedKeys() {
		got, ok := actual[key]
		if !ok {
			got = ir.Null{}
		}
		if diff := cmp.Diff(want[key], got); diff != "" {
			mismatches = append(mismatches, fmt.Sprintf("%s (-want +got):\n%s", key, diff))
		}
	}
	if len(mismatches) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertState,
		Expected: fmt.Sprintf("state matching %v", a.Expect),
		Actual:   strings.Join(mismatches, "\n"),
	}
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Store == a.Store && ev.Applied == a.Kind {
			count++
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%s committed %s %d time(s)", a.Store, a.Kind, a.Count),
		Actual:   fmt.Sprintf("%d time(s)", count),
		Trace:    trace,
	}
}

// assertTraceOrder checks that the kinds appear in order among the store's
// commits. Other commits may come between them.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, ev := range trace {
		if next == len(a.Kinds) {
			break
		}
		if ev.Store == a.Store && ev.Applied == a.Kinds[next] {
			next++
		}
	}
	if next == len(a.Kinds) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("%s commits in order: %v", a.Store, a.Kinds),
		Actual:   fmt.Sprintf("%s not found after %v", a.Kinds[next], a.Kinds[:next]),
		Trace:    trace,
	}
}

func assertClass(root surface.Node, a Assertion) error {
	n := surface.FindByClass(root, a.Target)
	if n == nil {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("a node with class %q", a.Target),
			Actual:   "not found",
		}
	}
	want := a.Type == AssertHasClass
	if n.HasClass(a.Class) == want {
		return nil
	}
	cls, _ := n.Attr("class")
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%q with class %q: %t", a.Target, a.Class, want),
		Actual:   fmt.Sprintf("class=%q", cls),
	}
}

// stateValue converts state into its JSON object form.
func stateValue(state slider.State) (ir.Object, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	v, err := ir.UnmarshalValue(raw)
	if err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	obj, ok := v.(ir.Object)
	if !ok {
		return nil, fmt.Errorf("state is %T, not an object", v)
	}
	return obj, nil
}
