package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rangeslider/internal/slider"
	"github.com/roach88/rangeslider/internal/surface"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Store: "slider", Seq: 1, Applied: "@COLD_START"},
		{Store: "track", Seq: 1, Applied: "SYNC"},
		{Store: "slider", Seq: 2, Applied: "SET_MIN"},
		{Store: "track", Seq: 2, Applied: "SYNC"},
		{Store: "slider", Seq: 3, Applied: "SET_MAX"},
	}
}

func TestAssertState(t *testing.T) {
	state := slider.Default()

	assert.NoError(t, assertState(state, Assertion{Expect: map[string]any{
		"min":          0,
		"max":          100.0,
		"value":        []any{25, 75},
		"intervalMode": true,
	}}))

	err := assertState(state, Assertion{Expect: map[string]any{"max": 99}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max (-want +got)")

	err = assertState(state, Assertion{Expect: map[string]any{"prefix": "$"}})
	require.Error(t, err, "omitted fields compare as null")
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()
	assert.NoError(t, assertTraceCount(trace, Assertion{Store: "track", Kind: "SYNC", Count: 2}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Store: "progress", Kind: "SYNC", Count: 0}))

	err := assertTraceCount(trace, Assertion{Store: "slider", Kind: "SYNC", Count: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Full trace:")
	assert.Contains(t, err.Error(), "[3] slider#2 SET_MIN")
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()
	assert.NoError(t, assertTraceOrder(trace, Assertion{Store: "slider", Kinds: []string{"@COLD_START", "SET_MAX"}}))

	err := assertTraceOrder(trace, Assertion{Store: "slider", Kinds: []string{"SET_MAX", "SET_MIN"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SET_MIN not found after [SET_MAX]")

	err = assertTraceOrder(trace, Assertion{Store: "track", Kinds: []string{"SET_MIN"}})
	assert.Error(t, err, "kinds are matched within one store")
}

func TestAssertClass(t *testing.T) {
	root := surface.NewElement("body")
	box := surface.NewElement("div", "box", "box--on")
	root.AppendChild(box)

	assert.NoError(t, assertClass(root, Assertion{Type: AssertHasClass, Target: "box", Class: "box--on"}))
	assert.NoError(t, assertClass(root, Assertion{Type: AssertLacksClass, Target: "box", Class: "box--off"}))

	err := assertClass(root, Assertion{Type: AssertLacksClass, Target: "box", Class: "box--on"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `class="box box--on"`)

	err = assertClass(root, Assertion{Type: AssertHasClass, Target: "missing", Class: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: "bogus"}}, surface.NewElement("body"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown assertion type "bogus"`)
}
