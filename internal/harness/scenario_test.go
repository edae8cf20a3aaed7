package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	content := `
name: test_scenario
description: "Test scenario for validation"
init:
  slider: { min: 0, max: 10 }
steps:
  - dispatch: CHANGE_LEFT_VALUE
    payload: 3
  - fire: click
    target: range-slider__track-scale
    value: "5"
  - resize: true
assertions:
  - type: state
    expect: { value: [3, 5] }
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Len(t, scenario.Steps, 3)
	assert.Equal(t, "CHANGE_LEFT_VALUE", scenario.Steps[0].Dispatch)
	assert.Equal(t, 3, scenario.Steps[0].Payload)
	assert.Equal(t, "click", scenario.Steps[1].Fire)
	assert.True(t, scenario.Steps[2].Resize)
	assert.Len(t, scenario.Assertions, 1)
	assert.Contains(t, scenario.Init, "slider")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	content := `
name: typo
description: d
step:
  - resize: true
`
	_, err := ParseScenario(strings.NewReader(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing name",
			content: "description: d\nsteps: [{resize: true}]",
			want:    "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\nsteps: [{resize: true}]",
			want:    "description is required",
		},
		{
			name:    "no steps",
			content: "name: n\ndescription: d",
			want:    "steps list is required",
		},
		{
			name:    "empty step",
			content: "name: n\ndescription: d\nsteps: [{}]",
			want:    "steps[0]: exactly one of",
		},
		{
			name:    "two triggers in one step",
			content: "name: n\ndescription: d\nsteps: [{resize: true, dispatch: SET_MIN}]",
			want:    "steps[0]: exactly one of",
		},
		{
			name:    "fire without target",
			content: "name: n\ndescription: d\nsteps: [{fire: click}]",
			want:    "target is required",
		},
		{
			name:    "unknown assertion",
			content: "name: n\ndescription: d\nsteps: [{resize: true}]\nassertions: [{type: nope}]",
			want:    `unknown assertion type "nope"`,
		},
		{
			name:    "state without expect",
			content: "name: n\ndescription: d\nsteps: [{resize: true}]\nassertions: [{type: state}]",
			want:    "expect is required",
		},
		{
			name:    "trace_count without kind",
			content: "name: n\ndescription: d\nsteps: [{resize: true}]\nassertions: [{type: trace_count, store: slider}]",
			want:    "store and kind are required",
		},
		{
			name:    "has_class without class",
			content: "name: n\ndescription: d\nsteps: [{resize: true}]\nassertions: [{type: has_class, target: x}]",
			want:    "target and class are required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_Testdata(t *testing.T) {
	files, err := Discover("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		_, err := LoadScenario(f)
		assert.NoError(t, err, f)
	}
}
