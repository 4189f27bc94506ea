package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renaissance-ocr/operations"
)

func TestValidateAcceptsKnownOperations(t *testing.T) {
	registry := operations.NewRegistry()

	steps := []Step{
		{Op: "grayscale"},
		{Op: "deskew", Params: map[string]interface{}{"maxAngle": 10}},
		{Op: "threshold", Enabled: Enable(false)},
	}

	v := Validate(registry, steps)
	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	registry := operations.NewRegistry()

	steps := []Step{
		{Op: "grayscale"},
		{Op: ""},
		{Op: "rotate"},
	}

	v := Validate(registry, steps)
	assert.False(t, v.Valid)
	require.Len(t, v.Errors, 2)
	assert.Equal(t, "step 1: missing 'op' field", v.Errors[0])
	assert.Equal(t, "step 2: unknown operation 'rotate'", v.Errors[1])
}

func TestValidateMatchesExecutionOutcome(t *testing.T) {
	registry := operations.NewRegistry()
	src := newTestPage(t)
	defer src.Close()

	// a list that validates cleanly executes without configuration errors
	good := []Step{{Op: "grayscale"}, {Op: "threshold"}}
	require.True(t, Validate(registry, good).Valid)
	result := New(registry).Execute(src, good, false)
	result.Image.Close()
	assert.True(t, result.Success)

	// a list the validator rejects fails execution on the same step
	bad := []Step{{Op: "grayscale"}, {Op: "rotate"}}
	require.False(t, Validate(registry, bad).Valid)
	result = New(registry).Execute(src, bad, false)
	result.Image.Close()
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "rotate", result.Errors[0].Step)
}

func TestValidateRaw(t *testing.T) {
	registry := operations.NewRegistry()

	cases := []struct {
		name    string
		payload string
		valid   bool
		errs    []string
	}{
		{
			name:    "valid yaml",
			payload: "- op: grayscale\n- op: threshold\n  params:\n    method: sauvola\n",
			valid:   true,
		},
		{
			name:    "valid json",
			payload: `[{"op": "denoise", "params": {"strength": 5}}]`,
			valid:   true,
		},
		{
			name:    "not a list",
			payload: `{"op": "grayscale"}`,
			errs:    []string{"pipeline must be a list of steps"},
		},
		{
			name:    "scalar step",
			payload: "- grayscale\n",
			errs:    []string{"step 0: must be a mapping"},
		},
		{
			name:    "missing op",
			payload: `[{"params": {}}]`,
			errs:    []string{"step 0: missing 'op' field"},
		},
		{
			name:    "unknown op",
			payload: `[{"op": "rotate"}]`,
			errs:    []string{"step 0: unknown operation 'rotate'"},
		},
		{
			name:    "scalar params",
			payload: `[{"op": "grayscale", "params": 5}]`,
			errs:    []string{"step 0: 'params' must be a mapping"},
		},
		{
			name:    "undecodable",
			payload: "op: [unclosed",
			errs:    nil, // message text comes from the decoder
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := ValidateRaw(registry, []byte(tc.payload))
			assert.Equal(t, tc.valid, v.Valid)
			if tc.valid {
				assert.Empty(t, v.Errors)
				return
			}
			assert.NotEmpty(t, v.Errors)
			if tc.errs != nil {
				assert.Equal(t, tc.errs, v.Errors)
			}
		})
	}
}
