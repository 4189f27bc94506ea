package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStepsYAML(t *testing.T) {
	payload := []byte(`
- op: deskew
  params:
    maxAngle: 10
- op: threshold
  params:
    method: sauvola
    k: 0.3
  enabled: false
`)

	steps, err := ParseSteps(payload)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, "deskew", steps[0].Op)
	assert.Equal(t, 10, steps[0].Params["maxAngle"])
	assert.True(t, steps[0].IsEnabled(), "omitted enabled defaults to true")

	assert.Equal(t, "threshold", steps[1].Op)
	assert.Equal(t, "sauvola", steps[1].Params["method"])
	assert.Equal(t, 0.3, steps[1].Params["k"])
	assert.False(t, steps[1].IsEnabled())
}

func TestParseStepsJSON(t *testing.T) {
	payload := []byte(`[{"op": "denoise", "params": {"method": "nlm", "strength": 12}}]`)

	steps, err := ParseSteps(payload)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "denoise", steps[0].Op)
	assert.Equal(t, "nlm", steps[0].Params["method"])
	assert.Equal(t, 12, steps[0].Params["strength"])
	assert.True(t, steps[0].IsEnabled())
}

func TestParseStepsRejectsMalformedPayload(t *testing.T) {
	_, err := ParseSteps([]byte(`{"op": "grayscale"}`))
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "invalid pipeline configuration")
}

func TestErrorTypes(t *testing.T) {
	unknown := UnknownOperationError{Op: "rotate"}
	assert.Equal(t, "unknown operation: rotate", unknown.Error())

	opErr := &OperationError{Op: "deskew", Err: errors.New("empty input")}
	assert.Equal(t, "operation deskew failed: empty input", opErr.Error())
	assert.Equal(t, "empty input", errors.Unwrap(opErr).Error())
}
