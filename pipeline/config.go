package pipeline

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ParseSteps decodes a step-list payload into typed steps. Both YAML and
// JSON payloads are accepted (JSON is a YAML subset). Steps omitting the
// 'enabled' field default to enabled.
func ParseSteps(data []byte) ([]Step, error) {
	var steps []Step
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, &ConfigurationError{Err: errors.Wrap(err, "decode step list")}
	}
	return steps, nil
}
