package pipeline

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"renaissance-ocr/operations"
)

// Validation is the outcome of a pre-flight configuration check.
type Validation struct {
	Valid  bool
	Errors []string
}

// Validate checks a decoded step list against the registry. It is pure and
// side-effect-free, and safe to run independently of execution.
func Validate(registry *operations.Registry, steps []Step) Validation {
	var errs []string
	for i, step := range steps {
		if step.Op == "" {
			errs = append(errs, fmt.Sprintf("step %d: missing 'op' field", i))
		} else if !registry.Has(step.Op) {
			errs = append(errs, fmt.Sprintf("step %d: unknown operation '%s'", i, step.Op))
		}
	}
	return Validation{Valid: len(errs) == 0, Errors: errs}
}

// ValidateRaw checks an undecoded step-list payload structurally: the
// payload must be a list, each step a mapping with a registered 'op' and an
// optional mapping-shaped 'params'. It never panics or returns an error;
// every problem becomes a message.
func ValidateRaw(registry *operations.Registry, data []byte) Validation {
	var root interface{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Validation{Errors: []string{fmt.Sprintf("step list is not decodable: %v", err)}}
	}

	list, ok := root.([]interface{})
	if !ok {
		return Validation{Errors: []string{"pipeline must be a list of steps"}}
	}

	var errs []string
	for i, item := range list {
		step, ok := item.(map[string]interface{})
		if !ok {
			errs = append(errs, fmt.Sprintf("step %d: must be a mapping", i))
			continue
		}

		op, _ := step["op"].(string)
		if op == "" {
			errs = append(errs, fmt.Sprintf("step %d: missing 'op' field", i))
		} else if !registry.Has(op) {
			errs = append(errs, fmt.Sprintf("step %d: unknown operation '%s'", i, op))
		}

		if params, present := step["params"]; present && params != nil {
			if _, ok := params.(map[string]interface{}); !ok {
				errs = append(errs, fmt.Sprintf("step %d: 'params' must be a mapping", i))
			}
		}
	}

	return Validation{Valid: len(errs) == 0, Errors: errs}
}
