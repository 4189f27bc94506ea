// Package pipeline executes ordered preprocessing operations against a
// scanned page image, with per-step timing, progress aggregation and a
// configurable continue-on-error policy.
package pipeline

import (
	"gocv.io/x/gocv"
)

// Step is one scheduled operation invocation. Insertion order is execution
// order. A nil Enabled counts as enabled, matching payloads that omit the
// field.
type Step struct {
	Op      string                 `json:"op" yaml:"op"`
	Params  map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`
	Enabled *bool                  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// IsEnabled reports whether the step should execute.
func (s Step) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Enable returns a pointer suitable for Step.Enabled.
func Enable(v bool) *bool {
	return &v
}

// StepError records one failed step in execution order.
type StepError struct {
	Step    string
	Index   int
	Message string
}

// Result is the outcome of one pipeline invocation. Success is the sole
// authoritative signal: a non-empty Image can accompany Success=false when
// errors accumulated under continue-on-error. The caller owns Image and
// must Close it.
type Result struct {
	Success bool
	Image   gocv.Mat
	Summary Summary
	Errors  []StepError
}
