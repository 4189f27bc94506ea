package pipeline

import "fmt"

// ConfigurationError reports a malformed step-list payload. It is produced
// by ParseSteps, before any execution starts.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid pipeline configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// UnknownOperationError reports a step naming an operation absent from the
// registry. The executor records it per step; it never propagates as a
// fault.
type UnknownOperationError struct {
	Op string
}

func (e UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation: %s", e.Op)
}

// OperationError reports an operation failing on an otherwise well-formed
// input.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
