// Package operations implements the image transforms available to the
// preprocessing pipeline: normalize, grayscale, deskew, denoise, contrast,
// sharpen and threshold. Each operation consumes an 8-bit gocv.Mat (single
// channel grayscale or three channel BGR), a resolved parameter set and an
// optional progress reporter, and returns a new Mat. Operations never retain
// a reference to their input past the call.
package operations

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Progress reports fractional completion (0.0 to 1.0) within a single
// operation together with a short status message. A nil Progress is valid
// and reports nothing.
type Progress func(fraction float64, message string)

func (p Progress) emit(fraction float64, message string) {
	if p != nil {
		p(fraction, message)
	}
}

// Params is the resolved, typed configuration of one operation. Each
// operation defines its own variant with explicit defaults and clamped
// ranges; raw key/value maps never reach the transform code.
type Params interface {
	isOperationParams()
}

// Operation is the contract every pipeline transform implements.
type Operation interface {
	Name() string

	// Resolve converts raw user parameters into the operation's typed
	// configuration, substituting defaults for absent keys and clamping
	// out-of-range values. It never fails: unusable values fall back to
	// defaults.
	Resolve(raw map[string]interface{}) Params

	// Apply runs the transform and returns a new Mat. The input is left
	// untouched; the caller owns both Mats.
	Apply(src gocv.Mat, params Params, report Progress) (gocv.Mat, error)
}

// Registry is the immutable table of registered operations. It is built
// once at initialization and is safe for concurrent lookup.
type Registry struct {
	ops   map[string]Operation
	names []string
}

// NewRegistry builds the definitive operation catalog.
func NewRegistry() *Registry {
	registered := []Operation{
		Normalize{},
		Grayscale{},
		Deskew{},
		Denoise{},
		Contrast{},
		Sharpen{},
		Threshold{},
	}

	reg := &Registry{
		ops:   make(map[string]Operation, len(registered)),
		names: make([]string, 0, len(registered)),
	}
	for _, op := range registered {
		reg.ops[op.Name()] = op
		reg.names = append(reg.names, op.Name())
	}
	return reg
}

// Get returns the operation registered under name.
func (r *Registry) Get(name string) (Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Has reports whether name is a registered operation.
func (r *Registry) Has(name string) bool {
	_, ok := r.ops[name]
	return ok
}

// Names returns the registered operation names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

func validateInput(src gocv.Mat) error {
	if src.Empty() {
		return fmt.Errorf("input Mat is empty")
	}
	if src.Rows() <= 0 || src.Cols() <= 0 {
		return fmt.Errorf("input Mat has invalid dimensions: %dx%d", src.Cols(), src.Rows())
	}
	return nil
}
