package pipeline

import (
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"renaissance-ocr/internal/logging"
	"renaissance-ocr/operations"
)

// Executor runs preprocessing pipelines against a read-only operation
// registry. One Executor may serve concurrent invocations: every Execute
// call builds its own aggregator and working image copy.
type Executor struct {
	registry        *operations.Registry
	log             zerolog.Logger
	onProgress      ProgressFunc
	continueOnError bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger injects a structured logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Executor) { e.log = log }
}

// WithProgress registers a callback for progress updates. It is invoked
// synchronously on the executing goroutine and must not block.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Executor) { e.onProgress = fn }
}

// WithContinueOnError makes the pipeline run every step regardless of
// earlier failures instead of halting on the first error. A failed step
// passes its input image through unchanged.
func WithContinueOnError(cont bool) Option {
	return func(e *Executor) { e.continueOnError = cont }
}

// New builds an Executor over the given registry.
func New(registry *operations.Registry, opts ...Option) *Executor {
	e := &Executor{
		registry: registry,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Operations returns the registered operation names, for discovery by a
// catalog surface.
func (e *Executor) Operations() []string {
	return e.registry.Names()
}

// Execute runs the enabled steps in declared order against a copy of src.
// The input Mat is never mutated. Preview mode silently substitutes faster
// parameters for expensive operations. Execute itself never fails: all
// step-level errors are captured in the Result.
func (e *Executor) Execute(src gocv.Mat, steps []Step, preview bool) Result {
	agg := newAggregator()
	log := e.log.With().
		Str("component", "pipeline").
		Str("run_id", agg.runID).
		Logger()

	active := make([]Step, 0, len(steps))
	for _, step := range steps {
		if step.IsEnabled() {
			active = append(active, step)
		}
	}

	if len(active) == 0 {
		agg.finish()
		return Result{Success: true, Image: src.Clone(), Summary: agg.summary()}
	}

	total := len(active)
	current := src.Clone()
	var stepErrors []StepError

	for i, step := range active {
		agg.stepStarted(step.Op, i, total)
		stepStart := time.Now()
		log.Debug().Str("step", step.Op).Int("index", i).Msg("step started")

		op, found := e.registry.Get(step.Op)
		if !found {
			stepErr := StepError{
				Step:    step.Op,
				Index:   i,
				Message: UnknownOperationError{Op: step.Op}.Error(),
			}
			stepErrors = append(stepErrors, stepErr)
			agg.stepFinished(false, stepErr.Message)
			log.Error().Str("step", step.Op).Int("index", i).Msg(stepErr.Message)

			if !e.continueOnError {
				agg.finish()
				return Result{Image: current, Summary: agg.summary(), Errors: stepErrors}
			}
			continue
		}

		raw := step.Params
		if preview {
			raw = previewParams(step.Op, raw)
		}
		params := op.Resolve(raw)

		processed, err := op.Apply(current, params, e.stepReporter(agg, step.Op, i, total, stepStart))
		if err != nil {
			opErr := &OperationError{Op: step.Op, Err: err}
			stepErr := StepError{Step: step.Op, Index: i, Message: opErr.Error()}
			stepErrors = append(stepErrors, stepErr)
			agg.stepFinished(false, stepErr.Message)
			log.Error().Err(err).Str("step", step.Op).Int("index", i).Msg("step failed")

			if !e.continueOnError {
				agg.finish()
				return Result{Image: current, Summary: agg.summary(), Errors: stepErrors}
			}
			// image entering the failed step continues unchanged
			continue
		}

		current.Close()
		current = processed
		agg.stepFinished(true, "")
		log.Debug().
			Str("step", step.Op).
			Int("index", i).
			Dur("duration", time.Since(stepStart)).
			Msg("step completed")
	}

	agg.finish()
	return Result{
		Success: len(stepErrors) == 0,
		Image:   current,
		Summary: agg.summary(),
		Errors:  stepErrors,
	}
}

// stepReporter bridges an operation's fractional progress into pipeline-wide
// updates. Each step contributes 1/total of the overall percentage.
func (e *Executor) stepReporter(agg *aggregator, step string, index, total int, start time.Time) operations.Progress {
	return func(fraction float64, message string) {
		if fraction < 0 {
			fraction = 0
		}
		if fraction > 1 {
			fraction = 1
		}
		overall := (float64(index) + fraction) / float64(total) * 100

		update := Update{
			Step:       step,
			StepIndex:  index,
			TotalSteps: total,
			Percent:    agg.observePercent(overall),
			Message:    message,
			Elapsed:    time.Since(start),
		}
		agg.currentStep = step

		if e.onProgress != nil {
			e.onProgress(update)
		}
	}
}

// previewParams substitutes speed-biased parameters before invocation.
// The only adjustment replaces non-local-means denoising with a capped
// bilateral filter; the substitution is silent and not reported as a
// configuration change.
func previewParams(op string, raw map[string]interface{}) map[string]interface{} {
	if op != "denoise" {
		return raw
	}
	if method, _ := raw["method"].(string); method != operations.DenoiseNLM {
		return raw
	}

	adjusted := make(map[string]interface{}, len(raw)+1)
	for k, v := range raw {
		adjusted[k] = v
	}
	adjusted["method"] = operations.DenoiseBilateral

	strength := 10.0
	switch v := raw["strength"].(type) {
	case float64:
		strength = v
	case int:
		strength = float64(v)
	case int64:
		strength = float64(v)
	}
	if strength > 10 {
		strength = 10
	}
	adjusted["strength"] = strength

	return adjusted
}
