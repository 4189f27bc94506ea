package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// Update is a typed progress event. Percent is pipeline-wide (0-100);
// Elapsed is the time spent inside the current step so far. Updates are
// delivered synchronously on the executing goroutine, so handlers must not
// block.
type Update struct {
	Step       string
	StepIndex  int
	TotalSteps int
	Percent    float64
	Message    string
	Elapsed    time.Duration
}

// ProgressFunc receives progress updates during execution.
type ProgressFunc func(Update)

// StepOutcome is the recorded result of one executed step.
type StepOutcome struct {
	Step     string
	Duration time.Duration
	Success  bool
	Error    string
}

// Summary describes a finished pipeline run. Steps are in execution order
// and never reordered. FinalPercent is 100 whenever at least one step
// executed, regardless of success.
type Summary struct {
	RunID         string
	TotalDuration time.Duration
	Steps         []StepOutcome
	FinalPercent  float64
}

type stepRecord struct {
	step       string
	index      int
	total      int
	startedAt  time.Time
	finishedAt time.Time
	duration   time.Duration
	success    bool
	err        string
	closed     bool
}

// aggregator collects timing and progress for one pipeline invocation. It
// is created per Execute call and is not shared across goroutines, so it
// needs no locking. The reported percentage never decreases; records, once
// closed, are never mutated by late progress events.
type aggregator struct {
	runID          string
	records        []stepRecord
	startedAt      time.Time
	finishedAt     time.Time
	currentStep    string
	currentPercent float64
}

func newAggregator() *aggregator {
	return &aggregator{
		runID:     uuid.NewString(),
		startedAt: time.Now(),
	}
}

func (a *aggregator) stepStarted(step string, index, total int) {
	a.currentStep = step
	a.records = append(a.records, stepRecord{
		step:      step,
		index:     index,
		total:     total,
		startedAt: time.Now(),
	})
}

func (a *aggregator) stepFinished(success bool, errMsg string) {
	if len(a.records) == 0 {
		return
	}
	record := &a.records[len(a.records)-1]
	if record.closed {
		return
	}
	record.finishedAt = time.Now()
	record.duration = record.finishedAt.Sub(record.startedAt)
	record.success = success
	record.err = errMsg
	record.closed = true

	// A step that never reported sub-progress still advances the bar.
	a.observePercent(float64(record.index+1) / float64(record.total) * 100)
}

// observePercent folds a pipeline-wide percentage into the current state
// and returns the effective (monotone, clamped) value.
func (a *aggregator) observePercent(percent float64) float64 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent > a.currentPercent {
		a.currentPercent = percent
	}
	return a.currentPercent
}

func (a *aggregator) finish() {
	a.finishedAt = time.Now()
	if len(a.records) > 0 {
		a.currentPercent = 100
	}
}

func (a *aggregator) summary() Summary {
	outcomes := make([]StepOutcome, len(a.records))
	for i, record := range a.records {
		outcomes[i] = StepOutcome{
			Step:     record.step,
			Duration: record.duration,
			Success:  record.success,
			Error:    record.err,
		}
	}
	return Summary{
		RunID:         a.runID,
		TotalDuration: a.finishedAt.Sub(a.startedAt),
		Steps:         outcomes,
		FinalPercent:  a.currentPercent,
	}
}
