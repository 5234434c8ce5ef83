package metrics

import (
	"time"

	"github.com/kilianp07/fleetsim/core/model"
)

// TickEvent is the state of the fleet right after a tick.
type TickEvent struct {
	Tick         uint64
	Queued       int
	Ongoing      int
	Completed    int
	FreeVehicles int
	Promoted     int
	Finished     int
	Time         time.Time
}

// MetricsSink records tick summaries. Every sink implements it; the other
// recorders are optional and detected with a type assertion.
type MetricsSink interface {
	RecordTick(ev TickEvent) error
}

// SubmissionEvent describes an accepted or rejected submission.
type SubmissionEvent struct {
	JobID       string
	Name        string
	Flexibility model.Flexibility
	Accepted    bool
	Reason      string
	Time        time.Time
}

// InvalidFlexibility labels submissions whose flexibility is not a known value.
const InvalidFlexibility = "invalid"

// FlexibilityLabel returns the flexibility to use as a metric label or tag.
// Unknown values collapse into InvalidFlexibility.
func (ev SubmissionEvent) FlexibilityLabel() string {
	if !ev.Flexibility.Valid() {
		return InvalidFlexibility
	}
	return string(ev.Flexibility)
}

// SubmissionRecorder records job submissions.
type SubmissionRecorder interface {
	RecordSubmission(ev SubmissionEvent) error
}

// CompletionEvent captures a job leaving the ongoing collection.
type CompletionEvent struct {
	Job  model.Job
	Tick uint64
	Time time.Time
}

// CompletionRecorder records job completions.
type CompletionRecorder interface {
	RecordCompletion(ev CompletionEvent) error
}

// FleetSizeRecorder records the number of idle vehicles after a capacity change.
type FleetSizeRecorder interface {
	RecordFleetSize(free int) error
}

// PersistenceRecorder records the outcome of state writes.
type PersistenceRecorder interface {
	RecordPersist(ok bool, d time.Duration) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordTick(TickEvent) error              { return nil }
func (NopSink) RecordSubmission(SubmissionEvent) error  { return nil }
func (NopSink) RecordCompletion(CompletionEvent) error  { return nil }
func (NopSink) RecordFleetSize(int) error               { return nil }
func (NopSink) RecordPersist(bool, time.Duration) error { return nil }
