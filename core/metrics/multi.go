package metrics

import (
	"errors"
	"time"
)

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTick forwards the record to all sinks. Every sink is called; the
// errors are joined.
func (m *MultiSink) RecordTick(ev TickEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordTick(ev))
	}
	return errors.Join(errs...)
}

// RecordSubmission forwards to sinks implementing SubmissionRecorder.
func (m *MultiSink) RecordSubmission(ev SubmissionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(SubmissionRecorder); ok {
			errs = append(errs, rec.RecordSubmission(ev))
		}
	}
	return errors.Join(errs...)
}

// RecordCompletion forwards to sinks implementing CompletionRecorder.
func (m *MultiSink) RecordCompletion(ev CompletionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(CompletionRecorder); ok {
			errs = append(errs, rec.RecordCompletion(ev))
		}
	}
	return errors.Join(errs...)
}

// RecordFleetSize forwards to sinks implementing FleetSizeRecorder.
func (m *MultiSink) RecordFleetSize(free int) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(FleetSizeRecorder); ok {
			errs = append(errs, rec.RecordFleetSize(free))
		}
	}
	return errors.Join(errs...)
}

// RecordPersist forwards to sinks implementing PersistenceRecorder.
func (m *MultiSink) RecordPersist(ok bool, d time.Duration) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, isRec := s.(PersistenceRecorder); isRec {
			errs = append(errs, rec.RecordPersist(ok, d))
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks holding a connection.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
