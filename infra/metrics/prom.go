package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/fleetsim/core/metrics"
)

// PromSink exposes the fleet state as Prometheus metrics.
type PromSink struct {
	jobs        *prometheus.GaugeVec
	free        prometheus.Gauge
	ticks       prometheus.Counter
	submissions *prometheus.CounterVec
	completions *prometheus.CounterVec
	overshoot   prometheus.Histogram
	persists    *prometheus.CounterVec
	persistTime prometheus.Histogram
}

// NewPromSink registers fleet metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		jobs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fleet_jobs",
			Help: "Number of jobs per status",
		}, []string{"status"}),
		free: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_free_vehicles",
			Help: "Number of idle vehicles",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_ticks_total",
			Help: "Number of simulation steps",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_job_submissions_total",
			Help: "Job submissions by outcome and flexibility",
		}, []string{"accepted", "flexibility"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_job_completions_total",
			Help: "Completed jobs by flexibility",
		}, []string{"flexibility"}),
		overshoot: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleet_job_overshoot",
			Help:    "Processing time accumulated beyond the job requirement",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 1},
		}),
		persists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_state_writes_total",
			Help: "State store writes by outcome",
		}, []string{"ok"}),
		persistTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleet_state_write_seconds",
			Help:    "Duration of state store writes",
			Buckets: prometheus.DefBuckets,
		}),
	}

	var err error
	if s.jobs, err = register(reg, s.jobs); err != nil {
		return nil, err
	}
	if s.free, err = register(reg, s.free); err != nil {
		return nil, err
	}
	if s.ticks, err = register(reg, s.ticks); err != nil {
		return nil, err
	}
	if s.submissions, err = register(reg, s.submissions); err != nil {
		return nil, err
	}
	if s.completions, err = register(reg, s.completions); err != nil {
		return nil, err
	}
	if s.overshoot, err = register(reg, s.overshoot); err != nil {
		return nil, err
	}
	if s.persists, err = register(reg, s.persists); err != nil {
		return nil, err
	}
	if s.persistTime, err = register(reg, s.persistTime); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the already registered collector when c was registered
// before, so several sinks can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordTick updates the state gauges.
func (s *PromSink) RecordTick(ev coremetrics.TickEvent) error {
	s.ticks.Inc()
	s.jobs.WithLabelValues("queued").Set(float64(ev.Queued))
	s.jobs.WithLabelValues("ongoing").Set(float64(ev.Ongoing))
	s.jobs.WithLabelValues("completed").Set(float64(ev.Completed))
	s.free.Set(float64(ev.FreeVehicles))
	return nil
}

// RecordSubmission counts a submission.
func (s *PromSink) RecordSubmission(ev coremetrics.SubmissionEvent) error {
	s.submissions.WithLabelValues(strconv.FormatBool(ev.Accepted), ev.FlexibilityLabel()).Inc()
	return nil
}

// RecordCompletion counts a completion and observes its overshoot.
func (s *PromSink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	s.completions.WithLabelValues(string(ev.Job.Flexibility)).Inc()
	s.overshoot.Observe(ev.Job.ProcessingTimeCompleted - ev.Job.ProcessingTime)
	return nil
}

// RecordFleetSize sets the idle vehicle gauge.
func (s *PromSink) RecordFleetSize(free int) error {
	s.free.Set(float64(free))
	return nil
}

// RecordPersist counts a state write.
func (s *PromSink) RecordPersist(ok bool, d time.Duration) error {
	s.persists.WithLabelValues(strconv.FormatBool(ok)).Inc()
	s.persistTime.Observe(d.Seconds())
	return nil
}
