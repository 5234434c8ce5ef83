// Package engine exposes the dispatch simulation behind a single lock.
//
// Submit, AddVehicle, Tick and Snapshot are mutually exclusive. State writes
// and metrics sinks run after the lock is released and never alter the
// in-memory state.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/fleetsim/core/events"
	"github.com/kilianp07/fleetsim/core/jobstore"
	"github.com/kilianp07/fleetsim/core/logger"
	"github.com/kilianp07/fleetsim/core/metrics"
	"github.com/kilianp07/fleetsim/core/model"
	"github.com/kilianp07/fleetsim/core/priority"
	"github.com/kilianp07/fleetsim/core/state"
	"github.com/kilianp07/fleetsim/core/tick"
	"github.com/kilianp07/fleetsim/internal/eventbus"
)

// TickReport describes one call to Tick.
type TickReport struct {
	Tick      uint64
	Promoted  *model.Job
	Completed []model.Job
	Counts    jobstore.Counts
}

// Engine owns the simulation state.
type Engine struct {
	cfg    Config
	policy priority.Policy
	state  state.Store
	sink   metrics.MetricsSink
	bus    *eventbus.Bus[events.Event]
	log    logger.Logger
	newID  func() string
	now    func() time.Time

	mu      sync.Mutex
	store   *jobstore.Store
	ticks   uint64
	version uint64

	saveMu       sync.Mutex
	savedVersion uint64
}

// New creates an empty engine. Zero config values take their defaults.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:   cfg,
		sink:  metrics.NopSink{},
		log:   logger.Nop{},
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.store = jobstore.New(e.policy)
	return e, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Restore seeds the engine from the state store. A missing, malformed or
// inconsistent blob leaves the engine empty. Any other load failure is
// returned.
func (e *Engine) Restore(ctx context.Context) error {
	if e.state == nil {
		return nil
	}
	v, err := e.state.Load(ctx)
	var derr *state.DeserializationError
	switch {
	case errors.Is(err, state.ErrNotFound):
		e.log.Infof("no persisted state, starting empty")
		return nil
	case errors.As(err, &derr):
		e.log.Warnf("discarding persisted state: %v", derr)
		return nil
	case err != nil:
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Restore(v); err != nil {
		e.log.Warnf("discarding inconsistent persisted state: %v", err)
		return nil
	}
	e.log.Infof("restored state: %d queued, %d ongoing, %d completed, %d free vehicles",
		len(v.Queued), len(v.Ongoing), len(v.Completed), v.FreeVehicles)
	return nil
}

// Submit validates in and queues the resulting job. On a validation error
// the state is left unchanged and a *model.ValidationError is returned.
func (e *Engine) Submit(in model.JobInput) (model.Job, error) {
	now := e.now()
	job, err := model.NewJob(e.newID(), in)
	if err != nil {
		e.publish(events.JobRejected{Input: in, Reason: err.Error(), Time: now})
		e.recordSubmission(metrics.SubmissionEvent{
			Name: in.Name, Flexibility: in.Flexibility, Reason: err.Error(), Time: now,
		})
		e.log.Debugw("job rejected", map[string]any{"name": in.Name, "error": err.Error()})
		return model.Job{}, err
	}

	e.mu.Lock()
	e.store.Submit(job)
	version, view := e.commitLocked()
	e.publish(events.JobSubmitted{Job: job, Position: e.store.Position(job.ID), Time: now})
	e.mu.Unlock()

	e.recordSubmission(metrics.SubmissionEvent{
		JobID: job.ID, Name: job.Name, Flexibility: job.Flexibility, Accepted: true, Time: now,
	})
	e.log.Debugw("job submitted", map[string]any{"id": job.ID, "name": job.Name})
	e.persist(version, view)
	return job, nil
}

// AddVehicle adds one idle vehicle and returns the new free count.
func (e *Engine) AddVehicle() int {
	now := e.now()
	e.mu.Lock()
	free := e.store.AddVehicle()
	version, view := e.commitLocked()
	e.publish(events.VehicleAdded{FreeVehicles: free, Time: now})
	e.mu.Unlock()

	if rec, ok := e.sink.(metrics.FleetSizeRecorder); ok {
		if err := rec.RecordFleetSize(free); err != nil {
			e.log.Warnf("record fleet size: %v", err)
		}
	}
	e.persist(version, view)
	return free
}

// Tick advances the simulation by one step.
func (e *Engine) Tick() TickReport {
	now := e.now()
	e.mu.Lock()
	res := tick.Process(e.store, e.cfg.TickIncrement)
	e.ticks++
	n := e.ticks
	version, view := e.commitLocked()
	counts := e.store.Counts()
	if res.Promoted != nil {
		e.publish(events.JobPromoted{Job: *res.Promoted, Tick: n, Time: now})
	}
	for _, j := range res.Completed {
		e.publish(events.JobCompleted{Job: j, Tick: n, Time: now})
	}
	e.publish(events.Ticked{
		Tick:         n,
		Queued:       counts.Queued,
		Ongoing:      counts.Ongoing,
		Completed:    counts.Completed,
		FreeVehicles: counts.FreeVehicles,
		Time:         now,
	})
	e.mu.Unlock()

	e.recordTick(n, res, counts, now)
	e.persist(version, view)
	return TickReport{Tick: n, Promoted: res.Promoted, Completed: res.Completed, Counts: counts}
}

// Snapshot returns a detached copy of the state.
func (e *Engine) Snapshot() model.StateView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Snapshot()
}

// Ticks returns how many ticks ran since the engine was created.
func (e *Engine) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

// commitLocked bumps the state version and captures the state to persist.
// Without a state store nothing is captured.
func (e *Engine) commitLocked() (uint64, model.StateView) {
	e.version++
	if e.state == nil {
		return e.version, model.StateView{}
	}
	return e.version, e.store.Snapshot()
}

// persist writes v unless a newer version was already written.
func (e *Engine) persist(version uint64, v model.StateView) {
	if e.state == nil {
		return
	}
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if version <= e.savedVersion {
		return
	}
	e.savedVersion = version

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.saveTimeout())
	defer cancel()
	start := time.Now()
	err := e.state.Save(ctx, v)
	if err != nil {
		e.log.Errorf("persist state v%d: %v", version, err)
	}
	if rec, ok := e.sink.(metrics.PersistenceRecorder); ok {
		if rerr := rec.RecordPersist(err == nil, time.Since(start)); rerr != nil {
			e.log.Warnf("record persist: %v", rerr)
		}
	}
}

func (e *Engine) publish(ev events.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

func (e *Engine) recordSubmission(ev metrics.SubmissionEvent) {
	rec, ok := e.sink.(metrics.SubmissionRecorder)
	if !ok {
		return
	}
	if err := rec.RecordSubmission(ev); err != nil {
		e.log.Warnf("record submission: %v", err)
	}
}

func (e *Engine) recordTick(n uint64, res tick.Result, c jobstore.Counts, now time.Time) {
	promoted := 0
	if res.Promoted != nil {
		promoted = 1
	}
	if err := e.sink.RecordTick(metrics.TickEvent{
		Tick:         n,
		Queued:       c.Queued,
		Ongoing:      c.Ongoing,
		Completed:    c.Completed,
		FreeVehicles: c.FreeVehicles,
		Promoted:     promoted,
		Finished:     len(res.Completed),
		Time:         now,
	}); err != nil {
		e.log.Warnf("record tick: %v", err)
	}
	rec, ok := e.sink.(metrics.CompletionRecorder)
	if !ok {
		return
	}
	for _, j := range res.Completed {
		if err := rec.RecordCompletion(metrics.CompletionEvent{Job: j, Tick: n, Time: now}); err != nil {
			e.log.Warnf("record completion: %v", err)
		}
	}
}
