// Package jobstore holds the queued, ongoing and completed job collections
// together with the count of idle vehicles.
package jobstore

import (
	"fmt"

	"github.com/kilianp07/fleetsim/core/model"
	"github.com/kilianp07/fleetsim/core/priority"
)

// Store is not safe for concurrent use; the engine serializes access.
type Store struct {
	policy       priority.Policy
	freeVehicles int
	queued       []model.Job
	ongoing      []model.Job
	completed    []model.Job
}

// New returns an empty store ordering its queue with p. A nil policy
// defaults to priority.Exchange.
func New(p priority.Policy) *Store {
	if p == nil {
		p = priority.Exchange{}
	}
	return &Store{policy: p}
}

// Submit appends job to the queue and reorders it.
func (s *Store) Submit(job model.Job) {
	s.queued = append(s.queued, job)
	s.policy.Sort(s.queued)
}

// AddVehicle adds one idle vehicle and returns the new count.
func (s *Store) AddVehicle() int {
	s.freeVehicles++
	return s.freeVehicles
}

// FreeVehicles returns the number of idle vehicles.
func (s *Store) FreeVehicles() int { return s.freeVehicles }

// Promote moves the head of the queue onto an idle vehicle.
func (s *Store) Promote() (model.Job, bool) {
	if s.freeVehicles <= 0 || len(s.queued) == 0 {
		return model.Job{}, false
	}
	job := s.queued[0]
	s.queued = s.queued[1:]
	s.ongoing = append(s.ongoing, job)
	s.freeVehicles--
	return job, true
}

// Advance adds step to the completed time of every ongoing job.
func (s *Store) Advance(step float64) {
	for i := range s.ongoing {
		s.ongoing[i].ProcessingTimeCompleted += step
	}
}

// CollectCompleted moves finished ongoing jobs to the completed collection,
// releasing their vehicles. Relative order is kept in both collections.
func (s *Store) CollectCompleted() []model.Job {
	still := make([]model.Job, 0, len(s.ongoing))
	var done []model.Job
	for _, j := range s.ongoing {
		if j.Done() {
			done = append(done, j)
			continue
		}
		still = append(still, j)
	}
	s.ongoing = still
	s.completed = append(s.completed, done...)
	s.freeVehicles += len(done)
	return done
}

// Counts holds the collection sizes without copying them.
type Counts struct {
	Queued       int
	Ongoing      int
	Completed    int
	FreeVehicles int
}

// Counts returns the current collection sizes.
func (s *Store) Counts() Counts {
	return Counts{
		Queued:       len(s.queued),
		Ongoing:      len(s.ongoing),
		Completed:    len(s.completed),
		FreeVehicles: s.freeVehicles,
	}
}

// Position returns the queue index of the job with id, or -1.
func (s *Store) Position(id string) int {
	for i, j := range s.queued {
		if j.ID == id {
			return i
		}
	}
	return -1
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() model.StateView {
	return model.StateView{
		FreeVehicles: s.freeVehicles,
		Queued:       s.queued,
		Ongoing:      s.ongoing,
		Completed:    s.completed,
	}.Clone()
}

// Restore replaces the state with v after checking it is consistent. On
// error the store is left untouched.
func (s *Store) Restore(v model.StateView) error {
	if err := Check(v); err != nil {
		return err
	}
	c := v.Clone()
	s.freeVehicles = c.FreeVehicles
	s.queued = c.Queued
	s.ongoing = c.Ongoing
	s.completed = c.Completed
	return nil
}

// Check reports the first inconsistency found in v.
func Check(v model.StateView) error {
	if v.FreeVehicles < 0 {
		return fmt.Errorf("free vehicles is negative: %d", v.FreeVehicles)
	}
	groups := []struct {
		name string
		jobs []model.Job
	}{{"queued", v.Queued}, {"ongoing", v.Ongoing}, {"completed", v.Completed}}
	for _, g := range groups {
		for i, j := range g.jobs {
			if j.ProcessingTime <= 0 {
				return fmt.Errorf("%s[%d]: processing time must be positive", g.name, i)
			}
			if j.ProcessingTimeCompleted < 0 {
				return fmt.Errorf("%s[%d]: completed time is negative", g.name, i)
			}
			if !j.Flexibility.Valid() {
				return fmt.Errorf("%s[%d]: unknown flexibility %q", g.name, i, j.Flexibility)
			}
		}
	}
	for i, j := range v.Ongoing {
		if j.Done() {
			return fmt.Errorf("ongoing[%d]: job %q is already finished", i, j.Name)
		}
	}
	for i, j := range v.Completed {
		if !j.Done() {
			return fmt.Errorf("completed[%d]: job %q is not finished", i, j.Name)
		}
	}
	return nil
}
