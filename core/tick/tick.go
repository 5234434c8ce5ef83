// Package tick implements the per-step transition of the dispatch simulation.
package tick

import (
	"github.com/kilianp07/fleetsim/core/jobstore"
	"github.com/kilianp07/fleetsim/core/model"
)

// DefaultIncrement is the simulated time added to each ongoing job per tick.
const DefaultIncrement = 0.5

// Result describes what happened during one tick.
type Result struct {
	Promoted  *model.Job
	Completed []model.Job
}

// Process runs one step on s: promote at most one queued job, add increment
// to every ongoing job, then move finished jobs to completed.
func Process(s *jobstore.Store, increment float64) Result {
	var res Result
	if j, ok := s.Promote(); ok {
		res.Promoted = &j
	}
	s.Advance(increment)
	res.Completed = s.CollectCompleted()
	return res
}
