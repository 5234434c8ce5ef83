package scenarios

import (
	"fmt"
	"slices"

	"github.com/kilianp07/fleetsim/core/engine"
	"github.com/kilianp07/fleetsim/core/model"
	"github.com/kilianp07/fleetsim/core/stats"
)

// Result is the outcome of an offline run.
type Result struct {
	Name     string
	Ticks    uint64
	Final    model.StateView
	Summary  stats.Summary
	Rejected []string
}

// Run replays sc on a fresh engine without a wall clock.
func Run(sc *Scenario, opts ...engine.Option) (*Result, error) {
	eng, err := engine.New(engine.Config{TickIncrement: sc.TickIncrement}, opts...)
	if err != nil {
		return nil, err
	}
	for i := 0; i < sc.Vehicles; i++ {
		eng.AddVehicle()
	}
	res := &Result{Name: sc.Name}
	for t := 0; t <= sc.Ticks; t++ {
		for i := 0; i < sc.AddVehicles[t]; i++ {
			eng.AddVehicle()
		}
		for _, j := range sc.Jobs {
			if j.AtTick != t {
				continue
			}
			if _, err := eng.Submit(j.ToInput()); err != nil {
				res.Rejected = append(res.Rejected, j.Name)
			}
		}
		if t < sc.Ticks {
			eng.Tick()
		}
	}
	res.Ticks = eng.Ticks()
	res.Final = eng.Snapshot()
	res.Summary = stats.Summarize(res.Final)
	return res, nil
}

// Verify lists every difference between res and the expectations of sc.
func (sc *Scenario) Verify(res *Result) []string {
	var diffs []string
	check := func(what string, want []string, jobs []model.Job) {
		if want == nil {
			return
		}
		if got := jobNames(jobs); !slices.Equal(want, got) {
			diffs = append(diffs, fmt.Sprintf("%s: want %v, got %v", what, want, got))
		}
	}
	check("completed", sc.Expected.Completed, res.Final.Completed)
	check("queued", sc.Expected.Queued, res.Final.Queued)
	check("ongoing", sc.Expected.Ongoing, res.Final.Ongoing)
	if want := sc.Expected.Rejected; want != nil && !slices.Equal(want, res.Rejected) {
		diffs = append(diffs, fmt.Sprintf("rejected: want %v, got %v", want, res.Rejected))
	}
	if want := sc.Expected.FreeVehicles; want != nil && *want != res.Final.FreeVehicles {
		diffs = append(diffs, fmt.Sprintf("free vehicles: want %d, got %d", *want, res.Final.FreeVehicles))
	}
	return diffs
}

func jobNames(jobs []model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Name
	}
	return out
}
