// Package stats derives display statistics from an engine snapshot.
package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/fleetsim/core/model"
)

// Summary aggregates the counters shown next to the job table.
type Summary struct {
	Queued       int `json:"queued"`
	Ongoing      int `json:"ongoing"`
	Completed    int `json:"completed"`
	Total        int `json:"total"`
	FreeVehicles int `json:"free_vehicles"`
	// MeanProgress is the average completed fraction of ongoing jobs.
	MeanProgress float64 `json:"mean_progress"`
	// RealizedProfit sums the profit of completed jobs.
	RealizedProfit float64 `json:"realized_profit"`
	// PendingProfit sums the profit of queued and ongoing jobs.
	PendingProfit float64 `json:"pending_profit"`
	// MeanQueueRatio is the average profit-to-time ratio of queued jobs.
	MeanQueueRatio float64 `json:"mean_queue_ratio"`
}

// Summarize computes the summary of v. Means over empty collections are 0.
func Summarize(v model.StateView) Summary {
	s := Summary{
		Queued:       len(v.Queued),
		Ongoing:      len(v.Ongoing),
		Completed:    len(v.Completed),
		Total:        v.Total(),
		FreeVehicles: v.FreeVehicles,
	}
	s.MeanProgress = mean(v.Ongoing, model.Job.Progress)
	s.MeanQueueRatio = mean(v.Queued, func(j model.Job) float64 { return j.ProfitToTimeRatio })
	s.RealizedProfit = floats.Sum(profits(v.Completed))
	s.PendingProfit = floats.Sum(profits(v.Queued)) + floats.Sum(profits(v.Ongoing))
	return s
}

func mean(jobs []model.Job, f func(model.Job) float64) float64 {
	if len(jobs) == 0 {
		return 0
	}
	xs := make([]float64, len(jobs))
	for i, j := range jobs {
		xs[i] = f(j)
	}
	return stat.Mean(xs, nil)
}

func profits(jobs []model.Job) []float64 {
	out := make([]float64, len(jobs))
	for i, j := range jobs {
		out[i] = j.Profit
	}
	return out
}
