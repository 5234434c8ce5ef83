package model

// Status is the lifecycle stage of a job as shown to clients.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// StateView is a detached copy of the engine state.
type StateView struct {
	FreeVehicles int   `json:"freeVehicles"`
	Queued       []Job `json:"queued"`
	Ongoing      []Job `json:"ongoing"`
	Completed    []Job `json:"completed"`
}

// Clone returns a copy sharing no slices with v.
func (v StateView) Clone() StateView {
	return StateView{
		FreeVehicles: v.FreeVehicles,
		Queued:       cloneJobs(v.Queued),
		Ongoing:      cloneJobs(v.Ongoing),
		Completed:    cloneJobs(v.Completed),
	}
}

// Total returns the number of jobs across all collections.
func (v StateView) Total() int {
	return len(v.Queued) + len(v.Ongoing) + len(v.Completed)
}

// JobView decorates a job with its status and progress for display.
type JobView struct {
	Job
	Status   Status  `json:"status"`
	Progress float64 `json:"progress"`
}

// Views lists ongoing jobs first, then queued, then completed.
func (v StateView) Views() []JobView {
	out := make([]JobView, 0, v.Total())
	for _, j := range v.Ongoing {
		out = append(out, JobView{Job: j, Status: StatusOngoing, Progress: j.Progress()})
	}
	for _, j := range v.Queued {
		out = append(out, JobView{Job: j, Status: StatusQueued, Progress: 0})
	}
	for _, j := range v.Completed {
		out = append(out, JobView{Job: j, Status: StatusCompleted, Progress: 1})
	}
	return out
}

func cloneJobs(in []Job) []Job {
	out := make([]Job, len(in))
	copy(out, in)
	return out
}
