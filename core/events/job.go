package events

import (
	"time"

	"github.com/kilianp07/fleetsim/core/model"
)

// Event is implemented by every engine event.
type Event interface {
	// Kind is a short stable name, also used as the MQTT topic suffix.
	Kind() string
}

// JobSubmitted is published after a job is queued.
type JobSubmitted struct {
	Job      model.Job `json:"job"`
	Position int       `json:"position"`
	Time     time.Time `json:"time"`
}

func (JobSubmitted) Kind() string { return "job_submitted" }

// JobRejected is published when a submission fails validation.
type JobRejected struct {
	Input  model.JobInput `json:"input"`
	Reason string         `json:"reason"`
	Time   time.Time      `json:"time"`
}

func (JobRejected) Kind() string { return "job_rejected" }

// JobPromoted is published when a job leaves the queue.
type JobPromoted struct {
	Job  model.Job `json:"job"`
	Tick uint64    `json:"tick"`
	Time time.Time `json:"time"`
}

func (JobPromoted) Kind() string { return "job_promoted" }

// JobCompleted is published when a job finishes.
type JobCompleted struct {
	Job  model.Job `json:"job"`
	Tick uint64    `json:"tick"`
	Time time.Time `json:"time"`
}

func (JobCompleted) Kind() string { return "job_completed" }
