package model

import (
	"fmt"
	"math"
)

// Flexibility selects which priority rule applies to a job.
type Flexibility string

const (
	// Flexible jobs are ordered by profit-to-time ratio.
	Flexible Flexibility = "flexible"
	// Strict jobs are ordered by deadline.
	Strict Flexibility = "strict"
)

// Valid reports whether f is one of the known values.
func (f Flexibility) Valid() bool {
	return f == Flexible || f == Strict
}

// Job is a delivery waiting for, using or done with a vehicle.
type Job struct {
	ID                      string      `json:"id"`
	Name                    string      `json:"name"`
	ProcessingTime          float64     `json:"processingTime"`
	ProcessingTimeCompleted float64     `json:"processingTimeCompleted"`
	Profit                  float64     `json:"profit"`
	Deadline                float64     `json:"deadline"`
	Flexibility             Flexibility `json:"flexibility"`
	// ProfitToTimeRatio is computed once by NewJob and never refreshed.
	ProfitToTimeRatio float64 `json:"profitToTimeRatio"`
}

// Done reports whether the job accumulated all of its processing time.
func (j Job) Done() bool {
	return j.ProcessingTimeCompleted >= j.ProcessingTime
}

// Progress returns the completed fraction of the job. It is not clamped.
func (j Job) Progress() float64 {
	if j.ProcessingTime <= 0 {
		return 0
	}
	return j.ProcessingTimeCompleted / j.ProcessingTime
}

// JobInput carries the fields a caller provides to submit a job.
type JobInput struct {
	Name           string      `json:"name"`
	ProcessingTime float64     `json:"processingTime"`
	Profit         float64     `json:"profit"`
	Deadline       float64     `json:"deadline"`
	Flexibility    Flexibility `json:"flexibility"`
}

// Validate checks that the input can become a Job.
func (in JobInput) Validate() error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !finite(in.ProcessingTime) || in.ProcessingTime <= 0 {
		return &ValidationError{Field: "processingTime", Reason: "must be a number greater than zero"}
	}
	if !finite(in.Profit) {
		return &ValidationError{Field: "profit", Reason: "must be a finite number"}
	}
	if !finite(in.Deadline) {
		return &ValidationError{Field: "deadline", Reason: "must be a finite number"}
	}
	if !in.Flexibility.Valid() {
		return &ValidationError{Field: "flexibility", Reason: fmt.Sprintf("must be %q or %q", Flexible, Strict)}
	}
	return nil
}

// NewJob validates in and builds a fresh Job with the given identifier.
func NewJob(id string, in JobInput) (Job, error) {
	if err := in.Validate(); err != nil {
		return Job{}, err
	}
	return Job{
		ID:                id,
		Name:              in.Name,
		ProcessingTime:    in.ProcessingTime,
		Profit:            in.Profit,
		Deadline:          in.Deadline,
		Flexibility:       in.Flexibility,
		ProfitToTimeRatio: in.Profit / in.ProcessingTime,
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
