package main

import (
	"fmt"
	"time"
)

// Config holds parameters for the load generator.
type Config struct {
	Broker      string
	TopicPrefix string
	// Vehicles are added once before the first job.
	Vehicles int
	// Count bounds the number of published jobs. Zero publishes until stopped.
	Count     int
	Interval  time.Duration
	Burst     int
	StrictPct float64
	// InvalidPct is the share of deliberately malformed submissions.
	InvalidPct float64
	Seed       int64
}

func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1")
	}
	if c.Vehicles < 0 || c.Count < 0 {
		return fmt.Errorf("vehicles and count must not be negative")
	}
	if c.StrictPct < 0 || c.StrictPct > 1 || c.InvalidPct < 0 || c.InvalidPct > 1 {
		return fmt.Errorf("percentages must be between 0 and 1")
	}
	return nil
}
