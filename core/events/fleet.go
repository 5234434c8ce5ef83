package events

import "time"

// VehicleAdded is published after capacity grows.
type VehicleAdded struct {
	FreeVehicles int       `json:"free_vehicles"`
	Time         time.Time `json:"time"`
}

func (VehicleAdded) Kind() string { return "vehicle_added" }

// Ticked summarizes a simulation step.
type Ticked struct {
	Tick         uint64    `json:"tick"`
	Queued       int       `json:"queued"`
	Ongoing      int       `json:"ongoing"`
	Completed    int       `json:"completed"`
	FreeVehicles int       `json:"free_vehicles"`
	Time         time.Time `json:"time"`
}

func (Ticked) Kind() string { return "ticked" }
