package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/fleetsim/core/model"
)

// JobDef is a job submitted before tick AtTick runs. A job with AtTick equal
// to the scenario length is submitted after the last tick.
type JobDef struct {
	AtTick         int     `yaml:"at_tick"`
	Name           string  `yaml:"name"`
	ProcessingTime float64 `yaml:"processing_time"`
	Profit         float64 `yaml:"profit"`
	Deadline       float64 `yaml:"deadline"`
	Flexibility    string  `yaml:"flexibility"`
}

func (j JobDef) ToInput() model.JobInput {
	return model.JobInput{
		Name:           j.Name,
		ProcessingTime: j.ProcessingTime,
		Profit:         j.Profit,
		Deadline:       j.Deadline,
		Flexibility:    model.Flexibility(j.Flexibility),
	}
}

// Expected lists the final state a scenario must reach. Nil fields are not
// checked.
type Expected struct {
	Completed    []string `yaml:"completed"`
	Queued       []string `yaml:"queued"`
	Ongoing      []string `yaml:"ongoing,omitempty"`
	Rejected     []string `yaml:"rejected,omitempty"`
	FreeVehicles *int     `yaml:"free_vehicles"`
}

type Scenario struct {
	Name          string      `yaml:"name"`
	Description   string      `yaml:"description,omitempty"`
	Vehicles      int         `yaml:"vehicles"`
	TickIncrement float64     `yaml:"tick_increment"`
	Ticks         int         `yaml:"ticks"`
	Jobs          []JobDef    `yaml:"jobs"`
	AddVehicles   map[int]int `yaml:"add_vehicles,omitempty"`
	Expected      Expected    `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks the scenario timeline.
func (sc *Scenario) Validate() error {
	if sc.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative")
	}
	if sc.Vehicles < 0 {
		return fmt.Errorf("vehicles must not be negative")
	}
	if sc.TickIncrement < 0 {
		return fmt.Errorf("tick_increment must not be negative")
	}
	for i, j := range sc.Jobs {
		if j.AtTick < 0 || j.AtTick > sc.Ticks {
			return fmt.Errorf("jobs[%d]: at_tick %d outside 0..%d", i, j.AtTick, sc.Ticks)
		}
	}
	for at, n := range sc.AddVehicles {
		if at < 0 || at > sc.Ticks || n < 0 {
			return fmt.Errorf("add_vehicles: invalid entry %d: %d", at, n)
		}
	}
	return nil
}
