package engine

import (
	"fmt"
	"time"

	"github.com/kilianp07/fleetsim/core/tick"
)

// Config holds the simulation settings of the engine.
type Config struct {
	// TickIncrement is the simulated time added to every ongoing job per tick.
	TickIncrement float64 `json:"tick_increment"`
	// TickIntervalMS is the wall-clock period of the clock driver.
	TickIntervalMS int `json:"tick_interval_ms"`
	// Autostart starts the clock driver with the service.
	Autostart bool `json:"autostart"`
	// SaveTimeoutMS bounds a single state store write.
	SaveTimeoutMS int `json:"save_timeout_ms"`
}

// SetDefaults fills zero values with the reference cadence.
func (c *Config) SetDefaults() {
	if c.TickIncrement == 0 {
		c.TickIncrement = tick.DefaultIncrement
	}
	if c.TickIntervalMS == 0 {
		c.TickIntervalMS = 500
	}
	if c.SaveTimeoutMS == 0 {
		c.SaveTimeoutMS = 2000
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.TickIncrement <= 0 {
		return fmt.Errorf("engine.tick_increment must be positive")
	}
	if c.TickIntervalMS <= 0 {
		return fmt.Errorf("engine.tick_interval_ms must be positive")
	}
	if c.SaveTimeoutMS < 0 {
		return fmt.Errorf("engine.save_timeout_ms must not be negative")
	}
	return nil
}

// TickInterval returns the driver period.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

func (c Config) saveTimeout() time.Duration {
	return time.Duration(c.SaveTimeoutMS) * time.Millisecond
}
