// Package metrics implements the Prometheus and InfluxDB metrics sinks.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/fleetsim/core/factory"
	coremetrics "github.com/kilianp07/fleetsim/core/metrics"
)

// InfluxConfig is the conf block of an "influx" sink entry.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
	// Strict disables the fallback to a no-op sink when the health check fails.
	Strict bool `json:"strict"`
}

// Validate reports missing connection settings.
func (c InfluxConfig) Validate() error {
	var errs []error
	if c.URL == "" {
		errs = append(errs, errors.New("influx: url is required"))
	}
	if c.Bucket == "" {
		errs = append(errs, errors.New("influx: bucket is required"))
	}
	return errors.Join(errs...)
}

func newNop(map[string]any) (coremetrics.MetricsSink, error) { return coremetrics.NopSink{}, nil }

func newProm(map[string]any) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

func newInflux(conf map[string]any) (coremetrics.MetricsSink, error) {
	var c InfluxConfig
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Strict {
		return NewInfluxSink(c.URL, c.Token, c.Org, c.Bucket), nil
	}
	return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
}

func init() {
	for name, f := range map[string]factory.Factory[coremetrics.MetricsSink]{
		"nop":        newNop,
		"prometheus": newProm,
		"influx":     newInflux,
	} {
		_ = coremetrics.RegisterMetricsSink(name, f)
	}
}
