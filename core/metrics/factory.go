package metrics

import (
	"fmt"

	"github.com/kilianp07/fleetsim/core/factory"
)

var sinks = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink makes a sink type available to NewMetricsSink.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinks.Register(name, f)
}

// SinkTypes lists the registered sink types.
func SinkTypes() []string { return sinks.Types() }

// NewMetricsSink builds every configured sink. No entries yield a NopSink,
// one entry the sink itself and several a MultiSink. When an entry fails the
// sinks built so far are closed.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	switch len(cfgs) {
	case 0:
		return NopSink{}, nil
	case 1:
		s, err := sinks.Create(cfgs[0])
		if err != nil {
			return nil, fmt.Errorf("metrics sink %q: %w", cfgs[0].Type, err)
		}
		return s, nil
	}

	multi := &MultiSink{Sinks: make([]MetricsSink, 0, len(cfgs))}
	for i, c := range cfgs {
		s, err := sinks.Create(c)
		if err != nil {
			multi.Close()
			return nil, fmt.Errorf("metrics sink #%d %q: %w", i, c.Type, err)
		}
		multi.Sinks = append(multi.Sinks, s)
	}
	return multi, nil
}
