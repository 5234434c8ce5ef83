// Package metrics defines the interfaces used to observe the dispatch engine.
// Sinks such as PromSink and InfluxSink (see infra/metrics) record tick
// summaries, job submissions and completions, and can be combined with
// NewMultiSink. NewMetricsSink builds the configured sinks from the registry
// and returns a MultiSink automatically when several are configured.
package metrics
