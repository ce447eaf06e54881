package metrics

// Package metrics defines the sinks that record price decisions for
// observability. Implementations such as PromSink and InfluxSink live in
// infra/metrics and register themselves with RegisterMetricsSink. The factory
// helpers return a MultiSink automatically when multiple sinks are
// configured.
