package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Backend request metrics
	RequestDuration metric.Float64Histogram

	// Provisioning metrics
	ProvisionRunsTotal         metric.Int64Counter
	ProvisionStepDuration      metric.Float64Histogram
	ProvisionStepFailuresTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary.
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(instrumentationName)

	m := &Metrics{}

	m.RequestDuration, _ = meter.Float64Histogram(
		"timetable.backend.request.duration",
		metric.WithDescription("Duration of backend HTTP requests"),
		metric.WithUnit("ms"),
	)

	m.ProvisionRunsTotal, _ = meter.Int64Counter(
		"timetable.provision.runs.total",
		metric.WithDescription("Total number of provisioning submissions by outcome"),
		metric.WithUnit("{run}"),
	)

	m.ProvisionStepDuration, _ = meter.Float64Histogram(
		"timetable.provision.step.duration",
		metric.WithDescription("Duration of individual provisioning steps"),
		metric.WithUnit("ms"),
	)

	m.ProvisionStepFailuresTotal, _ = meter.Int64Counter(
		"timetable.provision.step.failures.total",
		metric.WithDescription("Total number of provisioning steps that failed"),
		metric.WithUnit("{step}"),
	)

	return m
}
