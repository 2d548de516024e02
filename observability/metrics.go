package observability

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type executionMetrics struct {
	operations *prometheus.CounterVec
	anomalies  *prometheus.CounterVec
	fees       *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	blocks     *prometheus.CounterVec
	blockTime  prometheus.Histogram

	// OTLP counterparts, exported when the meter provider is configured.
	opCounter    metric.Int64Counter
	blockCounter metric.Int64Counter
	blockSeconds metric.Float64Histogram
}

var (
	executionMetricsOnce sync.Once
	executionRegistry    *executionMetrics
)

// Execution returns the lazily-initialised registry that tracks operation
// outcomes and block application latency.
func Execution() *executionMetrics {
	executionMetricsOnce.Do(func() {
		executionRegistry = &executionMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "mcash",
				Subsystem: "execution",
				Name:      "operations_total",
				Help:      "Applied operations segmented by kind and result code.",
			}, []string{"operation", "code"}),
			anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "mcash",
				Subsystem: "execution",
				Name:      "anomalies_total",
				Help:      "Operations that passed validation but failed to execute.",
			}, []string{"operation"}),
			fees: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "mcash",
				Subsystem: "execution",
				Name:      "fees_burned_total",
				Help:      "Fees burned by applied operations, in the smallest unit.",
			}, []string{"operation"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "mcash",
				Subsystem: "execution",
				Name:      "operation_duration_seconds",
				Help:      "Latency distribution of validate plus execute per operation kind.",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			}, []string{"operation"}),
			blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "mcash",
				Subsystem: "execution",
				Name:      "blocks_total",
				Help:      "Applied blocks segmented by outcome.",
			}, []string{"outcome"}),
			blockTime: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "mcash",
				Subsystem: "execution",
				Name:      "block_duration_seconds",
				Help:      "Time spent applying a block including commit.",
				Buckets:   prometheus.DefBuckets,
			}),
		}
		prometheus.MustRegister(
			executionRegistry.operations,
			executionRegistry.anomalies,
			executionRegistry.fees,
			executionRegistry.latency,
			executionRegistry.blocks,
			executionRegistry.blockTime,
		)
		executionRegistry.initMeter(otel.GetMeterProvider())
	})
	return executionRegistry
}

// initMeter creates the OTLP instruments from provider. The global provider
// delegates to whatever Init installs later. Any instrument error falls back
// to no-op instruments.
func (m *executionMetrics) initMeter(provider metric.MeterProvider) {
	meter := provider.Meter("mcashchain/execution")
	opCounter, err := meter.Int64Counter("mcash.execution.operations",
		metric.WithDescription("Applied operations segmented by kind and result code."))
	if err != nil {
		meter = noop.NewMeterProvider().Meter("mcashchain/execution")
		opCounter, _ = meter.Int64Counter("mcash.execution.operations")
	}
	blockCounter, err := meter.Int64Counter("mcash.execution.blocks",
		metric.WithDescription("Applied blocks segmented by outcome."))
	if err != nil {
		blockCounter, _ = noop.NewMeterProvider().Meter("mcashchain/execution").Int64Counter("mcash.execution.blocks")
	}
	blockSeconds, err := meter.Float64Histogram("mcash.execution.block.duration",
		metric.WithDescription("Time spent applying a block including commit."),
		metric.WithUnit("s"))
	if err != nil {
		blockSeconds, _ = noop.NewMeterProvider().Meter("mcashchain/execution").Float64Histogram("mcash.execution.block.duration")
	}
	m.opCounter, m.blockCounter, m.blockSeconds = opCounter, blockCounter, blockSeconds
}

// ObserveOperation records the outcome of a single operation.
func (m *executionMetrics) ObserveOperation(operation, code string, fee int64, duration time.Duration) {
	if m == nil {
		return
	}
	operation = normalizeLabel(operation)
	m.operations.WithLabelValues(operation, normalizeLabel(code)).Inc()
	if fee > 0 {
		m.fees.WithLabelValues(operation).Add(float64(fee))
	}
	m.latency.WithLabelValues(operation).Observe(duration.Seconds())
	if m.opCounter != nil {
		m.opCounter.Add(context.Background(), 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("code", normalizeLabel(code)),
		))
	}
}

// RecordAnomaly increments the execution anomaly counter.
func (m *executionMetrics) RecordAnomaly(operation string) {
	if m == nil {
		return
	}
	m.anomalies.WithLabelValues(normalizeLabel(operation)).Inc()
}

// ObserveBlock records a block application attempt.
func (m *executionMetrics) ObserveBlock(err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "committed"
	if err != nil {
		outcome = "failed"
	}
	m.blocks.WithLabelValues(outcome).Inc()
	m.blockTime.Observe(duration.Seconds())
	if m.blockCounter != nil {
		ctx := context.Background()
		outcomeAttr := metric.WithAttributes(attribute.String("outcome", outcome))
		m.blockCounter.Add(ctx, 1, outcomeAttr)
		m.blockSeconds.Record(ctx, duration.Seconds(), outcomeAttr)
	}
}

func normalizeLabel(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
