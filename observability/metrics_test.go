package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestExecutionMetricsExportThroughOTel(t *testing.T) {
	m := Execution()
	saved := *m
	t.Cleanup(func() { *m = saved })

	reader := sdkmetric.NewManualReader()
	m.initMeter(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	m.ObserveOperation("Transfer", "SUCCESS", 0, time.Millisecond)
	m.ObserveOperation("Transfer", "SUCCESS", 0, time.Millisecond)
	m.ObserveOperation("Stake", "", 0, time.Millisecond)
	m.ObserveBlock(nil, 20*time.Millisecond)

	data := collect(t, reader)

	ops, ok := data["mcash.execution.operations"].(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range ops.DataPoints {
		op, _ := dp.Attributes.Value(attribute.Key("operation"))
		code, _ := dp.Attributes.Value(attribute.Key("code"))
		counts[op.AsString()+"/"+code.AsString()] = dp.Value
	}
	require.Equal(t, map[string]int64{"Transfer/SUCCESS": 2, "Stake/unknown": 1}, counts)

	blocks, ok := data["mcash.execution.blocks"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, blocks.DataPoints, 1)
	require.Equal(t, int64(1), blocks.DataPoints[0].Value)

	seconds, ok := data["mcash.execution.block.duration"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, seconds.DataPoints, 1)
	require.Equal(t, uint64(1), seconds.DataPoints[0].Count)
}
