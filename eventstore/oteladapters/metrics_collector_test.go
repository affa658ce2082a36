package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/acmsl/licdata/eventstore/oteladapters"
)

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// arrange
	reader, collector := givenMetricsCollector()

	// act
	collector.RecordDuration(
		"reconciler_handle_duration_seconds",
		150*time.Millisecond,
		map[string]string{"kind": "Client", "status": "success"},
	)

	// assert
	histogram := collectMetric[metricdata.Histogram[float64]](t, reader, "reconciler_handle_duration_seconds")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)

	expected := attribute.NewSet(attribute.String("kind", "Client"), attribute.String("status", "success"))
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expected))
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// arrange
	reader, collector := givenMetricsCollector()
	labels := map[string]string{"operation": "create", "outcome": "ClientCreated"}

	// act
	collector.IncrementCounter("reconciler_handle_calls_total", labels)
	collector.IncrementCounterContext(context.Background(), "reconciler_handle_calls_total", labels)

	// assert
	sum := collectMetric[metricdata.Sum[int64]](t, reader, "reconciler_handle_calls_total")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// arrange
	reader, collector := givenMetricsCollector()

	// act
	collector.RecordValue("eventstore_events_queried_total", 3, nil)
	collector.RecordValueContext(context.Background(), "eventstore_events_queried_total", 7, nil)

	// assert
	gauge := collectMetric[metricdata.Gauge[float64]](t, reader, "eventstore_events_queried_total")
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, float64(7), gauge.DataPoints[0].Value)
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	// arrange
	reader, collector := givenMetricsCollector()
	var wg sync.WaitGroup

	// act
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("concurrent_total", map[string]string{"kind": "Pc"})
		}()
	}

	wg.Wait()

	// assert
	sum := collectMetric[metricdata.Sum[int64]](t, reader, "concurrent_total")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(50), sum.DataPoints[0].Value)
}

func givenMetricsCollector() (*sdkmetric.ManualReader, *oteladapters.MetricsCollector) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return reader, oteladapters.NewMetricsCollector(provider.Meter("licdata-test"))
}

func collectMetric[T metricdata.Aggregation](t *testing.T, reader *sdkmetric.ManualReader, name string) T {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name != name {
				continue
			}

			data, ok := m.Data.(T)
			require.True(t, ok, "metric %s has unexpected data type %T", name, m.Data)

			return data
		}
	}

	t.Fatalf("metric %s not found", name)

	var zero T
	return zero
}
