package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics() // 重复调用不应panic(重复注册)

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsInProgress)
	assert.NotNil(t, BookOperationsTotal)
	assert.NotNil(t, BookOperationDuration)
	assert.NotNil(t, CommentsAddedTotal)
	assert.NotNil(t, CircuitBreakerState)
	assert.NotNil(t, CircuitBreakerRequests)
}

func TestObserveBookOperation(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"operation": "metrics_test_get", "result": "not_found"}
	before := getCounterVecValue(t, BookOperationsTotal, labels)

	ObserveBookOperation("metrics_test_get", "not_found", 0.002)
	ObserveBookOperation("metrics_test_get", "not_found", 0.004)
	ObserveBookOperation("metrics_test_get", "ok", 0.001)

	assert.Equal(t, before+2, getCounterVecValue(t, BookOperationsTotal, labels))
	assert.Equal(t, uint64(3), getHistogramVecCount(t, BookOperationDuration, map[string]string{"operation": "metrics_test_get"}))
}

func TestCounter(t *testing.T) {
	InitMetrics()

	before := getCounterValue(t, CommentsAddedTotal)
	IncCounter(CommentsAddedTotal)
	IncCounter(CommentsAddedTotal)
	assert.Equal(t, before+2, getCounterValue(t, CommentsAddedTotal))
}

func TestGauge(t *testing.T) {
	InitMetrics()

	before := getGaugeValue(t, HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	assert.Equal(t, before+2, getGaugeValue(t, HTTPRequestsInProgress))

	DecGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)
	assert.Equal(t, before, getGaugeValue(t, HTTPRequestsInProgress))
}

func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "store-a"}, 0)
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "store-b"}, 1)

	assert.Equal(t, float64(0), getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "store-a"}))
	assert.Equal(t, float64(1), getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "store-b"}))
}

// 辅助函数：读取Counter值
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, counter.Write(&metric))
	return metric.Counter.GetValue()
}

// 辅助函数：读取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	return getCounterValue(t, counterVec.With(labels))
}

// 辅助函数：读取Gauge值
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, gauge.Write(&metric))
	return metric.Gauge.GetValue()
}

// 辅助函数：读取GaugeVec值
func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	t.Helper()
	return getGaugeValue(t, gaugeVec.With(labels))
}

// 辅助函数：读取HistogramVec观测次数
func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	t.Helper()
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	require.NoError(t, histogram.(prometheus.Histogram).Write(&metric))
	return metric.Histogram.GetSampleCount()
}
