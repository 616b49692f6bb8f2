package observability_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/moore"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HooksCountMachineActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	m, err := moore.New(domain.StateA, moore.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)

	_, err = m.Process("00110", false)
	require.NoError(t, err)
	_, err = m.Process("012", false)
	require.Error(t, err)
	require.Error(t, m.Reset("Z"))
	require.NoError(t, m.Reset(domain.StateE))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Steps.WithLabelValues("A", "A")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Steps.WithLabelValues("B", "B")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Steps.WithLabelValues("Da", "B")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Resets))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.InvalidInput.WithLabelValues("symbol")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.InvalidInput.WithLabelValues("state")))
}

func TestMetrics_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	metrics.ObserveProcess(5)
	metrics.Resets.Inc()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(body, "moore_resets_total 1"), body)
	assert.Contains(t, body, "moore_process_length_count 1")
}

func TestMetrics_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestCombine(t *testing.T) {
	var a, b int
	hooks := observability.Combine(
		domain.LifecycleHooks{OnStep: func(*domain.StepEvent) { a++ }},
		domain.LifecycleHooks{OnStep: func(*domain.StepEvent) { b++ }, OnReset: func(*domain.ResetEvent) { b += 10 }},
	)

	m, err := moore.New(domain.StateA, moore.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	_, _ = m.Step('1')
	require.NoError(t, m.Reset(domain.StateA))

	assert.Equal(t, 1, a)
	assert.Equal(t, 11, b)
}
