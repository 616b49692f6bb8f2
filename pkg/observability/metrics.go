package observability

import (
	"fmt"
	"net/http"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors fed by lifecycle hooks.
type Metrics struct {
	Steps         *prometheus.CounterVec
	Resets        prometheus.Counter
	InvalidInput  *prometheus.CounterVec
	ProcessLength prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
// Passing a *prometheus.Registry also lets Handler serve exactly what was registered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moore_steps_total",
			Help: "Transitions taken, by state entered and its output.",
		}, []string{"state", "output"}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moore_resets_total",
			Help: "Successful resets.",
		}),
		InvalidInput: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moore_invalid_input_total",
			Help: "Rejected operations, by kind (state or symbol).",
		}, []string{"kind"}),
		ProcessLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "moore_process_length",
			Help:    "Length of input sequences processed.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		gatherer: prometheus.DefaultGatherer,
	}

	for _, c := range []prometheus.Collector{m.Steps, m.Resets, m.InvalidInput, m.ProcessLength} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m, nil
}

// Hooks returns lifecycle hooks updating the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(e *domain.StepEvent) {
			m.Steps.WithLabelValues(string(e.To), string(e.Output)).Inc()
		},
		OnReset: func(*domain.ResetEvent) {
			m.Resets.Inc()
		},
		OnReject: func(e *domain.RejectEvent) {
			m.InvalidInput.WithLabelValues(string(e.Kind)).Inc()
		},
	}
}

// ObserveProcess records the length of a processed sequence.
func (m *Metrics) ObserveProcess(n int) {
	m.ProcessLength.Observe(float64(n))
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Combine merges several hook sets into one that calls each in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(e *domain.StepEvent) {
			for _, h := range hooks {
				if h.OnStep != nil {
					h.OnStep(e)
				}
			}
		},
		OnReset: func(e *domain.ResetEvent) {
			for _, h := range hooks {
				if h.OnReset != nil {
					h.OnReset(e)
				}
			}
		},
		OnReject: func(e *domain.RejectEvent) {
			for _, h := range hooks {
				if h.OnReject != nil {
					h.OnReject(e)
				}
			}
		},
	}
}
