package observability

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aretw0/rail/pkg/domain"
	"github.com/aretw0/rail/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rail"

// Metrics holds the Prometheus collectors fed by validation hooks.
type Metrics struct {
	Validations        *prometheus.CounterVec
	ValidationDuration prometheus.Histogram
	ValidatorCalls     *prometheus.CounterVec
	ValidatorDuration  *prometheus.HistogramVec
	NodeFailures       *prometheus.CounterVec
	SchemaReloads      *prometheus.CounterVec

	starts sync.Map // span key -> time.Time
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Validations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of document validations",
			},
			[]string{"result"},
		),
		ValidationDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Document validation duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
		ValidatorCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validator_calls_total",
				Help:      "Total number of validator invocations",
			},
			[]string{"validator", "result"},
		),
		ValidatorDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validator_duration_seconds",
				Help:      "Validator invocation duration in seconds",
				Buckets:   []float64{.00001, .0001, .001, .01, .1, 1, 10},
			},
			[]string{"validator"},
		),
		NodeFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_failures_total",
				Help:      "Validation failures by node tag, counted where the failure was raised",
			},
			[]string{"tag"},
		),
		SchemaReloads: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schema_reloads_total",
				Help:      "Schema reloads triggered by file changes",
			},
			[]string{"result"},
		),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveReload records a schema reload attempt.
func (m *Metrics) ObserveReload(err error) {
	m.SchemaReloads.WithLabelValues(result(err)).Inc()
}

// Hooks returns lifecycle hooks that feed m. Document-level metrics are
// taken from the root node, the one with an empty path.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			if e.Path == "" {
				m.starts.Store(spanKey(e.CallID, "", ""), e.Timestamp)
			}
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			if e.Err != nil && m.raisedHere(e) {
				m.NodeFailures.WithLabelValues(e.Tag).Inc()
			}
			if e.Path != "" {
				return
			}
			m.Validations.WithLabelValues(result(e.Err)).Inc()
			if d, ok := m.elapsed(spanKey(e.CallID, "", ""), e.Timestamp); ok {
				m.ValidationDuration.Observe(d.Seconds())
			}
		},
		OnValidatorCall: func(ctx context.Context, e *domain.ValidatorEvent) {
			m.starts.Store(spanKey(e.CallID, e.Path, e.Validator), e.Timestamp)
		},
		OnValidatorReturn: func(ctx context.Context, e *domain.ValidatorEvent) {
			m.ValidatorCalls.WithLabelValues(e.Validator, result(e.Err)).Inc()
			if d, ok := m.elapsed(spanKey(e.CallID, e.Path, e.Validator), e.Timestamp); ok {
				m.ValidatorDuration.WithLabelValues(e.Validator).Observe(d.Seconds())
			}
		},
	}
}

// raisedHere reports whether the failure carried by a leave event
// originates at its node rather than below it.
func (m *Metrics) raisedHere(e *domain.NodeEvent) bool {
	var pe *schema.PathError
	if errors.As(e.Err, &pe) {
		return pe.Path.String() == e.Path
	}
	return e.Path == ""
}

func (m *Metrics) elapsed(key string, end time.Time) (time.Duration, bool) {
	v, ok := m.starts.LoadAndDelete(key)
	if !ok {
		return 0, false
	}
	return end.Sub(v.(time.Time)), true
}

func spanKey(callID, path, validator string) string {
	return callID + "\x00" + path + "\x00" + validator
}
