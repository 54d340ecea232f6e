package gaussmix

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "gaussmix"

// Metrics collects prometheus metrics for the fits of one or more models.
// A nil *Metrics records nothing.
type Metrics struct {
	Fits          prometheus.Counter
	Iterations    prometheus.Counter
	LogLikelihood prometheus.Gauge
	Failures      *prometheus.CounterVec
}

// NewMetrics creates the collectors under the given namespace, or under
// "gaussmix" if namespace is empty. They still need to be registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &Metrics{
		Fits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fits_total",
			Help:      "Completed mixture fits.",
		}),
		Iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "em_iterations_total",
			Help:      "EM rounds run across all fits.",
		}),
		LogLikelihood: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "log_likelihood",
			Help:      "Training log-likelihood at the end of the last fit.",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fit_failures_total",
			Help:      "Failed fits by reason.",
		}, []string{"reason"}),
	}
}

// Register registers all collectors with r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Fits, m.Iterations, m.LogLikelihood, m.Failures} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) iteration() {
	if m == nil {
		return
	}
	m.Iterations.Inc()
}

func (m *Metrics) fitted(logLikelihood float64) {
	if m == nil {
		return
	}
	m.Fits.Inc()
	m.LogLikelihood.Set(logLikelihood)
}

func (m *Metrics) failed(err error) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(failureReason(err)).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrShape):
		return "shape"
	case errors.Is(err, ErrNotPositiveDefinite):
		return "numerical"
	case errors.Is(err, ErrEmptyComponent):
		return "empty_component"
	case errors.Is(err, ErrTooFewSamples):
		return "too_few_samples"
	default:
		return "other"
	}
}
