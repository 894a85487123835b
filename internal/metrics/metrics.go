package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tartampluch/go-agecalc/internal/age"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// Metrics holds the Prometheus collectors of the calculator.
type Metrics struct {
	Calculations *prometheus.CounterVec
	Birthdays    prometheus.Counter
	Celebrating  prometheus.Gauge
}

// New creates the collectors and registers them on reg.
// Each server owns its registry so tests can build several instances.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.MetricNamespace,
			Name:      config.MetricCalculations,
			Help:      config.MetricHelpCalcs,
		}, []string{config.MetricLabelOutcome}),
		Birthdays: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricNamespace,
			Name:      config.MetricBirthdays,
			Help:      config.MetricHelpBirthdays,
		}),
		Celebrating: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: config.MetricNamespace,
			Name:      config.MetricCelebrations,
			Help:      config.MetricHelpCelebrates,
		}),
	}
}

// ObserveCalculation records the outcome of one calculation. A nil receiver is a no-op.
func (m *Metrics) ObserveCalculation(b age.Breakdown, err error) {
	if m == nil {
		return
	}
	m.Calculations.WithLabelValues(Outcome(err)).Inc()
	if err == nil && b.IsBirthdayToday {
		m.Birthdays.Inc()
	}
}

// ObserveCelebration mirrors the celebration flag. A nil receiver is a no-op.
func (m *Metrics) ObserveCelebration(active bool) {
	if m == nil {
		return
	}
	if active {
		m.Celebrating.Set(1)
	} else {
		m.Celebrating.Set(0)
	}
}

// Outcome maps a calculation error to its label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return config.OutcomeSuccess
	case errors.Is(err, age.ErrEmptyInput):
		return config.CodeEmptyInput
	case errors.Is(err, age.ErrFutureDate):
		return config.CodeFutureDate
	case errors.Is(err, age.ErrInvalidDate):
		return config.CodeInvalidDate
	}
	return config.CodeInternal
}
