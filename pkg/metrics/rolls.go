package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RollMetrics records roll lifecycle outcomes.
type RollMetrics struct {
	operations *prometheus.CounterVec
	consumed   prometheus.Counter
}

// NewRollMetrics registers the roll metrics on the provided registerer.
func NewRollMetrics(reg prometheus.Registerer) *RollMetrics {
	if reg == nil {
		return &RollMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filly_roll_operations_total",
		Help: "Roll lifecycle operations by outcome.",
	}, []string{"op", "result"})
	consumed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "filly_roll_grams_consumed_total",
		Help: "Filament grams removed from rolls through weight updates.",
	})
	reg.MustRegister(operations, consumed)
	return &RollMetrics{
		operations: operations,
		consumed:   consumed,
	}
}

// ObserveOperation counts one operation with its outcome (ok, not_found, error).
func (m *RollMetrics) ObserveOperation(op string, outcome string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// AddGramsConsumed adds to the consumed filament counter. Non-positive values are ignored.
func (m *RollMetrics) AddGramsConsumed(grams float64) {
	if m == nil || m.consumed == nil || grams <= 0 {
		return
	}
	m.consumed.Add(grams)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
