package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// Callbacks counts handled callbacks by outcome
	// (ok, disabled, invalid_param, invalid_secret_key, lookup_failed, update_failed).
	Callbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "superfaktura_callbacks_total",
			Help: "Invoicing callbacks by outcome.",
		},
		[]string{"outcome"},
	)

	// Transitions counts per-order transition attempts by result (applied, skipped, failed).
	Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "superfaktura_order_transitions_total",
			Help: "Order status transitions by result.",
		},
		[]string{"result"},
	)
)

var regOnce sync.Once

// Register adds the collectors to Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(Callbacks)
		Registry.MustRegister(Transitions)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
