// Domain-level Prometheus collectors. HTTP traffic metrics live in the
// middleware package; these count ledger events regardless of transport.
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	conversionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fuel_conversions_total",
		Help: "Total number of gauge readings successfully converted and recorded.",
	})

	conversionFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuel_conversion_failures_total",
		Help: "Conversion attempts rejected or failed, by reason.",
	}, []string{"reason"})

	conversionsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fuel_conversions_deleted_total",
		Help: "Ledger records removed by the deletion authority.",
	})
)

func init() {
	prometheus.MustRegister(conversionsTotal, conversionFailures, conversionsDeleted)
}

func recordConversion() { conversionsTotal.Inc() }

func recordFailure(reason string) { conversionFailures.WithLabelValues(reason).Inc() }

func recordDeletions(n int64) {
	if n > 0 {
		conversionsDeleted.Add(float64(n))
	}
}
