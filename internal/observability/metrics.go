package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	bookingsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "turnario",
		Subsystem: "booking",
		Name:      "attempts_total",
		Help:      "Booking attempts by outcome.",
	}, []string{"outcome"})
	claimsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "turnario",
		Subsystem: "board",
		Name:      "claims_total",
		Help:      "Board posting claim attempts by outcome.",
	}, []string{"outcome"})
	substitutionsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "turnario",
		Subsystem: "substitution",
		Name:      "resolutions_total",
		Help:      "Substitution request resolutions by outcome.",
	}, []string{"outcome"})
	importSkippedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "turnario",
		Subsystem: "importer",
		Name:      "rows_skipped_total",
		Help:      "Daily-sheet rows dropped as malformed or unmatched.",
	})
)

func init() {
	prometheus.MustRegister(bookingsCounter, claimsCounter, substitutionsCounter, importSkippedCounter)
}

// RecordBooking counts one booking attempt with its outcome label.
func RecordBooking(outcome string) {
	bookingsCounter.WithLabelValues(outcome).Inc()
}

// RecordClaim counts one board claim attempt with its outcome label.
func RecordClaim(outcome string) {
	claimsCounter.WithLabelValues(outcome).Inc()
}

// RecordSubstitution counts one substitution resolution (accepted or rejected).
func RecordSubstitution(outcome string) {
	substitutionsCounter.WithLabelValues(outcome).Inc()
}

// RecordImportRowSkipped counts one dropped daily-sheet row.
func RecordImportRowSkipped() {
	importSkippedCounter.Inc()
}
