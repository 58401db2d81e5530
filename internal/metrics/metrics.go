package metrics

import (
	"github.com/flor3z/autonumber-bot/internal/game"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "autonumber"
)

var (
	// ClaimsTotal counts claim attempts by outcome
	ClaimsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_total",
			Help:      "Total number of claim attempts",
		},
		[]string{"outcome"}, // added/already_claimed/invalid_format
	)

	// ReleasesTotal counts release attempts by outcome
	ReleasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "releases_total",
			Help:      "Total number of release attempts",
		},
		[]string{"outcome"}, // released/not_found/forbidden/invalid_format
	)

	// MessagesTotal counts inbound messages recorded in the ledger
	MessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of processed inbound messages",
		},
	)

	// SlotsClaimed tracks how many slots are held
	SlotsClaimed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "slots_claimed",
			Help:      "Number of claimed slots",
		},
	)

	// Players tracks the number of distinct players
	Players = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players",
			Help:      "Number of distinct players",
		},
	)
)

// Observer feeds game outcomes into the counters
type Observer struct{}

// ObserveClaim implements game.Observer
func (Observer) ObserveClaim(outcome game.ClaimOutcome) {
	ClaimsTotal.WithLabelValues(outcome.String()).Inc()
}

// ObserveRelease implements game.Observer
func (Observer) ObserveRelease(outcome game.ReleaseOutcome) {
	ReleasesTotal.WithLabelValues(outcome.String()).Inc()
}

// RecordMessage counts one processed message
func RecordMessage() {
	MessagesTotal.Inc()
}
