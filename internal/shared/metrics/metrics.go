package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_bets_placed_total",
		Help: "Bets committed by the ledger engine.",
	})

	BetFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_bet_failures_total",
		Help: "Rejected or aborted bet placements by reason.",
	}, []string{"reason"})

	DepositsInitiated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_deposits_initiated_total",
		Help: "Pending deposit transactions created, by payment method.",
	}, []string{"method"})

	DepositFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_deposit_failures_total",
		Help: "Rejected or aborted deposit initiations by reason.",
	}, []string{"reason"})

	DepositsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_deposits_settled_total",
		Help: "Pending deposits moved to a final state, by outcome.",
	}, []string{"status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "Latency of public API handlers.",
		Buckets: prometheus.DefBuckets,
	}, []string{"handler"})
)
