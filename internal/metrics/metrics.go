// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tripsplit"

var (
	// ExpensesCreated counts committed expenses.
	ExpensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_created_total",
		Help:      "Number of expenses recorded.",
	})

	// ConsentTransitions counts committed consent changes by target status.
	ConsentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consent_transitions_total",
		Help:      "Number of consent status changes, by new status.",
	}, []string{"status"})

	// DisputesResolved counts payer decisions on disputes by outcome ("removed" or "rejected").
	DisputesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "disputes_resolved_total",
		Help:      "Number of disputes resolved by the payer, by outcome.",
	}, []string{"outcome"})

	// DebtorsReAdded counts debtors a payer attached back onto an expense.
	DebtorsReAdded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "debtors_readded_total",
		Help:      "Number of debtors re-added to an expense by its payer.",
	})

	// MembershipChanges counts activations and deactivations.
	MembershipChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "membership_changes_total",
		Help:      "Number of membership activations and deactivations.",
	}, []string{"change"})

	// RPCDuration observes unary RPC latency by procedure and Connect code.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Latency of unary RPCs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})
)

// Outcome labels for DisputesResolved.
const (
	OutcomeRemoved  = "removed"
	OutcomeRejected = "rejected"
)

// Change labels for MembershipChanges.
const (
	ChangeActivated   = "activated"
	ChangeDeactivated = "deactivated"
)
