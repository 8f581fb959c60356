// Prometheus instrumentation for the oracle domain. HTTP-level metrics live
// in the middleware package; the collectors here track business outcomes:
// score distribution, approve/reject decisions, and attestation issuance.
package oracle

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeApproved = "approved"
	outcomeRejected = "rejected"
)

var (
	// riskScores records the distribution of computed risk scores. Buckets
	// are aligned with the policy's interesting boundaries (40 unknown,
	// 60 approval threshold, 90 prime base).
	riskScores = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "oracle_risk_score",
		Help:    "Distribution of computed risk scores (0-100).",
		Buckets: []float64{0, 20, 40, 50, 60, 70, 80, 90, 100},
	})

	// decisions counts evaluations by business outcome.
	decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_decisions_total",
			Help: "Total risk evaluations by outcome.",
		},
		[]string{"outcome"},
	)

	// attestations counts successfully signed approvals.
	attestations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "oracle_attestations_total",
		Help: "Total signed attestations issued.",
	})

	// signingFailures counts approvals that failed context validation or
	// signing and therefore produced no attestation.
	signingFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "oracle_signing_failures_total",
		Help: "Total approved evaluations that failed to produce a signature.",
	})
)

func init() {
	prometheus.MustRegister(riskScores, decisions, attestations, signingFailures)
}
