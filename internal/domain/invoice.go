package domain

import "time"

// InvoiceFacts are the caller-supplied, untrusted facts about a trade invoice
// submitted for risk evaluation. Amount is expressed in whole currency units
// and must be non-negative; no upper bound is enforced.
type InvoiceFacts struct {
	PayerID   string
	Amount    int64
	IssueDate time.Time
}

// DefaultInvoice is the documented demo invoice used when a request carries
// no extracted invoice data. It exists for demonstration and testing paths
// only and matches the protocol fixtures.
func DefaultInvoice() InvoiceFacts {
	return InvoiceFacts{
		PayerID:   "WALMART_INC",
		Amount:    50000,
		IssueDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Human-readable assessment reasons. These strings are part of the response
// contract consumed by the dApp frontend and must not be reworded casually.
const (
	ReasonApproved    = "Creditworthiness Verified"
	ReasonBlacklisted = "Blacklisted entity - Automatic rejection"
	ReasonUnknown     = "Unknown payer - High risk"
	ReasonHighRisk    = "High Risk Detected: Insufficient creditworthiness"
)

// RiskAssessment is the outcome of scoring one invoice. Score is always
// clamped to [0,100] and Approved holds exactly when Score > 60.
type RiskAssessment struct {
	Score    int
	Approved bool
	Reason   string
}
