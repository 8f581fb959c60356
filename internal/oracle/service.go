// Package oracle orchestrates one analysis request end to end: risk scoring,
// anti-replay context construction, and attestation signing. It owns the
// deployment constants (chain id, verifier contract address) that bind every
// signature to the live on-chain deployment.
//
// A business rejection (score too low, blacklisted, unknown payer) is a
// successful evaluation, not an error: Analyze returns a Result with
// Approved=false and a nil Attestation. Only context validation and
// signing-path failures return an error.
package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/agrobond/go-oracle-backend/internal/attest"
	"github.com/agrobond/go-oracle-backend/internal/domain"
)

// Scorer evaluates invoice facts into a risk assessment. Implementations
// must be safe for concurrent use.
type Scorer interface {
	Score(facts domain.InvoiceFacts) domain.RiskAssessment
}

// ContextSigner signs a validated replay context. Implementations must be
// safe for concurrent use.
type ContextSigner interface {
	Sign(rc attest.ReplayContext) (attest.Attestation, error)
	Address() common.Address
}

// Request carries the logical fields of one analysis call. Nonce must have
// been freshly fetched from the on-chain verifier by the caller; the oracle
// embeds it unvalidated (the verifier owns that state).
type Request struct {
	CallerAddress string
	Nonce         uint64
	Invoice       domain.InvoiceFacts
}

// Result is the outcome of one analysis. Attestation is non-nil exactly
// when the assessment is approved.
type Result struct {
	Payer       string
	Assessment  domain.RiskAssessment
	Attestation *attest.Attestation
}

// Service composes the scoring engine and the attestation signer with the
// deployment constants. All fields are set once at startup; the service is
// stateless per request and safe for concurrent use.
type Service struct {
	scorer     Scorer
	signer     ContextSigner
	chainID    uint64
	oracleAddr string
	clock      func() time.Time
}

// NewService wires a Service. clock defaults to time.Now when nil; it feeds
// document-id minting only, never scoring (the engine carries its own clock).
func NewService(scorer Scorer, signer ContextSigner, chainID uint64, oracleAddr string, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		scorer:     scorer,
		signer:     signer,
		chainID:    chainID,
		oracleAddr: oracleAddr,
		clock:      clock,
	}
}

// ChainID returns the chain identifier bound into every signature.
func (s *Service) ChainID() uint64 { return s.chainID }

// OracleAddress returns the verifier contract address bound into every
// signature.
func (s *Service) OracleAddress() string { return s.oracleAddr }

// SignerAddress returns the oracle's public signing identity.
func (s *Service) SignerAddress() string { return s.signer.Address().Hex() }

// Analyze scores the invoice and, when the score clears the approval
// threshold, mints a document id and signs the replay-bound context.
//
// Error classes (branch with errors.Is):
//   - attest.ErrInvalidContext: caller-supplied fields failed validation.
//   - attest.ErrNoSigningKey / signing failures: server-side hard failure.
//
// There is no partial success: a signing failure after approval surfaces as
// an error, never as an unsigned approval.
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	assessment := s.scorer.Score(req.Invoice)

	riskScores.Observe(float64(assessment.Score))
	res := Result{Payer: req.Invoice.PayerID, Assessment: assessment}
	if !assessment.Approved {
		decisions.WithLabelValues(outcomeRejected).Inc()
		return res, nil
	}
	decisions.WithLabelValues(outcomeApproved).Inc()

	docID := attest.NewDocID(s.clock(), req.Invoice.PayerID)
	rc, err := attest.NewContext(req.CallerAddress, assessment.Score, docID, req.Nonce, s.chainID, s.oracleAddr)
	if err != nil {
		signingFailures.Inc()
		return Result{}, err
	}

	att, err := s.signer.Sign(rc)
	if err != nil {
		signingFailures.Inc()
		return Result{}, fmt.Errorf("attest %s: %w", docID, err)
	}
	attestations.Inc()

	res.Attestation = &att
	return res, nil
}
