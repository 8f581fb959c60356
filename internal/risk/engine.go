// Package risk implements the deterministic credit-risk scoring engine.
//
// Scoring is a pure function of the invoice facts, the corporate directory,
// and two injected collaborators: a clock (for invoice age) and a bounded
// noise source (for the market-volatility term). Both default to production
// behavior and are replaced with fixed values in tests, so every scoring rule
// is reproducible under test while production output stays genuinely varied.
//
// The engine performs no I/O, holds no per-request state, and is safe for
// concurrent use.
package risk

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/agrobond/go-oracle-backend/internal/domain"
)

// Scoring constants. The thresholds and penalties are part of the protocol's
// published underwriting policy; changing them changes which invoices mint.
const (
	// baseScore is the starting score for recognized, non-blacklisted payers
	// before the reputation multiplier is applied.
	baseScore = 90.0

	// unknownPayerScore is the fixed score for payers absent from the
	// directory. Always below the approval threshold.
	unknownPayerScore = 40

	// approvalThreshold is the strict lower bound for approval: a score of
	// exactly 60 is rejected.
	approvalThreshold = 60

	// amountPenaltyThreshold is the invoice amount above which the flat
	// concentration-risk penalty applies.
	amountPenaltyThreshold = 100_000
	// amountPenalty is flat, never scaled by amount magnitude.
	amountPenalty = 15.0

	// ageGraceDays is the invoice age (calendar days) up to which no age
	// penalty applies.
	ageGraceDays = 90
	// agePenaltyCap bounds the age penalty regardless of invoice age.
	agePenaltyCap = 20

	// noiseSpan bounds the market-volatility term to [-3, +3].
	noiseSpan = 3
)

// Noise draws one bounded market-volatility adjustment. Implementations must
// return values in [-3, +3] and must be safe for concurrent use.
type Noise func() int

// Clock supplies the evaluation time used to compute invoice age.
type Clock func() time.Time

// MarketNoise is the production noise source: uniform over {-3,...,+3},
// resampled on every call.
func MarketNoise() int {
	return rand.IntN(2*noiseSpan+1) - noiseSpan
}

// Engine scores invoices against an immutable corporate directory.
type Engine struct {
	dir   domain.Directory
	noise Noise
	clock Clock
}

// Option customizes an Engine.
type Option func(*Engine)

// WithNoise replaces the market-volatility source. Tests use this to pin the
// noise term to a fixed value.
func WithNoise(n Noise) Option {
	return func(e *Engine) {
		if n != nil {
			e.noise = n
		}
	}
}

// WithClock replaces the evaluation clock used for invoice-age computation.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// NewEngine builds a scoring engine over the given directory. By default the
// engine uses MarketNoise and time.Now.
func NewEngine(dir domain.Directory, opts ...Option) *Engine {
	e := &Engine{dir: dir, noise: MarketNoise, clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score evaluates one invoice and returns the resulting assessment.
//
// Policy, in order:
//  1. Unknown payer: fixed score 40, no adjustments.
//  2. Blacklisted payer (tier 3): fixed score 0, no adjustments. This is an
//     explicit short-circuit, not a multiplier effect: blacklisted entities
//     must never receive amount/age adjustments or noise.
//  3. Otherwise: base 90 x multiplier, minus a flat 15 when the amount
//     exceeds 100k, minus a capped age penalty for invoices older than 90
//     days, plus one bounded noise draw. The floor is applied once, at the
//     end, after the noise term.
//
// The final score is clamped to [0,100]; approval requires score > 60.
func (e *Engine) Score(facts domain.InvoiceFacts) domain.RiskAssessment {
	entry, found := e.dir.Lookup(facts.PayerID)

	var score int
	switch {
	case !found:
		score = unknownPayerScore
	case entry.Tier == domain.TierBlacklisted:
		score = 0
	default:
		base := baseScore * entry.Multiplier

		if facts.Amount > amountPenaltyThreshold {
			base -= amountPenalty
		}

		if days := daysOld(facts.IssueDate, e.clock()); days > ageGraceDays {
			penalty := (days - ageGraceDays) / 10
			if penalty > agePenaltyCap {
				penalty = agePenaltyCap
			}
			base -= float64(penalty)
		}

		base += float64(e.noise())

		score = int(math.Floor(base))
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	approved := score > approvalThreshold
	return domain.RiskAssessment{
		Score:    score,
		Approved: approved,
		Reason:   reasonFor(found, entry.Tier, approved),
	}
}

// daysOld returns the whole calendar days elapsed between issue and now,
// truncated toward zero. Future-dated invoices yield non-positive values and
// therefore no age penalty.
func daysOld(issue, now time.Time) int {
	return int(now.Sub(issue).Hours() / 24)
}

func reasonFor(found bool, tier domain.Tier, approved bool) string {
	switch {
	case approved:
		return domain.ReasonApproved
	case !found:
		return domain.ReasonUnknown
	case tier == domain.TierBlacklisted:
		return domain.ReasonBlacklisted
	default:
		return domain.ReasonHighRisk
	}
}
