// Oracle HTTP handlers.
//
// This file exposes the oracle's public endpoints:
//   - POST /analyze   (score an invoice; sign an attestation when approved)
//   - GET  /oracle    (signer identity and deployment constants)
//
// Handlers are transport-thin: they validate and normalize input, call the
// oracle service, and translate results into HTTP responses. The wire field
// names (userAddress, extractedData, isApproved, docId, ...) are the contract
// consumed by the dApp frontend and must stay stable.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agrobond/go-oracle-backend/internal/attest"
	"github.com/agrobond/go-oracle-backend/internal/domain"
	"github.com/agrobond/go-oracle-backend/internal/http/middleware"
	"github.com/agrobond/go-oracle-backend/internal/oracle"
)

// emptySignature is the sentinel returned in place of a signature when the
// request is rejected by policy.
const emptySignature = "0x"

// OracleService defines the analysis operations consumed by HTTP handlers.
//
// Implementations must be safe for concurrent use; each call is independent
// and completes synchronously.
type OracleService interface {
	// Analyze scores the invoice and signs an attestation when approved.
	Analyze(ctx context.Context, req oracle.Request) (oracle.Result, error)
	// SignerAddress returns the oracle's public signing identity.
	SignerAddress() string
	// ChainID returns the deployment's chain identifier.
	ChainID() uint64
	// OracleAddress returns the on-chain verifier contract address.
	OracleAddress() string
}

// Handlers groups the oracle HTTP endpoints.
type Handlers struct {
	svc OracleService
}

// New constructs a Handlers instance bound to the given oracle service.
func New(svc OracleService) *Handlers {
	return &Handlers{svc: svc}
}

//
// DTOs
//

// ExtractedInvoice is the caller-supplied invoice data, typically produced
// by document extraction on the client side. All fields are untrusted.
type ExtractedInvoice struct {
	// PayerName is the directory identifier of the paying company.
	PayerName string `json:"payerName" binding:"required" example:"WALMART_INC"`
	// Amount is the invoice amount in whole currency units; must be >= 0.
	Amount int64 `json:"amount" binding:"gte=0" example:"50000"`
	// Date is the invoice issue date, ISO format (YYYY-MM-DD).
	Date string `json:"date" binding:"required" example:"2024-01-01"`
}

// AnalyzeRequest is the JSON payload for an analysis call.
type AnalyzeRequest struct {
	// UserAddress is the caller's 20-byte account identifier; it is bound
	// into the signed payload.
	UserAddress string `json:"userAddress" binding:"required" example:"0x1111111111111111111111111111111111111111"`
	// Nonce must be freshly read from the verifier's getNonce just before
	// this call. Missing nonce defaults to 0.
	Nonce *uint64 `json:"nonce" example:"5"`
	// ExtractedData carries the invoice facts; when absent the documented
	// demo invoice is evaluated instead.
	ExtractedData *ExtractedInvoice `json:"extractedData"`
}

// AnalyzeResponse is the oracle's answer for both approvals and policy
// rejections. Signature and DocID carry their zero sentinels ("0x" and "")
// unless the invoice was approved.
type AnalyzeResponse struct {
	Success   bool   `json:"success"`
	Payer     string `json:"payer"`
	RiskScore int    `json:"riskScore"`
	Approved  bool   `json:"isApproved"`
	Signature string `json:"signature"`
	DocID     string `json:"docId"`
	Reason    string `json:"reason"`
}

// OracleInfoResponse describes the signer identity and the deployment
// constants bound into every signature.
type OracleInfoResponse struct {
	SignerAddress string `json:"signerAddress"`
	ChainID       uint64 `json:"chainId"`
	OracleAddress string `json:"oracleAddress"`
}

// parseInvoiceDate accepts the ISO date used by the frontend and, as a
// convenience for API clients, full RFC 3339 timestamps.
func parseInvoiceDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

//
// Handlers
//

// Analyze godoc
// @ID          analyzeInvoice
// @Summary     Score an invoice and issue a signed attestation
// @Description Runs the deterministic risk engine over the supplied invoice
// @Description facts. Approved requests (score > 60) receive a docId and a
// @Description 65-byte signature bound to (user, score, docId, nonce, chainId,
// @Description oracle contract). Rejections are successful responses with
// @Description isApproved=false and an empty signature sentinel.
// @Tags        Oracle
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.AnalyzeRequest  true  "Analysis payload"
//
// @Success     200  {object}  handlers.AnalyzeResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed body, date, or address"
// @Failure     500  {object}  handlers.ErrorResponse  "Signing failure"
// @Router      /analyze [post]
func (h *Handlers) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	c.Set(middleware.CallerKey, req.UserAddress)

	invoice := domain.DefaultInvoice()
	if req.ExtractedData != nil {
		issued, err := parseInvoiceDate(req.ExtractedData.Date)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid invoice date, want YYYY-MM-DD")
			return
		}
		invoice = domain.InvoiceFacts{
			PayerID:   req.ExtractedData.PayerName,
			Amount:    req.ExtractedData.Amount,
			IssueDate: issued,
		}
	}

	var nonce uint64
	if req.Nonce != nil {
		nonce = *req.Nonce
	}

	res, err := h.svc.Analyze(c.Request.Context(), oracle.Request{
		CallerAddress: req.UserAddress,
		Nonce:         nonce,
		Invoice:       invoice,
	})
	if err != nil {
		if errors.Is(err, attest.ErrInvalidContext) {
			fail(c, http.StatusBadRequest, ErrCodeInvalidContext, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSigningFailed, "signature generation failed")
		return
	}

	resp := AnalyzeResponse{
		Success:   true,
		Payer:     res.Payer,
		RiskScore: res.Assessment.Score,
		Approved:  res.Assessment.Approved,
		Signature: emptySignature,
		Reason:    res.Assessment.Reason,
	}
	if res.Attestation != nil {
		resp.Signature = res.Attestation.SignatureHex()
		resp.DocID = res.Attestation.DocID
	}

	lg := middleware.LoggerFrom(c)
	lg.Info().
		Str("payer", res.Payer).
		Int("risk_score", res.Assessment.Score).
		Bool("approved", res.Assessment.Approved).
		Str("doc_id", resp.DocID).
		Msg("invoice analyzed")

	ok(c, http.StatusOK, resp)
}

// OracleInfo godoc
// @ID          oracleInfo
// @Summary     Oracle signer identity and deployment constants
// @Description Returns the address clients should expect signatures to
// @Description recover to, plus the chain id and verifier contract address
// @Description bound into every signature.
// @Tags        Oracle
// @Produce     json
//
// @Success     200  {object}  handlers.OracleInfoResponse
// @Router      /oracle [get]
func (h *Handlers) OracleInfo(c *gin.Context) {
	ok(c, http.StatusOK, OracleInfoResponse{
		SignerAddress: h.svc.SignerAddress(),
		ChainID:       h.svc.ChainID(),
		OracleAddress: h.svc.OracleAddress(),
	})
}
