// Package attest binds approved risk scores to an anti-replay context and
// produces the signature the on-chain verifier checks.
//
// This file centralizes the package's sentinel errors so callers can branch
// on failure classes with errors.Is. Translation into HTTP status codes is
// performed at the handler layer.
package attest

import "errors"

var (
	// ErrInvalidContext indicates a replay-context field failed validation
	// (malformed address, empty document id, out-of-range score). Client error.
	ErrInvalidContext = errors.New("invalid replay context")

	// ErrNoSigningKey indicates no signing key is configured on the signer.
	// This should be caught at startup; seeing it per-request is a server error.
	ErrNoSigningKey = errors.New("signing key unavailable")

	// ErrSignatureLength indicates a signature blob is not the expected 65
	// bytes and cannot be used for recovery.
	ErrSignatureLength = errors.New("signature must be 65 bytes")
)
