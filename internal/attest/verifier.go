package attest

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// NonceSource is the read surface of the on-chain verifier consumed by
// oracle clients: the current anti-replay nonce for an account. The nonce is
// authoritative state owned by the verifier contract; this process never
// stores or advances it. Callers must fetch it immediately before requesting
// a signature, or the verifier will reject the result.
type NonceSource interface {
	CurrentNonce(ctx context.Context, account common.Address) (uint64, error)
}

// RecoverSigner recovers the address that produced sig over the given
// replay context, mirroring the verifier contract's ecrecover path
// (prefixed-hash reconstruction plus public-key recovery). It accepts
// signatures in either the 27/28 or the raw 0/1 recovery-id convention.
//
// A signature is valid for the context exactly when the recovered address
// equals the oracle's known signing address; any altered context field
// yields a different (effectively random) address.
func RecoverSigner(rc ReplayContext, sig []byte) (common.Address, error) {
	if len(sig) != 65 {
		return common.Address{}, fmt.Errorf("%w: got %d", ErrSignatureLength, len(sig))
	}

	norm := make([]byte, 65)
	copy(norm, sig)
	if norm[64] >= 27 {
		norm[64] -= 27
	}

	pub, err := crypto.SigToPub(personalHash(rc.Digest().Bytes()), norm)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
