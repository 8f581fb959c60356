package attest

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// personalPrefix is the EIP-191 domain separator for 32-byte personal
// messages. The verifier reconstructs the same prefixed hash before
// recovering the signer, so the prefix is part of the external contract.
const personalPrefix = "\x19Ethereum Signed Message:\n32"

// Attestation is the proof that the oracle approved one replay-bound
// request: the minted document id and a 65-byte (r,s,v) signature.
type Attestation struct {
	DocID     string
	Signature []byte
}

// SignatureHex returns the signature as a 0x-prefixed hex string, the form
// submitted to the on-chain verifier.
func (a Attestation) SignatureHex() string {
	return hexutil.Encode(a.Signature)
}

// Signer holds the oracle's secp256k1 signing key, loaded once at startup
// and read-only thereafter. It is safe for concurrent use.
type Signer struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

// NewSigner parses a hex-encoded private key (with or without 0x prefix)
// and returns a ready Signer. A missing or malformed key is a configuration
// error the caller should treat as startup-fatal.
func NewSigner(hexKey string) (*Signer, error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return nil, ErrNoSigningKey
	}
	hexKey = strings.TrimPrefix(hexKey, "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	return &Signer{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

// Address returns the public identity recovered by the verifier from this
// signer's signatures.
func (s *Signer) Address() common.Address { return s.addr }

// Sign produces the attestation for an approved, validated context. The
// context digest is wrapped in the EIP-191 personal-message prefix, hashed,
// and signed; the recovery id is shifted to the 27/28 convention expected by
// ecrecover.
func (s *Signer) Sign(rc ReplayContext) (Attestation, error) {
	if s == nil || s.key == nil {
		return Attestation{}, ErrNoSigningKey
	}

	sig, err := crypto.Sign(personalHash(rc.Digest().Bytes()), s.key)
	if err != nil {
		return Attestation{}, fmt.Errorf("sign context: %w", err)
	}
	sig[64] += 27

	return Attestation{DocID: rc.DocID, Signature: sig}, nil
}

// personalHash applies the EIP-191 prefix to a 32-byte digest and returns
// the keccak256 hash that is actually signed.
func personalHash(digest []byte) []byte {
	return crypto.Keccak256(append([]byte(personalPrefix), digest...))
}
