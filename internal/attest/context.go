package attest

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ReplayContext is the tuple the oracle signs. Every field is covered by the
// signature: altering any one of them invalidates a previously produced
// signature for the same logical request.
//
// Nonce binds the signature to one issuance per account (the verifier
// advances it on acceptance), ChainID pins the deployment network, and
// Oracle pins the verifying contract instance. Dropping any of the three
// reopens the corresponding replay class.
type ReplayContext struct {
	Caller  common.Address
	Score   int
	DocID   string
	Nonce   uint64
	ChainID uint64
	Oracle  common.Address
}

// NewContext validates the raw request fields and assembles the replay
// context. Address strings must be well-formed 20-byte hex identifiers.
// All validation failures wrap ErrInvalidContext.
func NewContext(caller string, score int, docID string, nonce, chainID uint64, oracle string) (ReplayContext, error) {
	if !common.IsHexAddress(caller) {
		return ReplayContext{}, fmt.Errorf("%w: caller address %q", ErrInvalidContext, caller)
	}
	if !common.IsHexAddress(oracle) {
		return ReplayContext{}, fmt.Errorf("%w: oracle address %q", ErrInvalidContext, oracle)
	}
	if score < 0 || score > 100 {
		return ReplayContext{}, fmt.Errorf("%w: score %d outside [0,100]", ErrInvalidContext, score)
	}
	if docID == "" {
		return ReplayContext{}, fmt.Errorf("%w: empty document id", ErrInvalidContext)
	}
	if chainID == 0 {
		return ReplayContext{}, fmt.Errorf("%w: chain id must be non-zero", ErrInvalidContext)
	}
	return ReplayContext{
		Caller:  common.HexToAddress(caller),
		Score:   score,
		DocID:   docID,
		Nonce:   nonce,
		ChainID: chainID,
		Oracle:  common.HexToAddress(oracle),
	}, nil
}

// NewDocID mints the document identifier for one issuance attempt:
// "INV-<unix-millis>-<payerID>". The millisecond timestamp makes two
// approvals of identical invoice content distinguishable, so their
// signatures never collide on docId.
func NewDocID(now time.Time, payerID string) string {
	return fmt.Sprintf("INV-%d-%s", now.UnixMilli(), payerID)
}

// Packed returns the canonical encoding of the context: the ordered
// concatenation of caller address (20 bytes), score (uint256), the raw docId
// bytes, nonce (uint256), chain id (uint256), and oracle address (20 bytes).
// This layout is a pinned external contract; it must match the verifier's
// abi.encodePacked(address, uint256, string, uint256, uint256, address)
// byte for byte.
func (rc ReplayContext) Packed() []byte {
	buf := make([]byte, 0, 20+32+len(rc.DocID)+32+32+20)
	buf = append(buf, rc.Caller.Bytes()...)
	buf = append(buf, u256(uint64(rc.Score))...)
	buf = append(buf, []byte(rc.DocID)...)
	buf = append(buf, u256(rc.Nonce)...)
	buf = append(buf, u256(rc.ChainID)...)
	buf = append(buf, rc.Oracle.Bytes()...)
	return buf
}

// Digest returns keccak256 over the packed encoding. This is the inner hash;
// the signer applies the personal-message prefix on top of it.
func (rc ReplayContext) Digest() common.Hash {
	return crypto.Keccak256Hash(rc.Packed())
}

// u256 encodes v as a 32-byte big-endian unsigned integer.
func u256(v uint64) []byte {
	return common.LeftPadBytes(new(big.Int).SetUint64(v).Bytes(), 32)
}
