// Package gate implements the polymorphic admission check: one verification
// type per gating strategy (signed voucher, group-membership proof,
// allow-list), dispatched explicitly by which mint entry point the caller
// invoked. Strategies are never combined within a single request.
//
// Gates only decide accept/reject and report the one-time-use key to consume;
// the issuance service commits consumption inside its transaction so a gate
// pass with a later collaborator failure leaves no trace in the ledger.
package gate

import (
	"encoding/binary"

	"mintgate/internal/verifier"
	"mintgate/pkg/domain"
)

// VoucherRequest is a signed, time-bounded, single-use authorization from the
// trusted off-system issuer.
type VoucherRequest struct {
	Recipient domain.Address
	Nonce     uint64
	Deadline  int64 // unix seconds
	Signature []byte
}

// ProofRequest is a zero-knowledge claim of group membership. The proof is
// bound to the caller and selection via the signal and to the current UTC day
// via the epoch tag.
type ProofRequest struct {
	Caller        domain.Address
	SelectionID   uint64
	Root          domain.Hash
	NullifierHash domain.Hash
	Proof         verifier.Proof
}

// NonceKey maps a voucher nonce into the consumption ledger's key space. The
// prefix keeps nonce keys disjoint from nullifier hashes, which occupy the
// same ledger.
func NonceKey(nonce uint64) domain.Hash {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], nonce)
	return domain.Keccak256([]byte("mintgate.voucher.nonce"), buf[:])
}

// Signal binds a proof to the requesting caller and their selection, so a
// valid proof cannot be front-run with different mint parameters.
func Signal(caller domain.Address, selectionID uint64) domain.Hash {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], selectionID)
	return domain.Keccak256(caller.Bytes(), buf[:])
}
