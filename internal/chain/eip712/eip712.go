// Package eip712 implements the structured-data hashing and signature
// recovery used by the voucher gate. The domain separator binds every digest
// to one deployment (system name, version, chain id, registry address), so a
// voucher signed for one registry cannot be replayed against another.
package eip712

import (
	"encoding/binary"
	"fmt"

	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"mintgate/pkg/domain"
)

var (
	domainTypeHash  = domain.Keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	voucherTypeHash = domain.Keccak256([]byte("Voucher(address recipient,uint256 nonce,uint256 deadline)"))
)

// Domain describes the deployment the digests are scoped to.
type Domain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract domain.Address
}

// Separator computes the domain separator hash.
func (d Domain) Separator() domain.Hash {
	nameHash := domain.Keccak256([]byte(d.Name))
	versionHash := domain.Keccak256([]byte(d.Version))
	return domain.Keccak256(
		domainTypeHash[:],
		nameHash[:],
		versionHash[:],
		uint256Bytes(d.ChainID),
		addressWord(d.VerifyingContract),
	)
}

// VoucherDigest computes the signable digest over exactly
// (recipient, nonce, deadline) under this domain.
func (d Domain) VoucherDigest(recipient domain.Address, nonce uint64, deadline int64) domain.Hash {
	structHash := domain.Keccak256(
		voucherTypeHash[:],
		addressWord(recipient),
		uint256Bytes(nonce),
		uint256Bytes(uint64(deadline)),
	)
	sep := d.Separator()
	return domain.Keccak256([]byte("\x19\x01"), sep[:], structHash[:])
}

// RecoverAddress recovers the signer address from a 65-byte signature in
// r||s||v layout over the given digest. v may be 0/1 or 27/28.
func RecoverAddress(digest domain.Hash, sig []byte) (domain.Address, error) {
	if len(sig) != 65 {
		return "", fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}
	v := sig[64]
	if v < 27 {
		v += 27
	}
	if v != 27 && v != 28 {
		return "", fmt.Errorf("invalid recovery id %d", sig[64])
	}

	// btcec expects the compact layout with the header byte first.
	compact := make([]byte, 65)
	compact[0] = v
	copy(compact[1:], sig[:64])

	pub, _, err := btcecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return "", fmt.Errorf("recover public key: %w", err)
	}

	// Address is the low 20 bytes of the keccak of the uncompressed point
	// without the 0x04 prefix.
	ser := pub.SerializeUncompressed()
	h := domain.Keccak256(ser[1:])
	return domain.AddressFromBytes(h[12:])
}

// uint256Bytes left-pads a uint64 into a 32-byte big-endian word.
func uint256Bytes(v uint64) []byte {
	var word [32]byte
	binary.BigEndian.PutUint64(word[24:], v)
	return word[:]
}

// addressWord left-pads a 20-byte address into a 32-byte word.
func addressWord(a domain.Address) []byte {
	var word [32]byte
	copy(word[12:], a.Bytes())
	return word[:]
}
