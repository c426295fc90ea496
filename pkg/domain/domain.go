// Package domain defines the core value types shared across the gateway:
// chain-style principal addresses and 32-byte hashes. Keeping them here lets
// services and stores agree on validation and rendering without importing each
// other.
package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Address is a 20-byte principal identifier rendered as 0x-prefixed lowercase
// hex. The zero value is invalid.
type Address string

// ZeroAddress is the canonical empty principal.
const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// ParseAddress validates and normalizes a principal address.
func ParseAddress(s string) (Address, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return "", fmt.Errorf("address must be 0x-prefixed")
	}
	body := s[2:]
	if len(body) != 40 {
		return "", fmt.Errorf("address must be 20 bytes, got %d hex chars", len(body))
	}
	if _, err := hex.DecodeString(body); err != nil {
		return "", fmt.Errorf("address is not valid hex: %w", err)
	}
	return Address("0x" + strings.ToLower(body)), nil
}

// AddressFromBytes builds an address from a raw 20-byte slice.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != 20 {
		return "", fmt.Errorf("address must be 20 bytes, got %d", len(b))
	}
	return Address("0x" + hex.EncodeToString(b)), nil
}

func (a Address) String() string { return string(a) }

// IsZero reports whether the address is unset or the canonical zero principal.
func (a Address) IsZero() bool { return a == "" || a == ZeroAddress }

// Bytes returns the raw 20 bytes. Panics only on addresses that bypassed
// ParseAddress, which is a programming error.
func (a Address) Bytes() []byte {
	b, err := hex.DecodeString(strings.TrimPrefix(string(a), "0x"))
	if err != nil {
		panic(fmt.Sprintf("malformed address %q: %v", a, err))
	}
	return b
}

// Hash is a 32-byte value (keccak digests, nullifiers, merkle roots).
type Hash [32]byte

// ParseHash decodes a 0x-prefixed 32-byte hex string.
func ParseHash(s string) (Hash, error) {
	var h Hash
	body := strings.TrimPrefix(s, "0x")
	if len(body) != 64 {
		return h, fmt.Errorf("hash must be 32 bytes, got %d hex chars", len(body))
	}
	b, err := hex.DecodeString(body)
	if err != nil {
		return h, fmt.Errorf("hash is not valid hex: %w", err)
	}
	copy(h[:], b)
	return h, nil
}

func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

// IsZero reports whether the hash is all zero bytes.
func (h Hash) IsZero() bool { return h == Hash{} }

// Keccak256 hashes the concatenation of the given byte slices with legacy
// Keccak-256 (the pre-standard padding used by EVM tooling, not SHA3-256).
func Keccak256(data ...[]byte) Hash {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	var h Hash
	d.Sum(h[:0])
	return h
}
