// Package ledger tracks one-time-use credential keys: voucher nonce hashes and
// proof nullifiers. Consumption is permanent for the lifetime of the system;
// the only way a consumed key becomes spendable again is the abort path of the
// issuance transaction that consumed it.
package ledger

import (
	"context"

	"mintgate/pkg/domain"
)

// Store is the consumption ledger. Implementations must make TryConsume
// atomic: when two requests race on the same key, exactly one succeeds.
type Store interface {
	// TryConsume marks the key used. Returns sentinel.ErrAlreadyUsed (and
	// leaves state unchanged) if the key was consumed before.
	TryConsume(ctx context.Context, key domain.Hash) error

	// Release undoes a consumption performed earlier in the same request.
	// Only the issuance transaction's abort path may call it; a key is never
	// released once its enclosing request has committed.
	Release(ctx context.Context, key domain.Hash) error

	// IsUsed reports whether the key has been consumed. Absent means unused.
	IsUsed(ctx context.Context, key domain.Hash) (bool, error)
}
