// Package allowlist maintains the set of principals pre-authorized to issue
// directly, plus the single enabled flag. When the flag is off the membership
// check always passes; the set itself is preserved so re-enabling restores the
// previous policy.
package allowlist

import (
	"context"

	"mintgate/pkg/domain"
)

// Store holds allow-list membership and the enable flag. Mutations are
// owner-gated by the access service before they reach the store.
type Store interface {
	Add(ctx context.Context, addr domain.Address) error
	Remove(ctx context.Context, addr domain.Address) error
	Contains(ctx context.Context, addr domain.Address) (bool, error)
	SetEnabled(ctx context.Context, enabled bool) error
	Enabled(ctx context.Context) (bool, error)
	List(ctx context.Context) ([]domain.Address, error)
}

// Allows reports whether the caller passes the allow-list check:
// disabled list admits everyone, enabled list admits members only.
func Allows(ctx context.Context, store Store, caller domain.Address) (bool, error) {
	enabled, err := store.Enabled(ctx)
	if err != nil {
		return false, err
	}
	if !enabled {
		return true, nil
	}
	return store.Contains(ctx, caller)
}
