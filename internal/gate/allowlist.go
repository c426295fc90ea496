package gate

import (
	"context"

	"mintgate/internal/allowlist"
	"mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
)

// AllowListGate admits callers on the mutable allow-list. No ledger
// interaction: direct mints are not one-time-use.
type AllowListGate struct {
	store allowlist.Store
}

func NewAllowListGate(store allowlist.Store) *AllowListGate {
	return &AllowListGate{store: store}
}

// Verify accepts when the list is disabled or the caller is a member.
func (g *AllowListGate) Verify(ctx context.Context, caller domain.Address) error {
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "caller must not be zero")
	}
	ok, err := allowlist.Allows(ctx, g.store, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "allow-list lookup failed")
	}
	if !ok {
		return dErrors.New(dErrors.CodeNotAllowListed, "caller is not allow-listed")
	}
	return nil
}
