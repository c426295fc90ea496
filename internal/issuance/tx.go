package issuance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dErrors "mintgate/pkg/domain-errors"
	pftx "mintgate/pkg/platform/tx"
)

// StoreTx provides the transactional boundary for one admission-plus-issuance
// request. Everything inside fn commits or is discarded as a unit.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// defaultTxTimeout bounds a single issuance transaction.
const defaultTxTimeout = 5 * time.Second

// MemoryTx is the boundary for in-memory stores. The stores themselves have
// no staging, so the service compensates explicitly on the abort path
// (Release, ReleaseID, Delete); this boundary contributes the context checks
// and the timeout.
type MemoryTx struct {
	Timeout time.Duration
}

func (t MemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	timeout := t.Timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx)
}

// SQLTx wraps fn in a database transaction carried through the context, so
// the postgres ledger and asset stores participate in the same commit.
// Explicit compensation calls made by the service inside fn are redundant
// here but harmless: they roll back with everything else.
type SQLTx struct {
	DB      *sql.DB
	Timeout time.Duration
}

func (t SQLTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	timeout := t.Timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	dbtx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin issuance tx: %w", err)
	}
	if err := fn(pftx.WithTx(ctx, dbtx)); err != nil {
		if rbErr := dbtx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback issuance tx after %w: %v", err, rbErr)
		}
		return err
	}
	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit issuance tx: %w", err)
	}
	return nil
}
