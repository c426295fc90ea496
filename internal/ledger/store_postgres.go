package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"mintgate/pkg/domain"
	"mintgate/pkg/platform/sentinel"
	pftx "mintgate/pkg/platform/tx"
)

// PostgresStore persists consumed keys in PostgreSQL. When the context carries
// a *sql.Tx (set by the issuance transaction boundary), all statements run
// inside it, so consumption commits or rolls back with the rest of the
// request and Release is never needed explicitly on that path.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema for the consumed-keys table. Applied by the operator, kept here as
// the single source of truth.
const Schema = `
CREATE TABLE IF NOT EXISTS consumed_credentials (
    key        CHAR(66) PRIMARY KEY,
    consumed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) conn(ctx context.Context) execer {
	if tx, ok := pftx.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) TryConsume(ctx context.Context, key domain.Hash) error {
	res, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO consumed_credentials (key) VALUES ($1) ON CONFLICT (key) DO NOTHING`,
		key.String(),
	)
	if err != nil {
		return fmt.Errorf("consume credential: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume credential rows: %w", err)
	}
	if n == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *PostgresStore) Release(ctx context.Context, key domain.Hash) error {
	if _, err := s.conn(ctx).ExecContext(ctx,
		`DELETE FROM consumed_credentials WHERE key = $1`, key.String(),
	); err != nil {
		return fmt.Errorf("release credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsUsed(ctx context.Context, key domain.Hash) (bool, error) {
	var exists bool
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM consumed_credentials WHERE key = $1)`, key.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check credential: %w", err)
	}
	return exists, nil
}
