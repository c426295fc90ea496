package issuance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mintgate/internal/issuance/models"
	"mintgate/pkg/domain"
	"mintgate/pkg/platform/sentinel"
	pftx "mintgate/pkg/platform/tx"
)

// PostgresStore persists asset records in PostgreSQL. The id counter lives in
// a single-row table so allocation is an UPDATE ... RETURNING under the
// enclosing transaction; a rollback un-burns the id without ReleaseID.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema for asset records and the issuance counter. Applied by the operator,
// kept here as the single source of truth.
const Schema = `
CREATE TABLE IF NOT EXISTS assets (
    id           BIGINT PRIMARY KEY,
    owner        CHAR(42) NOT NULL,
    metadata_ref TEXT NOT NULL,
    selection_id BIGINT NOT NULL,
    origin_hash  TEXT NOT NULL,
    message      TEXT NOT NULL,
    issued_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS issuance_counter (
    singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
    next_id   BIGINT NOT NULL DEFAULT 0
);

INSERT INTO issuance_counter (singleton) VALUES (TRUE) ON CONFLICT DO NOTHING;
`

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) conn(ctx context.Context) querier {
	if tx, ok := pftx.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) NextID(ctx context.Context) (uint64, error) {
	var id uint64
	err := s.conn(ctx).QueryRowContext(ctx,
		`UPDATE issuance_counter SET next_id = next_id + 1 RETURNING next_id - 1`,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("allocate asset id: %w", err)
	}
	return id, nil
}

// ReleaseID is unnecessary under a SQL transaction: rollback reverts the
// counter. It exists for the Store interface and fails loudly if reached
// outside one.
func (s *PostgresStore) ReleaseID(ctx context.Context, id uint64) error {
	if _, ok := pftx.From(ctx); ok {
		return nil
	}
	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE issuance_counter SET next_id = next_id - 1 WHERE next_id = $1`, id+1,
	)
	if err != nil {
		return fmt.Errorf("release asset id: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release asset id rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("release id %d: %w", id, sentinel.ErrInvalidState)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, record *models.AssetRecord) error {
	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO assets (id, owner, metadata_ref, selection_id, origin_hash, message, issued_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID,
		record.Owner.String(),
		record.MetadataRef,
		record.Attributes.SelectionID,
		record.Attributes.OriginHash.String(),
		record.Attributes.Message,
		record.IssuedAt,
	)
	if err != nil {
		return fmt.Errorf("save asset: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uint64) error {
	if _, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uint64) (*models.AssetRecord, error) {
	var (
		record models.AssetRecord
		owner  string
		origin string
	)
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT id, owner, metadata_ref, selection_id, origin_hash, message, issued_at
		 FROM assets WHERE id = $1`, id,
	).Scan(
		&record.ID,
		&owner,
		&record.MetadataRef,
		&record.Attributes.SelectionID,
		&origin,
		&record.Attributes.Message,
		&record.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find asset: %w", err)
	}
	addr, err := domain.ParseAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("stored owner malformed: %w", err)
	}
	record.Owner = addr
	hash, err := domain.ParseHash(origin)
	if err != nil {
		return nil, fmt.Errorf("stored origin hash malformed: %w", err)
	}
	record.Attributes.OriginHash = hash
	return &record, nil
}

func (s *PostgresStore) Count(ctx context.Context) (uint64, error) {
	var n uint64
	if err := s.conn(ctx).QueryRowContext(ctx, `SELECT count(*) FROM assets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return n, nil
}
