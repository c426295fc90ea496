package issuance

import (
	"context"

	"mintgate/internal/issuance/models"
)

// Store persists asset records and owns the monotonic id counter. NextID and
// Save are split so the transaction boundary can undo an allocation when the
// factory call aborts the request.
type Store interface {
	// NextID allocates the next asset id. Ids start at 0 and strictly
	// increase; an id handed out is burned unless the enclosing transaction
	// rolls back.
	NextID(ctx context.Context) (uint64, error)

	// ReleaseID undoes the most recent allocation. Only the transaction
	// abort path may call it, while the issuance lock is still held.
	ReleaseID(ctx context.Context, id uint64) error

	Save(ctx context.Context, record *models.AssetRecord) error
	Delete(ctx context.Context, id uint64) error

	// FindByID returns sentinel.ErrNotFound for unknown ids.
	FindByID(ctx context.Context, id uint64) (*models.AssetRecord, error)
	Count(ctx context.Context) (uint64, error)
}
