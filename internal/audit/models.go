// Package audit captures the append-only trail of admission decisions and
// administrative mutations. Events flow through a channel-fed worker so the
// hot mint path never blocks on the sink.
package audit

import (
	"context"
	"time"

	"mintgate/pkg/domain"
)

// Action identifies what happened.
type Action string

const (
	ActionAssetIssued       Action = "asset.issued"
	ActionAdmissionRejected Action = "admission.rejected"
	ActionConfigChanged     Action = "config.changed"
	ActionAllowListChanged  Action = "allowlist.changed"
	ActionOwnershipChanged  Action = "ownership.changed"
)

// Event is one audit record.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    Action         `json:"action"`
	Caller    domain.Address `json:"caller"`
	Strategy  string         `json:"strategy,omitempty"`
	AssetID   *uint64        `json:"asset_id,omitempty"`
	Detail    string         `json:"detail,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// Store is the audit sink. Append-only; events are never updated or removed.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByCaller(ctx context.Context, caller domain.Address) ([]Event, error)
}
