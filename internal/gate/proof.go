package gate

import (
	"context"

	"mintgate/internal/access"
	"mintgate/internal/epoch"
	"mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/requestcontext"
)

// ProofGate verifies group-membership proofs via the external verifier
// collaborator. The epoch tag binds each proof to the current UTC day, but
// nullifier consumption is global: a spent nullifier stays spent on later
// days too.
type ProofGate struct {
	cfg *access.Service
}

func NewProofGate(cfg *access.Service) *ProofGate {
	return &ProofGate{cfg: cfg}
}

// Verify delegates to the proof verifier; any verifier error propagates as
// rejection. On success it returns the nullifier hash as the ledger key; it
// does not consume it.
func (g *ProofGate) Verify(ctx context.Context, req ProofRequest) (domain.Hash, error) {
	if req.Caller.IsZero() {
		return domain.Hash{}, dErrors.New(dErrors.CodeBadRequest, "caller must not be zero")
	}
	if req.NullifierHash.IsZero() {
		return domain.Hash{}, dErrors.New(dErrors.CodeBadRequest, "nullifier hash must not be zero")
	}

	v := g.cfg.Verifier()
	if v == nil {
		return domain.Hash{}, dErrors.New(dErrors.CodeCollaboratorFailure, "no proof verifier configured")
	}

	cfg := g.cfg.Snapshot()
	signal := Signal(req.Caller, req.SelectionID)
	epochTag := epoch.TagHash(cfg.EpochPrefix, requestcontext.Now(ctx).Unix())

	if err := v.Verify(ctx, req.Root, cfg.GroupID, signal, req.NullifierHash, epochTag, req.Proof); err != nil {
		return domain.Hash{}, dErrors.Wrap(err, dErrors.CodeProofRejected, "membership proof rejected")
	}

	return req.NullifierHash, nil
}
