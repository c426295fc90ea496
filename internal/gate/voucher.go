package gate

import (
	"context"

	"mintgate/internal/access"
	"mintgate/internal/chain/eip712"
	"mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/requestcontext"
)

// VoucherGate verifies signed vouchers. The typed-data domain is fixed at
// construction (deployment identity never changes at runtime); the trusted
// issuer key is read from the access service on every call so admin rotation
// takes effect immediately.
type VoucherGate struct {
	typedDomain eip712.Domain
	cfg         *access.Service
}

func NewVoucherGate(typedDomain eip712.Domain, cfg *access.Service) *VoucherGate {
	return &VoucherGate{typedDomain: typedDomain, cfg: cfg}
}

// Verify checks deadline, signature, and issuer identity. On success it
// returns the ledger key for the voucher's nonce; it does not consume it.
func (g *VoucherGate) Verify(ctx context.Context, req VoucherRequest) (domain.Hash, error) {
	if req.Recipient.IsZero() {
		return domain.Hash{}, dErrors.New(dErrors.CodeBadRequest, "recipient must not be zero")
	}

	now := requestcontext.Now(ctx)
	if now.Unix() > req.Deadline {
		return domain.Hash{}, dErrors.New(dErrors.CodeExpiredCredential, "voucher deadline has passed")
	}

	digest := g.typedDomain.VoucherDigest(req.Recipient, req.Nonce, req.Deadline)
	signer, err := eip712.RecoverAddress(digest, req.Signature)
	if err != nil {
		return domain.Hash{}, dErrors.Wrap(err, dErrors.CodeInvalidSignature, "signature recovery failed")
	}

	issuer := g.cfg.Snapshot().IssuerKey
	if issuer.IsZero() || signer != issuer {
		return domain.Hash{}, dErrors.New(dErrors.CodeInvalidSignature, "voucher not signed by trusted issuer")
	}

	return NonceKey(req.Nonce), nil
}
