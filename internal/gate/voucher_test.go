package gate

import (
	"context"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintgate/internal/access"
	"mintgate/internal/allowlist"
	"mintgate/internal/chain/eip712"
	"mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/requestcontext"
)

var typedDomain = eip712.Domain{
	Name:              "mintgate",
	Version:           "1",
	ChainID:           1,
	VerifyingContract: mustAddr("0x00000000000000000000000000000000000000aa"),
}

func mustAddr(s string) domain.Address {
	a, err := domain.ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// issuerIdentity generates a fresh issuer keypair and a signer over voucher
// digests, standing in for the off-system authority.
type issuerIdentity struct {
	priv *btcec.PrivateKey
	addr domain.Address
}

func newIssuer(t *testing.T) issuerIdentity {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	ser := priv.PubKey().SerializeUncompressed()
	h := domain.Keccak256(ser[1:])
	addr, err := domain.AddressFromBytes(h[12:])
	require.NoError(t, err)
	return issuerIdentity{priv: priv, addr: addr}
}

func (i issuerIdentity) sign(t *testing.T, req VoucherRequest) []byte {
	t.Helper()
	digest := typedDomain.VoucherDigest(req.Recipient, req.Nonce, req.Deadline)
	compact := btcecdsa.SignCompact(i.priv, digest[:], false)
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return sig
}

func newAccessService(issuerKey domain.Address) *access.Service {
	return access.New(
		mustAddr("0x1111111111111111111111111111111111111111"),
		access.Config{IssuerKey: issuerKey, GroupID: 1, EpochPrefix: "MINTGATE"},
		allowlist.NewMemoryStore(),
		nil,
	)
}

func fixedClock(ctx context.Context, t time.Time) context.Context {
	return requestcontext.WithTime(ctx, t)
}

func TestVoucherGateAccepts(t *testing.T) {
	issuer := newIssuer(t)
	g := NewVoucherGate(typedDomain, newAccessService(issuer.addr))

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req := VoucherRequest{
		Recipient: mustAddr("0x2222222222222222222222222222222222222222"),
		Nonce:     1,
		Deadline:  now.Add(24 * time.Hour).Unix(),
	}
	req.Signature = issuer.sign(t, req)

	key, err := g.Verify(fixedClock(context.Background(), now), req)
	require.NoError(t, err)
	assert.Equal(t, NonceKey(1), key)
}

func TestVoucherGateRejectsExpired(t *testing.T) {
	issuer := newIssuer(t)
	g := NewVoucherGate(typedDomain, newAccessService(issuer.addr))

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req := VoucherRequest{
		Recipient: mustAddr("0x2222222222222222222222222222222222222222"),
		Nonce:     1,
		Deadline:  now.Add(-time.Second).Unix(),
	}
	req.Signature = issuer.sign(t, req)

	_, err := g.Verify(fixedClock(context.Background(), now), req)
	assert.True(t, dErrors.Is(err, dErrors.CodeExpiredCredential))
}

func TestVoucherGateRejectsUntrustedSigner(t *testing.T) {
	issuer := newIssuer(t)
	imposter := newIssuer(t)
	g := NewVoucherGate(typedDomain, newAccessService(issuer.addr))

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req := VoucherRequest{
		Recipient: mustAddr("0x2222222222222222222222222222222222222222"),
		Nonce:     1,
		Deadline:  now.Add(24 * time.Hour).Unix(),
	}
	req.Signature = imposter.sign(t, req)

	_, err := g.Verify(fixedClock(context.Background(), now), req)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidSignature))
}

func TestVoucherGateRejectsTamperedFields(t *testing.T) {
	issuer := newIssuer(t)
	g := NewVoucherGate(typedDomain, newAccessService(issuer.addr))

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req := VoucherRequest{
		Recipient: mustAddr("0x2222222222222222222222222222222222222222"),
		Nonce:     1,
		Deadline:  now.Add(24 * time.Hour).Unix(),
	}
	req.Signature = issuer.sign(t, req)

	// Mint for a different recipient with the same signature.
	req.Recipient = mustAddr("0x3333333333333333333333333333333333333333")
	_, err := g.Verify(fixedClock(context.Background(), now), req)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidSignature))
}

func TestVoucherGateIssuerRotation(t *testing.T) {
	oldIssuer := newIssuer(t)
	newIss := newIssuer(t)
	svc := newAccessService(oldIssuer.addr)
	g := NewVoucherGate(typedDomain, svc)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req := VoucherRequest{
		Recipient: mustAddr("0x2222222222222222222222222222222222222222"),
		Nonce:     7,
		Deadline:  now.Add(time.Hour).Unix(),
	}
	req.Signature = newIss.sign(t, req)

	_, err := g.Verify(fixedClock(context.Background(), now), req)
	require.True(t, dErrors.Is(err, dErrors.CodeInvalidSignature))

	owner := mustAddr("0x1111111111111111111111111111111111111111")
	require.NoError(t, svc.SetIssuerKey(context.Background(), owner, newIss.addr))

	_, err = g.Verify(fixedClock(context.Background(), now), req)
	assert.NoError(t, err)
}
