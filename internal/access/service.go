// Package access implements the two permission axes gating configuration:
// a single owner (allow-list curation, admin rotation, ownership transfer)
// and an admin role set (issuer key, verifier, metadata pointer rotation).
// The axes are independent: an admin is not automatically owner and vice
// versa. Every check is a pure predicate over the caller identity; rejected
// calls have no side effects.
package access

import (
	"context"
	"sort"
	"sync"

	"mintgate/internal/allowlist"
	"mintgate/internal/verifier"
	"mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
)

// Config is the runtime-mutable admission configuration read by the gates and
// the issuance engine. Fields change only through the permissioned setters.
type Config struct {
	IssuerKey       domain.Address
	GroupID         uint64
	VerifierRef     string
	FactoryRef      string
	AccountTemplate domain.Address
	BaseMetadataURI string
	EpochPrefix     string
}

// VerifierFactory builds a proof-verifier client for a collaborator reference.
// Injected so the service can rebuild the client when an admin rotates the ref.
type VerifierFactory func(ref string) verifier.Verifier

// Service guards Config, the owner, and the admin role set.
type Service struct {
	mu     sync.RWMutex
	owner  domain.Address
	admins map[domain.Address]struct{}
	cfg    Config

	allow         allowlist.Store
	buildVerifier VerifierFactory
	verif         verifier.Verifier
}

// New constructs the access service. The initial owner is also granted the
// admin role so a fresh deployment is operable with one principal.
func New(owner domain.Address, cfg Config, allow allowlist.Store, buildVerifier VerifierFactory) *Service {
	s := &Service{
		owner:         owner,
		admins:        map[domain.Address]struct{}{owner: {}},
		cfg:           cfg,
		allow:         allow,
		buildVerifier: buildVerifier,
	}
	if buildVerifier != nil && cfg.VerifierRef != "" {
		s.verif = buildVerifier(cfg.VerifierRef)
	}
	return s
}

// Snapshot returns a copy of the current configuration.
func (s *Service) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Verifier returns the current proof-verifier client, or nil when none is
// configured.
func (s *Service) Verifier() verifier.Verifier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.verif
}

// Owner returns the current owner principal.
func (s *Service) Owner() domain.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

// IsOwner reports whether the caller holds the owner axis.
func (s *Service) IsOwner(caller domain.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return caller == s.owner && !caller.IsZero()
}

// IsAdmin reports whether the caller holds the admin role.
func (s *Service) IsAdmin(caller domain.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.admins[caller]
	return ok
}

func (s *Service) requireAdmin(caller domain.Address) error {
	if !s.IsAdmin(caller) {
		return dErrors.New(dErrors.CodePermissionDenied, "caller lacks admin role")
	}
	return nil
}

func (s *Service) requireOwner(caller domain.Address) error {
	if !s.IsOwner(caller) {
		return dErrors.New(dErrors.CodePermissionDenied, "caller is not the owner")
	}
	return nil
}

// --- Admin operations ---

// SetIssuerKey rotates the trusted voucher issuer key.
func (s *Service) SetIssuerKey(_ context.Context, caller, key domain.Address) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if key.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "issuer key must not be zero")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.IssuerKey = key
	return nil
}

// SetVerifier rotates the proof-verifier reference and group id, rebuilding
// the collaborator client.
func (s *Service) SetVerifier(_ context.Context, caller domain.Address, ref string, groupID uint64) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if ref == "" {
		return dErrors.New(dErrors.CodeBadRequest, "verifier ref must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.VerifierRef = ref
	s.cfg.GroupID = groupID
	if s.buildVerifier != nil {
		s.verif = s.buildVerifier(ref)
	}
	return nil
}

// SetBaseMetadataURI changes the pointer-policy metadata base.
func (s *Service) SetBaseMetadataURI(_ context.Context, caller domain.Address, uri string) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.BaseMetadataURI = uri
	return nil
}

// ListAllowed returns the allow-list membership. Reads sit on the admin axis.
func (s *Service) ListAllowed(ctx context.Context, caller domain.Address) ([]domain.Address, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.allow.List(ctx)
}

// Admins returns the current admin role set, sorted.
func (s *Service) Admins(caller domain.Address) ([]domain.Address, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Address, 0, len(s.admins))
	for addr := range s.admins {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// --- Owner operations ---

// AddAllowed adds a principal to the allow-list.
func (s *Service) AddAllowed(ctx context.Context, caller, addr domain.Address) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	return s.allow.Add(ctx, addr)
}

// RemoveAllowed removes a principal from the allow-list.
func (s *Service) RemoveAllowed(ctx context.Context, caller, addr domain.Address) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	return s.allow.Remove(ctx, addr)
}

// SetAllowListEnabled toggles the allow-list check as a whole.
func (s *Service) SetAllowListEnabled(ctx context.Context, caller domain.Address, enabled bool) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	return s.allow.SetEnabled(ctx, enabled)
}

// GrantAdmin adds a principal to the admin role set.
func (s *Service) GrantAdmin(_ context.Context, caller, addr domain.Address) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if addr.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "admin address must not be zero")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[addr] = struct{}{}
	return nil
}

// RevokeAdmin removes a principal from the admin role set.
func (s *Service) RevokeAdmin(_ context.Context, caller, addr domain.Address) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.admins, addr)
	return nil
}

// TransferOwnership hands the owner axis to a new principal. The previous
// owner keeps any admin role it held; the axes stay independent.
func (s *Service) TransferOwnership(_ context.Context, caller, next domain.Address) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if next.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "new owner must not be zero")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = next
	return nil
}
