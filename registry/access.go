package registry

import (
	"context"
	"fmt"

	"github.com/aerotrace-labs/aerotrace-go/domain"
)

// The access controller owns the administrator identity and the pause flag.
// They are independent toggles; neither influences the other.

// Administrator returns the current administrator identity.
func (s *Service) Administrator(ctx context.Context) (domain.Identity, error) {
	if s == nil || s.store == nil {
		return domain.NullIdentity, fmt.Errorf("registry not initialized")
	}
	return s.store.Administrator(ctx)
}

// IsAdministrator reports whether the caller is the current administrator.
// The null sentinel is never an administrator.
func (s *Service) IsAdministrator(ctx context.Context, caller domain.Identity) (bool, error) {
	if s == nil || s.store == nil {
		return false, fmt.Errorf("registry not initialized")
	}
	if caller.IsNull() {
		return false, nil
	}
	admin, err := s.store.Administrator(ctx)
	if err != nil {
		return false, fmt.Errorf("read administrator: %w", err)
	}
	return caller == admin, nil
}

// IsPaused reports whether the system-wide mutation freeze is in effect.
func (s *Service) IsPaused(ctx context.Context) (bool, error) {
	if s == nil || s.store == nil {
		return false, fmt.Errorf("registry not initialized")
	}
	return s.store.Paused(ctx)
}

// TransferAdministration replaces the administrator. Only the current
// administrator may call it, and the null sentinel can never receive
// administration. The transfer is deliberately absent from the provenance
// log; only component mutations are logged.
func (s *Service) TransferAdministration(ctx context.Context, op Op, newAdmin domain.Identity) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("registry not initialized")
	}
	if err := s.requireAdministrator(ctx, op.Caller); err != nil {
		return err
	}
	if newAdmin.IsNull() {
		return domain.ErrZeroIdentity
	}
	if err := s.store.SetAdministrator(ctx, newAdmin); err != nil {
		return fmt.Errorf("set administrator: %w", err)
	}
	return nil
}

// SetPaused sets the pause flag and returns its new value. Administrator
// only. Not itself pause-gated, otherwise the registry could never resume.
func (s *Service) SetPaused(ctx context.Context, op Op, paused bool) (bool, error) {
	if s == nil || s.store == nil {
		return false, fmt.Errorf("registry not initialized")
	}
	if err := s.requireAdministrator(ctx, op.Caller); err != nil {
		return false, err
	}
	if err := s.store.SetPaused(ctx, paused); err != nil {
		return false, fmt.Errorf("set paused: %w", err)
	}
	return paused, nil
}

// ensureActive rejects with ErrPaused while the mutation freeze is in
// effect. It runs before any authorization check, so the short-circuit holds
// even for callers who would otherwise be authorized.
func (s *Service) ensureActive(ctx context.Context) error {
	paused, err := s.store.Paused(ctx)
	if err != nil {
		return fmt.Errorf("read pause flag: %w", err)
	}
	if paused {
		return domain.ErrPaused
	}
	return nil
}

func (s *Service) requireAdministrator(ctx context.Context, caller domain.Identity) error {
	ok, err := s.IsAdministrator(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthorized
	}
	return nil
}
