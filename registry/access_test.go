package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/aerotrace-labs/aerotrace-go/domain"
)

func TestTransferAdministration(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	err := svc.TransferAdministration(ctx, Op{Caller: strangerID, Clock: 1}, operatorID)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-admin, got %v", err)
	}

	err = svc.TransferAdministration(ctx, adminOp(1), domain.NullIdentity)
	if !errors.Is(err, domain.ErrZeroIdentity) {
		t.Fatalf("expected ErrZeroIdentity for burn target, got %v", err)
	}

	if err := svc.TransferAdministration(ctx, adminOp(2), operatorID); err != nil {
		t.Fatalf("transfer administration: %v", err)
	}
	admin, err := svc.Administrator(ctx)
	if err != nil {
		t.Fatalf("get administrator: %v", err)
	}
	if admin != operatorID {
		t.Fatalf("expected administrator %q, got %q", operatorID, admin)
	}

	// The old administrator lost its role atomically.
	err = svc.TransferAdministration(ctx, adminOp(3), adminID)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected old administrator to be unauthorized, got %v", err)
	}
	if _, err := svc.Register(ctx, Op{Caller: operatorID, Clock: 3}, "SN-1", "PN-1", mfgID, `{}`); err != nil {
		t.Fatalf("new administrator register: %v", err)
	}
}

func TestSetPaused(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.SetPaused(ctx, Op{Caller: strangerID, Clock: 1}, true)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-admin, got %v", err)
	}

	paused, err := svc.SetPaused(ctx, adminOp(1), true)
	if err != nil {
		t.Fatalf("set paused: %v", err)
	}
	if !paused {
		t.Fatalf("expected new flag value true")
	}
	flag, err := svc.IsPaused(ctx)
	if err != nil {
		t.Fatalf("is paused: %v", err)
	}
	if !flag {
		t.Fatalf("expected paused registry")
	}

	paused, err = svc.SetPaused(ctx, adminOp(2), false)
	if err != nil {
		t.Fatalf("unset paused: %v", err)
	}
	if paused {
		t.Fatalf("expected new flag value false")
	}
}

func TestPauseShortCircuitsEveryMutation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := mustRegister(t, svc, adminOp(1), "SN-1")

	if _, err := svc.SetPaused(ctx, adminOp(2), true); err != nil {
		t.Fatalf("set paused: %v", err)
	}

	// The pause check precedes authorization, so even the administrator and
	// even an unauthorized caller observe ErrPaused first.
	calls := []func() error{
		func() error {
			_, err := svc.Register(ctx, adminOp(3), "SN-2", "PN-2", mfgID, `{}`)
			return err
		},
		func() error {
			_, err := svc.Register(ctx, Op{Caller: strangerID, Clock: 3}, "SN-2", "PN-2", mfgID, `{}`)
			return err
		},
		func() error { return svc.TransferOwnership(ctx, adminOp(3), id, operatorID) },
		func() error { return svc.UpdateMetadata(ctx, adminOp(3), id, `{"cert":"v2"}`) },
		func() error { return svc.UpdateStatus(ctx, Op{Caller: strangerID, Clock: 3}, id, "retired") },
	}
	for i, call := range calls {
		if err := call(); !errors.Is(err, domain.ErrPaused) {
			t.Fatalf("call %d: expected ErrPaused, got %v", i, err)
		}
	}

	// Reads stay available while paused.
	if _, err := svc.Component(ctx, id); err != nil {
		t.Fatalf("read while paused: %v", err)
	}

	if _, err := svc.SetPaused(ctx, adminOp(4), false); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if err := svc.UpdateStatus(ctx, adminOp(5), id, "under-repair"); err != nil {
		t.Fatalf("mutation after unpause: %v", err)
	}
}

func TestIsAdministratorRejectsNullCaller(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	ok, err := svc.IsAdministrator(ctx, domain.NullIdentity)
	if err != nil {
		t.Fatalf("is administrator: %v", err)
	}
	if ok {
		t.Fatalf("the null sentinel must never hold the administrator role")
	}
}
