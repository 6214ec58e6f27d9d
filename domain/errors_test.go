package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodesAreStable(t *testing.T) {
	cases := []struct {
		err  *Error
		code int
	}{
		{ErrUnauthorized, 100},
		{ErrAlreadyRegistered, 101},
		{ErrNotRegistered, 102},
		{ErrPaused, 103},
		{ErrZeroIdentity, 104},
		{ErrInvalidMetadata, 105},
		{ErrNotOwner, 106},
		{ErrInvalidComponent, 107},
	}
	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Fatalf("expected code %d for %q, got %d", tc.code, tc.err.Reason, tc.err.Code)
		}
	}
}

func TestWrappedErrorMatchesSentinel(t *testing.T) {
	wrapped := fmt.Errorf("update component 7: %w", ErrNotOwner)
	if !errors.Is(wrapped, ErrNotOwner) {
		t.Fatalf("expected wrapped error to match ErrNotOwner")
	}
	if errors.Is(wrapped, ErrUnauthorized) {
		t.Fatalf("did not expect match against a different code")
	}
}
