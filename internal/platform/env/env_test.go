package env

import (
	"testing"
	"time"
)

func TestString_Default(t *testing.T) {
	got := String("ENV_STRING_DOES_NOT_EXIST", "fallback")
	if got != "fallback" {
		t.Fatalf("String()=%q, want fallback", got)
	}
}

func TestString_Override(t *testing.T) {
	t.Setenv("ENV_STRING_KEY", "value")
	got := String("ENV_STRING_KEY", "fallback")
	if got != "value" {
		t.Fatalf("String()=%q, want value", got)
	}
}

func TestDuration_Override(t *testing.T) {
	t.Setenv("ENV_DURATION_KEY", "250ms")
	got, err := Duration("ENV_DURATION_KEY", 5*time.Second)
	if err != nil {
		t.Fatalf("Duration() err=%v", err)
	}
	if got != 250*time.Millisecond {
		t.Fatalf("Duration()=%v, want 250ms", got)
	}
}

func TestDuration_Invalid(t *testing.T) {
	t.Setenv("ENV_DURATION_KEY_INVALID", "not-a-duration")
	if _, err := Duration("ENV_DURATION_KEY_INVALID", 5*time.Second); err == nil {
		t.Fatalf("Duration() expected error")
	}
}

func TestBool_Override(t *testing.T) {
	t.Setenv("ENV_BOOL_KEY", "true")
	got, err := Bool("ENV_BOOL_KEY", false)
	if err != nil {
		t.Fatalf("Bool() err=%v", err)
	}
	if !got {
		t.Fatalf("Bool()=%v, want true", got)
	}
}

func TestInt_Invalid(t *testing.T) {
	t.Setenv("ENV_INT_KEY_INVALID", "ten")
	if _, err := Int("ENV_INT_KEY_INVALID", 10); err == nil {
		t.Fatalf("Int() expected error")
	}
}

func TestUint64_Override(t *testing.T) {
	t.Setenv("ENV_UINT64_KEY", "18446744073709551615")
	got, err := Uint64("ENV_UINT64_KEY", 0)
	if err != nil {
		t.Fatalf("Uint64() err=%v", err)
	}
	if got != 18446744073709551615 {
		t.Fatalf("Uint64()=%v, want max uint64", got)
	}
}

func TestUint64_Negative(t *testing.T) {
	t.Setenv("ENV_UINT64_KEY_NEGATIVE", "-1")
	if _, err := Uint64("ENV_UINT64_KEY_NEGATIVE", 0); err == nil {
		t.Fatalf("Uint64() expected error")
	}
}
