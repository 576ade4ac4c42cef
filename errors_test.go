package mtklog

import (
	"errors"
	"syscall"
	"testing"
)

// Full coverage of the error semantics lives in internal/mtkerr; this just
// checks the root package's re-exports are wired to the same types.

func TestErrorReexport(t *testing.T) {
	err := NewError("transport.Open", ErrCodeDeviceUnavailable, "no such port")

	if err.Op != "transport.Open" || err.Code != ErrCodeDeviceUnavailable {
		t.Fatalf("unexpected error: %+v", err)
	}
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Error("expected errors.Is to match the re-exported sentinel by Code")
	}
}

func TestWrapErrorReexport(t *testing.T) {
	err := WrapError("transport.Open", syscall.ENOENT)

	if !IsCode(err, ErrCodeDeviceUnavailable) {
		t.Errorf("expected ErrCodeDeviceUnavailable, got %s", err.Code)
	}
	if !IsErrno(err, syscall.ENOENT) {
		t.Error("expected IsErrno to match ENOENT")
	}
}
