// Package mtkerr implements the driver's structured error type, shared by
// the transport, protocol and decoder packages (and re-exported from the
// root package for public API consumers).
package mtkerr

import (
	"errors"
	"fmt"
	"syscall"
)

// Error is a structured driver error with enough context to distinguish a
// bad serial port from a corrupt flash dump from a slow device.
type Error struct {
	Op    string // operation that failed, e.g. "transport.Open", "scan.sector"
	Code  Code   // high-level error category
	Errno syscall.Errno
	Msg   string
	Inner error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		return fmt.Sprintf("mtklog: %s: %s", e.Op, msg)
	}
	return fmt.Sprintf("mtklog: %s", msg)
}

func (e *Error) Unwrap() error {
	return e.Inner
}

// Is supports errors.Is comparison by Code, so callers can write
// errors.Is(err, mtkerr.ErrTimedOut) without caring about Op/Msg.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	return false
}

// Code categorizes a driver error (spec.md §7).
type Code string

const (
	ErrCodeDeviceUnavailable      Code = "device unavailable"
	ErrCodeIOFailed               Code = "i/o failed"
	ErrCodeTimedOut               Code = "timed out"
	ErrCodeChecksumMismatch       Code = "packet checksum mismatch"
	ErrCodeCorruptSector          Code = "corrupt sector"
	ErrCodePrematureEndOfSector   Code = "premature end of sector"
	ErrCodeRecordChecksumMismatch Code = "record checksum mismatch"
)

// Sentinel errors for the common codes, usable with errors.Is.
var (
	ErrDeviceUnavailable      = &Error{Code: ErrCodeDeviceUnavailable}
	ErrIOFailed               = &Error{Code: ErrCodeIOFailed}
	ErrTimedOut               = &Error{Code: ErrCodeTimedOut}
	ErrChecksumMismatch       = &Error{Code: ErrCodeChecksumMismatch}
	ErrCorruptSector          = &Error{Code: ErrCodeCorruptSector}
	ErrPrematureEndOfSector   = &Error{Code: ErrCodePrematureEndOfSector}
	ErrRecordChecksumMismatch = &Error{Code: ErrCodeRecordChecksumMismatch}
)

// NewError builds a structured error with no wrapped cause.
func NewError(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewErrorWithErrno builds a structured error carrying a kernel errno, for
// transport-layer failures surfaced through os.PathError/os.SyscallError.
func NewErrorWithErrno(op string, code Code, errno syscall.Errno) *Error {
	return &Error{Op: op, Code: code, Errno: errno, Msg: errno.Error()}
}

// WrapError attaches Op to inner, preserving its Code/Errno if inner is
// already a *Error, or classifying a raw error (typically a syscall.Errno
// surfaced by the serial transport) otherwise.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if me, ok := inner.(*Error); ok {
		return &Error{Op: op, Code: me.Code, Errno: me.Errno, Msg: me.Msg, Inner: me.Inner}
	}
	var errno syscall.Errno
	if errors.As(inner, &errno) {
		return &Error{Op: op, Code: mapErrnoToCode(errno), Errno: errno, Msg: errno.Error(), Inner: inner}
	}
	return &Error{Op: op, Code: ErrCodeIOFailed, Msg: inner.Error(), Inner: inner}
}

func mapErrnoToCode(errno syscall.Errno) Code {
	switch errno {
	case syscall.ENOENT, syscall.ENXIO, syscall.ENODEV:
		return ErrCodeDeviceUnavailable
	case syscall.ETIMEDOUT:
		return ErrCodeTimedOut
	default:
		return ErrCodeIOFailed
	}
}

// IsCode reports whether err is a *Error (possibly wrapped) with the given
// Code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsErrno reports whether err is a *Error (possibly wrapped) carrying the
// given errno.
func IsErrno(err error, errno syscall.Errno) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Errno == errno
	}
	return false
}
