// Package mtklog implements a host-side driver and decoder for MTK-based
// GPS track loggers (QStarz BT-Q1300ST and relatives): a PMTK command
// session over a serial port, and a decoder for the sector-structured
// binary log image those devices hand back.
package mtklog

import "github.com/mtklog/btq1300st/internal/mtkerr"

// Error, Code and the helpers below re-export internal/mtkerr's structured
// error type for public API consumers, the same way constants.go re-exports
// internal/constants.
type Error = mtkerr.Error
type Code = mtkerr.Code

const (
	ErrCodeDeviceUnavailable      = mtkerr.ErrCodeDeviceUnavailable
	ErrCodeIOFailed               = mtkerr.ErrCodeIOFailed
	ErrCodeTimedOut               = mtkerr.ErrCodeTimedOut
	ErrCodeChecksumMismatch       = mtkerr.ErrCodeChecksumMismatch
	ErrCodeCorruptSector          = mtkerr.ErrCodeCorruptSector
	ErrCodePrematureEndOfSector   = mtkerr.ErrCodePrematureEndOfSector
	ErrCodeRecordChecksumMismatch = mtkerr.ErrCodeRecordChecksumMismatch
)

var (
	ErrDeviceUnavailable      = mtkerr.ErrDeviceUnavailable
	ErrIOFailed               = mtkerr.ErrIOFailed
	ErrTimedOut               = mtkerr.ErrTimedOut
	ErrChecksumMismatch       = mtkerr.ErrChecksumMismatch
	ErrCorruptSector          = mtkerr.ErrCorruptSector
	ErrPrematureEndOfSector   = mtkerr.ErrPrematureEndOfSector
	ErrRecordChecksumMismatch = mtkerr.ErrRecordChecksumMismatch
)

var (
	NewError          = mtkerr.NewError
	NewErrorWithErrno = mtkerr.NewErrorWithErrno
	WrapError         = mtkerr.WrapError
	IsCode            = mtkerr.IsCode
	IsErrno           = mtkerr.IsErrno
)
