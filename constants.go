package mtklog

import "github.com/mtklog/btq1300st/internal/constants"

// Re-exported layout/timing constants for public API consumers.
const (
	ChunkSize           = constants.ChunkSize
	SectorSize          = constants.SectorSize
	SectorHeaderSize    = constants.SectorHeaderSize
	SeparatorSize       = constants.SeparatorSize
	HoluxTrailingSpaces = constants.HoluxTrailingSpaces

	DefaultAwaitTimeout  = constants.DefaultAwaitTimeout
	ChunkAwaitTimeout    = constants.ChunkAwaitTimeout
	PortIdlePollInterval = constants.PortIdlePollInterval

	ModeOverlap = constants.ModeOverlap
	ModeStop    = constants.ModeStop

	DefaultFlashSize = constants.DefaultFlashSize
)

// ProbeSpeeds is the ascending serial-speed ladder tried during autobaud
// probing.
var ProbeSpeeds = constants.ProbeSpeeds

// FlashSize returns the flash size, in bytes, for a given model ID.
var FlashSize = constants.FlashSize
