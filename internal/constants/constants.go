// Package constants holds protocol and layout constants shared across the
// session, transport and decoder packages.
package constants

import "time"

// Flash layout sizes (bytes)
const (
	// ChunkSize is the size of one PMTK182,7 read-flash request.
	ChunkSize = 0x800

	// SectorSize is the size of one log flash sector.
	SectorSize = 0x10000

	// SectorHeaderSize is the size of the header at the start of each sector.
	SectorHeaderSize = 0x200

	// SeparatorSize is the size of an in-stream record separator.
	SeparatorSize = 0x10

	// HoluxTrailingSpaces is the length of the optional trailing-space
	// suffix some Holux firmware appends after its separator label.
	HoluxTrailingSpaces = 4
)

// Timing constants for the PMTK session.
//
// The logger speaks over a non-blocking serial line: there is no interrupt
// telling us a reply has arrived, so PmtkSession polls the transport and
// sleeps between polls. These values mirror the original driver's own
// empirically-tuned numbers; shorter intervals waste CPU on a link that
// can't produce bytes any faster, longer ones make the tool feel unresponsive.
const (
	// DefaultAwaitTimeout bounds a single command/reply exchange.
	DefaultAwaitTimeout = 500 * time.Millisecond

	// ChunkAwaitTimeout bounds waiting for one flash-read chunk reply.
	// Flash reads are slower than control commands, hence the longer bound.
	ChunkAwaitTimeout = 10 * time.Second

	// PortIdlePollInterval is the sleep between polls of the non-blocking
	// transport while waiting for more bytes to arrive.
	PortIdlePollInterval = 10 * time.Millisecond
)

// Known serial speeds tried in ascending order during device probing. The
// probe keeps the highest speed the device acknowledges.
var ProbeSpeeds = []int{1200, 4800, 9600, 14400, 19200, 38400, 57600, 115200}

// Recording modes reported by PMTK182,2,6.
const (
	ModeOverlap = 1
	ModeStop    = 2
)

// DefaultFlashSize is used when a model ID is unrecognised.
const DefaultFlashSize = 2 * 1024 * 1024

// flashSizeByModel maps a model ID (as reported by PMTK705) to the flash
// size of that device, in bytes. Unlisted models fall back to DefaultFlashSize.
var flashSizeByModel = map[string]int64{
	"1388": 1 * 1024 * 1024,
	"5202": 1 * 1024 * 1024,

	"0051": 2 * 1024 * 1024,
	"0002": 2 * 1024 * 1024,
	"001b": 2 * 1024 * 1024,
	"001d": 2 * 1024 * 1024,
	"0131": 2 * 1024 * 1024,

	"0000": 4 * 1024 * 1024,
	"0005": 4 * 1024 * 1024,
	"0006": 4 * 1024 * 1024,
	"0008": 4 * 1024 * 1024,
	"000f": 4 * 1024 * 1024,
	"005c": 4 * 1024 * 1024,
	"8300": 4 * 1024 * 1024,
}

// FlashSize returns the flash size for a given model ID (case-insensitive
// hex string, as decoded from PMTK705). Unknown models default to 2 MiB.
func FlashSize(modelID string) int64 {
	if size, ok := flashSizeByModel[normalizeModelID(modelID)]; ok {
		return size
	}
	return DefaultFlashSize
}

func normalizeModelID(modelID string) string {
	out := make([]byte, 0, len(modelID))
	for _, c := range []byte(modelID) {
		if c >= 'A' && c <= 'F' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
