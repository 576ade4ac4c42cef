package logdecode

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/mtklog/btq1300st/internal/bufpool"
	"github.com/mtklog/btq1300st/internal/constants"
	"github.com/mtklog/btq1300st/internal/interfaces"
	"github.com/mtklog/btq1300st/internal/mtkerr"
	"github.com/mtklog/btq1300st/internal/protocol"
	"github.com/mtklog/btq1300st/internal/wire"
)

// ProgressFunc receives a monotonic progress signal during Read: bytes
// read so far and the total expected.
type ProgressFunc func(bytesRead, bytesExpected int64)

// MemoryReader downloads the flash image over a PmtkSession (spec.md
// §4.5). The returned image is immutable and owned by the caller from
// then on; MemoryReader keeps no reference to it.
type MemoryReader struct {
	session  *protocol.PmtkSession
	logger   interfaces.Logger
	observer interfaces.Observer
}

// NewMemoryReader wraps session. logger/observer may be nil.
func NewMemoryReader(session *protocol.PmtkSession, logger interfaces.Logger, observer interfaces.Observer) *MemoryReader {
	return &MemoryReader{session: session, logger: logger, observer: observer}
}

// BytesToRead computes the download range for the given mode (spec.md
// §4.5): STOP mode rounds the next-write address up to a sector boundary;
// OVERLAP mode downloads the full flash, sized from the model ID.
func BytesToRead(mode int, nextWriteAddr uint32, modelID string) int64 {
	if mode == constants.ModeStop {
		sectors := (int64(nextWriteAddr) + constants.SectorSize - 1) / constants.SectorSize
		return sectors * constants.SectorSize
	}
	return constants.FlashSize(modelID)
}

// Read downloads bytesToRead bytes of flash, chunk by chunk, into a pooled
// buffer. It performs exactly one pass over [0, bytesToRead) — the
// original tooling's duplicate readout loop (spec.md DESIGN NOTES, Open
// Question resolved in DESIGN.md) is not reproduced.
//
// If the first chunk of a sector decodes to 16 bytes of 0xFF, the
// download stops there: that sector (and everything after it) is
// unwritten flash.
func (r *MemoryReader) Read(ctx context.Context, bytesToRead int64, progress ProgressFunc) ([]byte, error) {
	image := bufpool.Get(int(bytesToRead))
	var read int64

	for offset := int64(0); offset < bytesToRead; offset += constants.ChunkSize {
		chunkLen := int64(constants.ChunkSize)
		if offset+chunkLen > bytesToRead {
			chunkLen = bytesToRead - offset
		}

		start := time.Now()
		cmd := fmt.Sprintf("PMTK182,7,%08x,%08x", offset, chunkLen)
		reply, err := r.session.Exchange(ctx, cmd, "PMTK182,8,", constants.ChunkAwaitTimeout)
		if err != nil {
			return nil, mtkerr.WrapError("reader.Read", err)
		}
		if _, err := r.session.Await(ctx, "PMTK001,182,7,3", constants.ChunkAwaitTimeout); err != nil {
			return nil, mtkerr.WrapError("reader.Read", err)
		}

		raw, err := hex.DecodeString(strings.TrimSpace(fieldAt(reply, 3)))
		if err != nil {
			return nil, mtkerr.NewError("reader.Read", mtkerr.ErrCodeIOFailed, "malformed hex chunk payload: "+err.Error())
		}

		if r.observer != nil {
			r.observer.ObserveChunkRead(uint64(len(raw)), uint64(time.Since(start).Nanoseconds()), true)
		}

		if offset%constants.SectorSize == 0 && wire.IsNonWritten(raw) {
			if r.logger != nil {
				r.logger.Infof("unwritten sector at offset %#x, stopping download", offset)
			}
			break
		}

		copy(image[offset:offset+int64(len(raw))], raw)
		read = offset + int64(len(raw))
		if progress != nil {
			progress(read, bytesToRead)
		}
	}

	return image[:read], nil
}

func fieldAt(payload string, i int) string {
	parts := strings.Split(payload, ",")
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}
