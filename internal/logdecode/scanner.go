package logdecode

import (
	"fmt"

	"github.com/mtklog/btq1300st/internal/constants"
	"github.com/mtklog/btq1300st/internal/interfaces"
	"github.com/mtklog/btq1300st/internal/mtkerr"
	"github.com/mtklog/btq1300st/internal/wire"
)

// EmittedKind classifies a decoded record per the emission rules (§4.9).
type EmittedKind int

const (
	EmittedDropped EmittedKind = iota
	EmittedTrackpoint
	EmittedWaypoint
)

// Emitted is one record handed to the scan's callback, tagged with
// whatever the consumer needs to reconstruct track segments (§4.9: a
// segment breaks on a record separator, a non-written region, or any
// VALID == NO_FIX record).
type Emitted struct {
	Kind         EmittedKind
	Record       Record
	SegmentBreak bool
}

// DecodePolicy controls what SectorScanner.Scan does when RecordDecoder
// reports a checksum mismatch (spec.md §7: "recoverable per-record").
type DecodePolicy int

const (
	// DecodePolicyStrict aborts the scan on the first record checksum
	// mismatch; records already emitted stand.
	DecodePolicyStrict DecodePolicy = iota
	// DecodePolicyLenient drops the bad record and resumes decoding at
	// the position immediately after it.
	DecodePolicyLenient
)

// SectorScanner walks a downloaded image sector by sector, applying
// separators and decoding records, until the device-reported total record
// count is reached (spec.md §4.6).
type SectorScanner struct {
	image         []byte
	totalRecords  uint32
	initialFormat LogFormat
	policy        DecodePolicy
	logger        interfaces.Logger
	observer      interfaces.Observer
}

// NewSectorScanner builds a scanner over image. initialFormat/totalRecords
// come from the identity query (PMTK182,2,2 / PMTK182,2,10); a 0x02
// separator may change the format again mid-scan.
func NewSectorScanner(image []byte, totalRecords uint32, initialFormat LogFormat, policy DecodePolicy, logger interfaces.Logger, observer interfaces.Observer) *SectorScanner {
	return &SectorScanner{
		image:         image,
		totalRecords:  totalRecords,
		initialFormat: initialFormat,
		policy:        policy,
		logger:        logger,
		observer:      observer,
	}
}

// Scan walks the image, invoking emit for every decoded record (in
// position order) until the sector quota or the device-reported total is
// reached. It returns the first unrecoverable error, if any; records
// already passed to emit remain valid regardless.
func (s *SectorScanner) Scan(emit func(Emitted)) error {
	format := s.initialFormat
	sizes := defaultFieldSizes
	hasChecksumSeparator := false
	mode := 0

	var recordCount uint32
	forcedWaypoint := false
	segmentBreakPending := true // the very first record starts a new segment

sectorLoop:
	for sectorOffset := 0; sectorOffset+wire.SectorHeaderSize <= len(s.image); sectorOffset += constants.SectorSize {
		if recordCount >= s.totalRecords {
			break
		}

		header, err := wire.UnmarshalSectorHeader(s.image[sectorOffset : sectorOffset+wire.SectorHeaderSize])
		if err != nil {
			return mtkerr.WrapError("scan.sector", err)
		}
		if !header.Valid() {
			return mtkerr.NewError("scan.sector", mtkerr.ErrCodeCorruptSector,
				fmt.Sprintf("bad header at offset %#x", sectorOffset))
		}

		format = LogFormat(header.Format)
		mode = int(header.Mode)
		isWriting := header.IsWritingSector()
		var expected uint32
		if !isWriting {
			expected = uint32(header.Count)
		}

		pos := sectorOffset + wire.SectorHeaderSize
		sectorEnd := min(sectorOffset+constants.SectorSize, len(s.image))
		var sectorRecords uint32

		for pos < sectorEnd && recordCount < s.totalRecords {
			if !isWriting && sectorRecords >= expected {
				continue sectorLoop
			}
			if sectorEnd-pos < wire.RecordSeparatorSize {
				continue sectorLoop
			}

			peekEnd := min(pos+wire.RecordSeparatorSize+constants.HoluxTrailingSpaces, sectorEnd)
			cls := Classify(s.image[pos:peekEnd])

			switch cls.Kind {
			case SeparatorRecord:
				prevMode := mode
				applySeparatorSemantics(&format, &mode, cls.RecordSep)
				if mode != prevMode && s.logger != nil {
					s.logger.Debugf("log mode changed to %d at offset %#x", mode, pos)
				}
				pos += cls.ConsumedBytes
				segmentBreakPending = true
				continue
			case SeparatorNonWritten:
				if isWriting {
					segmentBreakPending = true
					continue sectorLoop
				}
				return mtkerr.NewError("scan.sector", mtkerr.ErrCodePrematureEndOfSector,
					fmt.Sprintf("unwritten space at offset %#x before record quota met", pos))
			case SeparatorHolux:
				sizes = FieldSizesFor(cls.HoluxModel)
				hasChecksumSeparator = true
				if cls.ForcedWaypoint {
					forcedWaypoint = true
				}
				pos += cls.ConsumedBytes
				continue
			}

			decoder := &RecordDecoder{Format: format, Sizes: sizes, HasChecksumSeparator: hasChecksumSeparator}
			rec, n, decodeErr := decoder.Decode(s.image[pos:sectorEnd])
			pos += n
			sectorRecords++
			recordCount++

			if decodeErr != nil {
				if s.observer != nil {
					s.observer.ObserveRecordDecoded(false)
				}
				if !mtkerr.IsCode(decodeErr, mtkerr.ErrCodeRecordChecksumMismatch) {
					return decodeErr
				}
				if s.logger != nil {
					s.logger.Warnf("record checksum mismatch at offset %#x: %v", pos-n, decodeErr)
				}
				if s.policy == DecodePolicyStrict {
					return decodeErr
				}
				continue
			}
			if s.observer != nil {
				s.observer.ObserveRecordDecoded(true)
			}

			kind := EmittedDropped
			switch {
			case forcedWaypoint || rec.IsWaypoint():
				kind = EmittedWaypoint
			case rec.IsTrackpoint():
				kind = EmittedTrackpoint
			}
			forcedWaypoint = false

			brk := segmentBreakPending
			segmentBreakPending = rec.Valid == FixNoFix
			emit(Emitted{Kind: kind, Record: rec, SegmentBreak: brk})
		}

		if isWriting {
			break
		}
	}

	return nil
}

// applySeparatorSemantics updates the in-effect format/mode per the
// separator type byte (spec.md §4.8). Period/distance/speed-threshold and
// start/stop changes (0x03/0x04/0x05/0x07) are informational only and
// don't affect decoding.
func applySeparatorSemantics(format *LogFormat, mode *int, sep wire.RecordSeparator) {
	switch sep.Type {
	case wire.SepTypeChangeLogBitmask:
		*format = LogFormat(sep.Arg)
	case wire.SepTypeChangeOverlapStop:
		*mode = int(sep.Arg)
	}
}
