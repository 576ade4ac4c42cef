// Package wire defines the on-disk/on-wire binary layouts of the log flash
// image: the per-sector header and the in-stream record separator. Field
// order below is chosen to pack the Go struct with zero compiler padding
// (see the compile-time size assertions); the actual byte offsets used on
// the wire are documented per field and are authoritative for Marshal/
// Unmarshal, which never rely on the struct's in-memory layout.
package wire

import (
	"encoding/binary"
	"unsafe"
)

// SectorHeader is the 512-byte header at the start of every 64KiB log
// sector.
//
// Wire layout (little-endian), offsets relative to the start of the sector:
//
//	offset  size  field
//	0       2     Count            (0xFFFF => sector currently being written)
//	2       4     Format           (LogFormat bitmask)
//	6       2     Mode             (1=overlap, 2=stop)
//	8       4     Period           (tenths of a second)
//	12      4     Distance         (tenths of a metre)
//	16      4     Speed            (tenths of km/h)
//	20      32    FailedSectors    (bitmap, 0 bit == sector bad)
//	52      454   Reserved
//	506     1     Separator        (must be '*')
//	507     1     Checksum
//	508     4     Tail             (must be 0xBB 0xBB 0xBB 0xBB)
type SectorHeader struct {
	Format        uint32
	Period        uint32
	Distance      uint32
	Speed         uint32
	Count         uint16
	Mode          uint16
	FailedSectors [32]byte
	Reserved      [454]byte
	Separator     byte
	Checksum      byte
	Tail          [4]byte
}

// SectorHeaderSize is the on-wire size of SectorHeader.
const SectorHeaderSize = 512

// Compile-time guard: catches accidental field additions/removals that
// would change the header's wire footprint.
var _ [SectorHeaderSize]byte = [unsafe.Sizeof(SectorHeader{})]byte{}

// WritingSectorCount is the header Count value used to mark the sector
// currently being appended to.
const WritingSectorCount = 0xFFFF

// ExpectedTail is the required trailer value of a well-formed header.
var ExpectedTail = [4]byte{0xBB, 0xBB, 0xBB, 0xBB}

// ExpectedSeparator is the required separator byte of a well-formed header.
const ExpectedSeparator = '*'

// UnmarshalSectorHeader decodes a 512-byte buffer into a SectorHeader.
func UnmarshalSectorHeader(buf []byte) (SectorHeader, error) {
	var h SectorHeader
	if len(buf) < SectorHeaderSize {
		return h, ErrShortBuffer
	}
	h.Count = binary.LittleEndian.Uint16(buf[0:2])
	h.Format = binary.LittleEndian.Uint32(buf[2:6])
	h.Mode = binary.LittleEndian.Uint16(buf[6:8])
	h.Period = binary.LittleEndian.Uint32(buf[8:12])
	h.Distance = binary.LittleEndian.Uint32(buf[12:16])
	h.Speed = binary.LittleEndian.Uint32(buf[16:20])
	copy(h.FailedSectors[:], buf[20:52])
	copy(h.Reserved[:], buf[52:506])
	h.Separator = buf[506]
	h.Checksum = buf[507]
	copy(h.Tail[:], buf[508:512])
	return h, nil
}

// MarshalSectorHeader encodes h into a 512-byte buffer, the inverse of
// UnmarshalSectorHeader. Used by tests and by any future tool that needs
// to synthesize a flash image rather than only read one.
func MarshalSectorHeader(h SectorHeader) []byte {
	buf := make([]byte, SectorHeaderSize)
	binary.LittleEndian.PutUint16(buf[0:2], h.Count)
	binary.LittleEndian.PutUint32(buf[2:6], h.Format)
	binary.LittleEndian.PutUint16(buf[6:8], h.Mode)
	binary.LittleEndian.PutUint32(buf[8:12], h.Period)
	binary.LittleEndian.PutUint32(buf[12:16], h.Distance)
	binary.LittleEndian.PutUint32(buf[16:20], h.Speed)
	copy(buf[20:52], h.FailedSectors[:])
	copy(buf[52:506], h.Reserved[:])
	buf[506] = h.Separator
	buf[507] = h.Checksum
	copy(buf[508:512], h.Tail[:])
	return buf
}

// Valid reports whether the header's separator and tail markers match a
// well-formed sector header.
func (h SectorHeader) Valid() bool {
	return h.Separator == ExpectedSeparator && h.Tail == ExpectedTail
}

// IsWritingSector reports whether Count marks this the currently-written
// sector, whose true record count is unknown ahead of time.
func (h SectorHeader) IsWritingSector() bool {
	return h.Count == WritingSectorCount
}

// RecordSeparator is the 16-byte in-stream marker used for control events
// (AA x7, type byte, little-endian argument, BB x4 trailer).
//
// Wire layout, offsets relative to the start of the separator:
//
//	offset  size  field
//	0       7     Magic  (must be 0xAA repeated)
//	7       1     Type   (SEP_TYPE_*)
//	8       4     Arg    (little-endian, interpretation depends on Type)
//	12      4     Tail   (must be 0xBB repeated)
type RecordSeparator struct {
	Magic [7]byte
	Type  byte
	Arg   uint32
	Tail  [4]byte
}

// RecordSeparatorSize is the on-wire size of RecordSeparator.
const RecordSeparatorSize = 16

var _ [RecordSeparatorSize]byte = [unsafe.Sizeof(RecordSeparator{})]byte{}

// Separator type bytes (spec.md §4.8).
const (
	SepTypeChangeLogBitmask  = 0x02
	SepTypeChangeLogPeriod   = 0x03
	SepTypeChangeLogDistance = 0x04
	SepTypeChangeLogSpeed    = 0x05
	SepTypeChangeOverlapStop = 0x06
	SepTypeChangeStartStop   = 0x07
)

var (
	recordSeparatorMagic = [7]byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}
	recordSeparatorTail  = [4]byte{0xBB, 0xBB, 0xBB, 0xBB}
)

// ParseRecordSeparator decodes a 16-byte window as a RecordSeparator if its
// magic and tail bytes match; ok is false otherwise and the window should be
// interpreted as something else (non-written space, a Holux separator, or
// plain record data).
func ParseRecordSeparator(buf []byte) (sep RecordSeparator, ok bool) {
	if len(buf) < RecordSeparatorSize {
		return sep, false
	}
	var magic [7]byte
	copy(magic[:], buf[0:7])
	var tail [4]byte
	copy(tail[:], buf[12:16])
	if magic != recordSeparatorMagic || tail != recordSeparatorTail {
		return sep, false
	}
	sep.Magic = magic
	sep.Type = buf[7]
	sep.Arg = binary.LittleEndian.Uint32(buf[8:12])
	sep.Tail = tail
	return sep, true
}

// MarshalRecordSeparator encodes sep into a 16-byte buffer, the inverse of
// ParseRecordSeparator.
func MarshalRecordSeparator(sep RecordSeparator) []byte {
	buf := make([]byte, RecordSeparatorSize)
	copy(buf[0:7], recordSeparatorMagic[:])
	buf[7] = sep.Type
	binary.LittleEndian.PutUint32(buf[8:12], sep.Arg)
	copy(buf[12:16], recordSeparatorTail[:])
	return buf
}

// IsNonWritten reports whether a 16-byte window is entirely 0xFF, marking
// never-written flash.
func IsNonWritten(buf []byte) bool {
	if len(buf) < RecordSeparatorSize {
		return false
	}
	for _, b := range buf[:RecordSeparatorSize] {
		if b != 0xFF {
			return false
		}
	}
	return true
}

// HoluxPrefix is the label prefix used by Holux-badged loggers in place of
// the standard AA/BB-framed separator.
const HoluxPrefix = "HOLUX"

// IsHolux reports whether a 16-byte window begins with the Holux vendor
// label.
func IsHolux(buf []byte) bool {
	if len(buf) < len(HoluxPrefix) {
		return false
	}
	return string(buf[:len(HoluxPrefix)]) == HoluxPrefix
}

// ErrShortBuffer is returned when a buffer is too small to contain the
// structure being decoded.
type wireError string

func (e wireError) Error() string { return string(e) }

const ErrShortBuffer = wireError("wire: buffer too short")
