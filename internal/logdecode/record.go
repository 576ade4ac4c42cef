package logdecode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mtklog/btq1300st/internal/mtkerr"
)

// Satellite is one per-satellite block inside a record's NSAT+SID group.
type Satellite struct {
	SID       int
	InUse     bool
	Elevation uint16
	Azimuth   uint16
	SNR       uint16
}

// Record is one fully decoded trackpoint/waypoint candidate. Which fields
// are populated depends on the LogFormat in effect when it was decoded;
// zero value means "field not present in this format", not "absent data".
type Record struct {
	UTC         uint32
	Valid       FixType
	Latitude    float64
	Longitude   float64
	Height      float32
	Speed       float32
	Heading     float32
	DSTA        uint16
	DAGE        uint32
	PDOP        uint16
	HDOP        uint16
	VDOP        uint16
	NSATInView  byte
	NSATInUse   byte
	Satellites  []Satellite
	RCR         uint16
	Millisecond uint16
	Distance    float64
}

// IsWaypoint reports whether RCR's BUTTON bit is set and the fix is valid
// (spec.md §4.9; Holux-forced waypoints are decided by the caller, which
// knows about the separator that preceded this record).
func (r Record) IsWaypoint() bool {
	return r.Valid != FixNoFix && r.RCR&RCRButton != 0
}

// IsTrackpoint reports whether this record has a valid fix and wasn't
// button-triggered.
func (r Record) IsTrackpoint() bool {
	return r.Valid != FixNoFix && r.RCR&RCRButton == 0
}

// RecordDecoder decodes one record at a time under a given LogFormat and
// field-size table. Both are mutable across the scan: a 0x02 separator can
// change Format mid-stream, and a Holux vendor separator can change Sizes
// and HasChecksumSeparator (§4.8).
type RecordDecoder struct {
	Format               LogFormat
	Sizes                FieldSizes
	HasChecksumSeparator bool
}

// cursor reads sequential fields out of a record buffer, accumulating an
// XOR checksum over every byte consumed via take. Raw reads (the checksum
// separator and the trailing checksum byte itself) use readRaw, which
// advances the position without folding into the checksum.
type cursor struct {
	buf      []byte
	pos      int
	checksum byte
	err      error
}

func (c *cursor) take(n int) []byte {
	if c.err != nil {
		return make([]byte, n)
	}
	if c.pos+n > len(c.buf) {
		c.err = mtkerr.NewError("decode.record", mtkerr.ErrCodeCorruptSector, "record truncated")
		return make([]byte, n)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	for _, by := range b {
		c.checksum ^= by
	}
	return b
}

func (c *cursor) readRaw(n int) []byte {
	if c.err != nil {
		return make([]byte, n)
	}
	if c.pos+n > len(c.buf) {
		c.err = mtkerr.NewError("decode.record", mtkerr.ErrCodeCorruptSector, "record truncated")
		return make([]byte, n)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *cursor) readByte() byte     { return c.take(1)[0] }
func (c *cursor) readUint16() uint16 { return binary.LittleEndian.Uint16(c.take(2)) }
func (c *cursor) readUint32() uint32 { return binary.LittleEndian.Uint32(c.take(4)) }

// readFloatN reads an n-byte IEEE-754 value (4 => float32, 8 => float64),
// matching the width given by the effective FieldSizes for this field.
func (c *cursor) readFloatN(n int) float64 {
	switch n {
	case 4:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(c.take(4))))
	case 8:
		return math.Float64frombits(binary.LittleEndian.Uint64(c.take(8)))
	default:
		c.take(n)
		return 0
	}
}

// Decode reads one record from the start of buf. It returns the decoded
// record, the number of bytes consumed (so the caller can advance past it
// regardless of error), and an error — a checksum mismatch is returned as
// mtkerr.ErrCodeRecordChecksumMismatch with the record still populated,
// since the scanner's DecodePolicy (not the decoder) decides whether to
// keep or discard it.
func (d *RecordDecoder) Decode(buf []byte) (Record, int, error) {
	c := &cursor{buf: buf}
	var rec Record

	if d.Format.Has(FieldUTC) {
		rec.UTC = c.readUint32()
	}
	if d.Format.Has(FieldValid) {
		rec.Valid = FixType(c.readUint16())
	}
	if d.Format.Has(FieldLatitude) {
		rec.Latitude = c.readFloatN(d.Sizes.Latitude)
	}
	if d.Format.Has(FieldLongitude) {
		rec.Longitude = c.readFloatN(d.Sizes.Longitude)
	}
	if d.Format.Has(FieldHeight) {
		rec.Height = float32(c.readFloatN(d.Sizes.Height))
	}
	if d.Format.Has(FieldSpeed) {
		rec.Speed = float32(c.readFloatN(d.Sizes.Speed))
	}
	if d.Format.Has(FieldHeading) {
		rec.Heading = float32(c.readFloatN(d.Sizes.Heading))
	}
	if d.Format.Has(FieldDSTA) {
		rec.DSTA = c.readUint16()
	}
	if d.Format.Has(FieldDAGE) {
		rec.DAGE = c.readUint32()
	}
	if d.Format.Has(FieldPDOP) {
		rec.PDOP = c.readUint16()
	}
	if d.Format.Has(FieldHDOP) {
		rec.HDOP = c.readUint16()
	}
	if d.Format.Has(FieldVDOP) {
		rec.VDOP = c.readUint16()
	}
	if d.Format.Has(FieldNSAT) {
		rec.NSATInView = c.readByte()
		rec.NSATInUse = c.readByte()
	}
	if d.Format.Has(FieldSID) {
		satCount := 0
		for {
			sid := c.readByte()
			inUse := c.readByte()
			inView := int(c.readUint16()) // per-block in-view count drives the loop bound
			sat := Satellite{SID: int(sid), InUse: inUse != 0}
			if d.Format.Has(FieldElevation) {
				sat.Elevation = c.readUint16()
			}
			if d.Format.Has(FieldAzimuth) {
				sat.Azimuth = c.readUint16()
			}
			if d.Format.Has(FieldSNR) {
				sat.SNR = c.readUint16()
			}
			rec.Satellites = append(rec.Satellites, sat)
			satCount++
			if inView == 0 {
				break // exactly one empty block when in-view count is zero (§4.7)
			}
			if satCount >= inView {
				break
			}
		}
	}
	if d.Format.Has(FieldRCR) {
		rec.RCR = c.readUint16()
	}
	if d.Format.Has(FieldMillisecond) {
		rec.Millisecond = c.readUint16()
	}
	if d.Format.Has(FieldDistance) {
		rec.Distance = c.readFloatN(d.Sizes.Distance)
	}

	if c.err != nil {
		return rec, c.pos, c.err
	}

	if d.HasChecksumSeparator {
		sep := c.readRaw(1)
		if c.err != nil {
			return rec, c.pos, c.err
		}
		if sep[0] != '*' {
			return rec, c.pos, mtkerr.NewError("decode.record", mtkerr.ErrCodeCorruptSector,
				fmt.Sprintf("checksum separator error: expected '*' (0x2a), found %#02x", sep[0]))
		}
	}

	want := c.readRaw(1)
	if c.err != nil {
		return rec, c.pos, c.err
	}
	if want[0] != c.checksum {
		return rec, c.pos, mtkerr.NewError("decode.record", mtkerr.ErrCodeRecordChecksumMismatch,
			fmt.Sprintf("want %02x got %02x", want[0], c.checksum))
	}
	return rec, c.pos, nil
}
