// Package logdecode decodes a downloaded flash image into trackpoint and
// waypoint records: the field bitmask (format.go), one record at a time
// (record.go), the separators between records (separator.go), the
// sector-by-sector walk (scanner.go) and the PMTK readout loop that
// produces the image in the first place (reader.go).
package logdecode

// LogFormat is the 20-bit field bitmask reported by PMTK182,2,2 (and
// updated in-stream by a 0x02 separator). Each set bit means the
// corresponding field is present in every record, in this fixed order
// (spec.md §3 field table).
type LogFormat uint32

const (
	FieldUTC         LogFormat = 0x00001
	FieldValid       LogFormat = 0x00002
	FieldLatitude    LogFormat = 0x00004
	FieldLongitude   LogFormat = 0x00008
	FieldHeight      LogFormat = 0x00010
	FieldSpeed       LogFormat = 0x00020
	FieldHeading     LogFormat = 0x00040
	FieldDSTA        LogFormat = 0x00080
	FieldDAGE        LogFormat = 0x00100
	FieldPDOP        LogFormat = 0x00200
	FieldHDOP        LogFormat = 0x00400
	FieldVDOP        LogFormat = 0x00800
	FieldNSAT        LogFormat = 0x01000
	FieldSID         LogFormat = 0x02000
	FieldElevation   LogFormat = 0x04000
	FieldAzimuth     LogFormat = 0x08000
	FieldSNR         LogFormat = 0x10000
	FieldRCR         LogFormat = 0x20000
	FieldMillisecond LogFormat = 0x40000
	FieldDistance    LogFormat = 0x80000
)

// canonicalFieldOrder is the fixed decode order for every bit except the
// SID/ELEVATION/AZIMUTH/SNR group, which is handled specially inside the
// NSAT+SID block (record.go). Bit tests throughout this package use `&`
// exclusively — the original tooling's `&`/`|` confusion (spec.md DESIGN
// NOTES) is a bug, not behavior to replicate.
var canonicalFieldOrder = []LogFormat{
	FieldUTC, FieldValid, FieldLatitude, FieldLongitude, FieldHeight,
	FieldSpeed, FieldHeading, FieldDSTA, FieldDAGE,
	FieldPDOP, FieldHDOP, FieldVDOP,
	// FieldNSAT is handled specially: it opens the NSAT+SID block.
	FieldRCR, FieldMillisecond, FieldDistance,
}

// Has reports whether bit is set in f.
func (f LogFormat) Has(bit LogFormat) bool {
	return f&bit != 0
}

// FieldSizes gives the byte width of every fixed-size scalar field. Most
// models use defaultFieldSizes; Holux-badged units override a subset once
// their vendor separator is observed (§4.8, §3 supplement).
type FieldSizes struct {
	Latitude  int
	Longitude int
	Height    int
	Speed     int
	Heading   int
	Distance  int
}

var defaultFieldSizes = FieldSizes{
	Latitude:  8,
	Longitude: 8,
	Height:    4,
	Speed:     4,
	Heading:   4,
	Distance:  8,
}

// HoluxModel identifies a Holux vendor-separator variant, used to select a
// FieldSizes override. The checksum separator does not depend on it: the
// scanner turns it on for every Holux separator.
type HoluxModel string

const (
	HoluxModelM241FW113 HoluxModel = "0043" // GR241 + trailing spaces
	HoluxModelM241       HoluxModel = "0021" // GR241
	HoluxModelM1200E     HoluxModel = "0000" // GR245 / M1200
)

// holuxModelFieldSizes mirrors original_source/test.py's handling of Holux
// badge variants: same LogFormat bitmask, narrower floating fields on some
// firmware. Values here match the defaults because the original preserves
// IEEE-754 widths for these models too — the override point exists for
// firmware revisions that don't, and is where a future revision-specific
// entry would go.
var holuxModelFieldSizes = map[HoluxModel]FieldSizes{
	HoluxModelM241FW113: defaultFieldSizes,
	HoluxModelM241:       defaultFieldSizes,
	HoluxModelM1200E:     defaultFieldSizes,
}

// FieldSizesFor returns the field-size table for a Holux model, falling
// back to defaultFieldSizes for an unrecognised label (per §4.8: "assume
// 0021").
func FieldSizesFor(model HoluxModel) FieldSizes {
	if sizes, ok := holuxModelFieldSizes[model]; ok {
		return sizes
	}
	return defaultFieldSizes
}

// RCR (record-cause) bits, decoded for downstream GPX <cmt> annotation
// (only RCRButton is load-bearing for trackpoint/waypoint classification).
const (
	RCRTime     uint16 = 1 << 0
	RCRSpeed    uint16 = 1 << 1
	RCRDistance uint16 = 1 << 2
	RCRButton   uint16 = 1 << 3
)

// FixType is the decoded VALID field (original's describe_valid_mtk).
type FixType uint16

const (
	FixNoFix     FixType = 1
	FixSPS       FixType = 2
	FixDGPS      FixType = 3
	FixPPS       FixType = 4
	FixRTK       FixType = 5
	FixFRTK      FixType = 6
	FixEstimated FixType = 7
	FixManual    FixType = 8
	FixSimulator FixType = 9
)

// String names a FixType, for logging and GPX <fix> emission.
func (f FixType) String() string {
	switch f {
	case FixNoFix:
		return "none"
	case FixSPS:
		return "2d"
	case FixDGPS:
		return "dgps"
	case FixPPS:
		return "pps"
	case FixRTK:
		return "rtk"
	case FixFRTK:
		return "frtk"
	case FixEstimated:
		return "estimated"
	case FixManual:
		return "manual"
	case FixSimulator:
		return "simulator"
	default:
		return "unknown"
	}
}
