package logdecode

import (
	"strings"

	"github.com/mtklog/btq1300st/internal/constants"
	"github.com/mtklog/btq1300st/internal/wire"
)

// SeparatorKind classifies a 16-byte window peeked before a record
// (spec.md §4.8).
type SeparatorKind int

const (
	SeparatorNone SeparatorKind = iota
	SeparatorRecord
	SeparatorNonWritten
	SeparatorHolux
)

// Classification is the result of peeking a window for a separator.
type Classification struct {
	Kind           SeparatorKind
	RecordSep      wire.RecordSeparator
	HoluxLabel     string
	HoluxModel     HoluxModel
	ForcedWaypoint bool
	ConsumedBytes  int
}

// Classify inspects the start of buf (which must be at least
// wire.RecordSeparatorSize long) and reports what kind of separator, if
// any, begins there. buf may be longer than 16 bytes; Classify uses a
// further 4 bytes, when available, to distinguish the Holux "fw 1.13"
// trailing-spaces variant.
func Classify(buf []byte) Classification {
	if len(buf) < wire.RecordSeparatorSize {
		return Classification{Kind: SeparatorNone}
	}
	if wire.IsNonWritten(buf) {
		return Classification{Kind: SeparatorNonWritten, ConsumedBytes: wire.RecordSeparatorSize}
	}
	if sep, ok := wire.ParseRecordSeparator(buf); ok {
		return Classification{Kind: SeparatorRecord, RecordSep: sep, ConsumedBytes: wire.RecordSeparatorSize}
	}
	if wire.IsHolux(buf) {
		return classifyHolux(buf)
	}
	return Classification{Kind: SeparatorNone}
}

func classifyHolux(buf []byte) Classification {
	label := strings.TrimRight(string(buf[:wire.RecordSeparatorSize]), "\x00 ")
	model, consumed := holuxModel(buf)
	return Classification{
		Kind:           SeparatorHolux,
		HoluxLabel:     label,
		HoluxModel:     model,
		ForcedWaypoint: strings.Contains(label, "WAYPNT"),
		ConsumedBytes:  consumed,
	}
}

// holuxModel maps a Holux vendor label to a model ID and the number of
// bytes the separator actually occupies, per original_source/test.py:
// GR241 + 4 trailing spaces => M-241 fw1.13 (0043, 20-byte separator);
// GR241 alone => M-241 (0021); GR245/M1200 => M-1200E/GPSport245 (0000);
// anything else unrecognised defaults to 0021.
func holuxModel(buf []byte) (HoluxModel, int) {
	label := string(buf[:wire.RecordSeparatorSize])
	switch {
	case strings.Contains(label, "GR241"):
		peekEnd := wire.RecordSeparatorSize + constants.HoluxTrailingSpaces
		if len(buf) >= peekEnd && isAllSpaces(buf[wire.RecordSeparatorSize:peekEnd]) {
			return HoluxModelM241FW113, peekEnd
		}
		return HoluxModelM241, wire.RecordSeparatorSize
	case strings.Contains(label, "GR245"), strings.Contains(label, "M1200"):
		return HoluxModelM1200E, wire.RecordSeparatorSize
	default:
		return HoluxModelM241, wire.RecordSeparatorSize
	}
}

func isAllSpaces(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}
	return true
}
