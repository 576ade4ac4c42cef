package logdecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtklog/btq1300st/internal/constants"
	"github.com/mtklog/btq1300st/internal/wire"
)

func buildOneSectorImage(t *testing.T, format LogFormat, records [][]byte) []byte {
	t.Helper()
	image := make([]byte, constants.SectorSize)

	header := wire.SectorHeader{
		Count:     uint16(len(records)),
		Format:    uint32(format),
		Mode:      constants.ModeStop,
		Separator: wire.ExpectedSeparator,
		Tail:      wire.ExpectedTail,
	}
	copy(image[:wire.SectorHeaderSize], wire.MarshalSectorHeader(header))

	pos := wire.SectorHeaderSize
	for _, rec := range records {
		copy(image[pos:pos+len(rec)], rec)
		pos += len(rec)
	}
	return image
}

func TestSectorScanner_TrackpointAndWaypoint(t *testing.T) {
	format := FieldUTC | FieldValid | FieldRCR
	rec1 := buildRecordBytes(u32(100), u16(uint16(FixSPS)), u16(RCRTime))
	rec2 := buildRecordBytes(u32(200), u16(uint16(FixSPS)), u16(RCRButton))
	image := buildOneSectorImage(t, format, [][]byte{rec1, rec2})

	scanner := NewSectorScanner(image, 2, format, DecodePolicyStrict, nil, nil)
	var got []Emitted
	err := scanner.Scan(func(e Emitted) { got = append(got, e) })
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, EmittedTrackpoint, got[0].Kind)
	assert.True(t, got[0].SegmentBreak)
	assert.Equal(t, uint32(100), got[0].Record.UTC)

	assert.Equal(t, EmittedWaypoint, got[1].Kind)
	assert.Equal(t, uint32(200), got[1].Record.UTC)
}

func TestSectorScanner_DroppedOnNoFix(t *testing.T) {
	format := FieldUTC | FieldValid
	rec := buildRecordBytes(u32(1), u16(uint16(FixNoFix)))
	image := buildOneSectorImage(t, format, [][]byte{rec})

	scanner := NewSectorScanner(image, 1, format, DecodePolicyStrict, nil, nil)
	var got []Emitted
	err := scanner.Scan(func(e Emitted) { got = append(got, e) })
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, EmittedDropped, got[0].Kind)
}

func TestSectorScanner_LenientSkipsChecksumMismatch(t *testing.T) {
	format := FieldUTC | FieldValid
	good := buildRecordBytes(u32(1), u16(uint16(FixSPS)))
	bad := buildRecordBytes(u32(2), u16(uint16(FixSPS)))
	bad[len(bad)-1] ^= 0xFF
	image := buildOneSectorImage(t, format, [][]byte{bad, good})

	scanner := NewSectorScanner(image, 2, format, DecodePolicyLenient, nil, nil)
	var got []Emitted
	err := scanner.Scan(func(e Emitted) { got = append(got, e) })
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint32(1), got[0].Record.UTC)
}

func TestSectorScanner_StrictAbortsOnChecksumMismatch(t *testing.T) {
	format := FieldUTC | FieldValid
	bad := buildRecordBytes(u32(2), u16(uint16(FixSPS)))
	bad[len(bad)-1] ^= 0xFF
	image := buildOneSectorImage(t, format, [][]byte{bad})

	scanner := NewSectorScanner(image, 1, format, DecodePolicyStrict, nil, nil)
	err := scanner.Scan(func(e Emitted) {})
	assert.Error(t, err)
}

func TestSectorScanner_InvalidHeaderErrors(t *testing.T) {
	image := make([]byte, constants.SectorSize) // all zero, no valid tail/separator
	scanner := NewSectorScanner(image, 1, 0, DecodePolicyStrict, nil, nil)
	err := scanner.Scan(func(e Emitted) {})
	assert.Error(t, err)
}

func TestSectorScanner_RecordSeparatorChangesFormat(t *testing.T) {
	initialFormat := FieldUTC
	newFormat := FieldUTC | FieldValid
	sep := wire.MarshalRecordSeparator(wire.RecordSeparator{
		Type: wire.SepTypeChangeLogBitmask,
		Arg:  uint32(newFormat),
	})
	rec := buildRecordBytes(u32(5), u16(uint16(FixSPS)))
	image := buildOneSectorImage(t, initialFormat, [][]byte{append(sep, rec...)})

	// The separator isn't a record: the header is rewritten to declare the
	// single record laid out after it.
	header := wire.SectorHeader{
		Count:     1,
		Format:    uint32(initialFormat),
		Mode:      constants.ModeStop,
		Separator: wire.ExpectedSeparator,
		Tail:      wire.ExpectedTail,
	}
	copy(image[:wire.SectorHeaderSize], wire.MarshalSectorHeader(header))

	scanner := NewSectorScanner(image, 1, initialFormat, DecodePolicyStrict, nil, nil)
	var got []Emitted
	err := scanner.Scan(func(e Emitted) { got = append(got, e) })
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint32(5), got[0].Record.UTC)
}
