package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectorHeader_RoundTrip(t *testing.T) {
	h := SectorHeader{
		Count:    5,
		Format:   0x0007ffff,
		Mode:     2,
		Period:   10,
		Distance: 0,
		Speed:    0,
	}
	h.Separator = ExpectedSeparator
	h.Tail = ExpectedTail

	buf := MarshalSectorHeader(h)
	require.Len(t, buf, SectorHeaderSize)

	got, err := UnmarshalSectorHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h.Count, got.Count)
	assert.Equal(t, h.Format, got.Format)
	assert.Equal(t, h.Mode, got.Mode)
	assert.True(t, got.Valid())
}

func TestSectorHeader_InvalidTail(t *testing.T) {
	h := SectorHeader{Separator: ExpectedSeparator}
	buf := MarshalSectorHeader(h)
	got, err := UnmarshalSectorHeader(buf)
	require.NoError(t, err)
	assert.False(t, got.Valid())
}

func TestSectorHeader_WritingSector(t *testing.T) {
	h := SectorHeader{Count: WritingSectorCount}
	assert.True(t, h.IsWritingSector())
}

func TestUnmarshalSectorHeader_ShortBuffer(t *testing.T) {
	_, err := UnmarshalSectorHeader(make([]byte, 10))
	assert.Equal(t, ErrShortBuffer, err)
}

func TestRecordSeparator_RoundTrip(t *testing.T) {
	sep := RecordSeparator{Type: SepTypeChangeLogBitmask, Arg: 0x0007ffff}
	buf := MarshalRecordSeparator(sep)
	require.Len(t, buf, RecordSeparatorSize)

	got, ok := ParseRecordSeparator(buf)
	require.True(t, ok)
	assert.Equal(t, sep.Type, got.Type)
	assert.Equal(t, sep.Arg, got.Arg)
}

func TestParseRecordSeparator_RejectsNonMatchingMagic(t *testing.T) {
	buf := make([]byte, RecordSeparatorSize)
	_, ok := ParseRecordSeparator(buf)
	assert.False(t, ok)
}

func TestIsNonWritten(t *testing.T) {
	buf := make([]byte, RecordSeparatorSize)
	for i := range buf {
		buf[i] = 0xFF
	}
	assert.True(t, IsNonWritten(buf))

	buf[5] = 0x00
	assert.False(t, IsNonWritten(buf))
}

func TestIsHolux(t *testing.T) {
	assert.True(t, IsHolux([]byte("HOLUX GR241    ")))
	assert.False(t, IsHolux([]byte("not a holux lbl")))
}
