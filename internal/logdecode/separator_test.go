package logdecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtklog/btq1300st/internal/wire"
)

func holuxLabel(label string) []byte {
	buf := make([]byte, wire.RecordSeparatorSize)
	copy(buf, label)
	for i := len(label); i < len(buf); i++ {
		buf[i] = 0x00
	}
	return buf
}

func TestClassify_RecordSeparator(t *testing.T) {
	sep := wire.RecordSeparator{Type: wire.SepTypeChangeLogBitmask, Arg: 0x0007ffff}
	buf := wire.MarshalRecordSeparator(sep)

	cls := Classify(buf)
	require.Equal(t, SeparatorRecord, cls.Kind)
	assert.Equal(t, wire.SepTypeChangeLogBitmask, cls.RecordSep.Type)
	assert.Equal(t, uint32(0x0007ffff), cls.RecordSep.Arg)
	assert.Equal(t, wire.RecordSeparatorSize, cls.ConsumedBytes)
}

func TestClassify_NonWritten(t *testing.T) {
	buf := make([]byte, wire.RecordSeparatorSize)
	for i := range buf {
		buf[i] = 0xFF
	}
	cls := Classify(buf)
	assert.Equal(t, SeparatorNonWritten, cls.Kind)
	assert.Equal(t, wire.RecordSeparatorSize, cls.ConsumedBytes)
}

func TestClassify_HoluxGR241(t *testing.T) {
	buf := holuxLabel("HOLUX GR241")
	cls := Classify(buf)
	require.Equal(t, SeparatorHolux, cls.Kind)
	assert.Equal(t, HoluxModelM241, cls.HoluxModel)
	assert.Equal(t, wire.RecordSeparatorSize, cls.ConsumedBytes)
	assert.False(t, cls.ForcedWaypoint)
}

func TestClassify_HoluxGR241TrailingSpaces(t *testing.T) {
	label := holuxLabel("HOLUX GR241")
	trailing := []byte("    ") // 4 trailing spaces => fw 1.13 variant
	buf := append(label, trailing...)

	cls := Classify(buf)
	require.Equal(t, SeparatorHolux, cls.Kind)
	assert.Equal(t, HoluxModelM241FW113, cls.HoluxModel)
	assert.Equal(t, wire.RecordSeparatorSize+4, cls.ConsumedBytes)
}

func TestClassify_HoluxM1200(t *testing.T) {
	buf := holuxLabel("HOLUX GR245")
	cls := Classify(buf)
	require.Equal(t, SeparatorHolux, cls.Kind)
	assert.Equal(t, HoluxModelM1200E, cls.HoluxModel)
}

func TestClassify_HoluxWaypointLabel(t *testing.T) {
	buf := holuxLabel("HOLUX WAYPNT")
	cls := Classify(buf)
	require.Equal(t, SeparatorHolux, cls.Kind)
	assert.True(t, cls.ForcedWaypoint)
}

func TestClassify_None(t *testing.T) {
	buf := make([]byte, wire.RecordSeparatorSize)
	copy(buf, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	cls := Classify(buf)
	assert.Equal(t, SeparatorNone, cls.Kind)
}

func TestClassify_ShortBuffer(t *testing.T) {
	cls := Classify(make([]byte, 4))
	assert.Equal(t, SeparatorNone, cls.Kind)
}
