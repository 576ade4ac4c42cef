package logdecode

import (
	"context"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtklog/btq1300st/internal/constants"
	"github.com/mtklog/btq1300st/internal/protocol"
	"github.com/mtklog/btq1300st/internal/transport"
)

// queueChunkReply queues a PMTK182,8 reply in the documented wire shape
// (spec.md §6: "PMTK182,8,<addr>,<hexdata>"), addr a fake but well-formed
// 8-hex-digit offset, followed by the completion ack.
func queueChunkReply(mt *transport.MockTransport, raw []byte) {
	const addr = 0x00010000
	mt.QueueInbound(protocol.Frame(fmt.Sprintf("PMTK182,8,%08x,%s", addr, hex.EncodeToString(raw))))
	mt.QueueInbound(protocol.Frame("PMTK001,182,7,3"))
}

func TestBytesToRead_StopMode(t *testing.T) {
	n := BytesToRead(constants.ModeStop, 0x12345, "0051")
	assert.Equal(t, int64(0x20000), n) // rounded up to the next 64KiB sector
}

func TestBytesToRead_OverlapMode(t *testing.T) {
	n := BytesToRead(constants.ModeOverlap, 0, "0051")
	assert.Equal(t, constants.FlashSize("0051"), n)
}

func TestMemoryReader_Read_SingleChunk(t *testing.T) {
	mt := transport.NewMockTransport()
	raw := make([]byte, constants.ChunkSize)
	for i := range raw {
		raw[i] = byte(i)
	}
	queueChunkReply(mt, raw)

	sess := protocol.NewSession(mt, nil, nil)
	reader := NewMemoryReader(sess, nil, nil)

	var progressed []int64
	image, err := reader.Read(context.Background(), constants.ChunkSize, func(read, total int64) {
		progressed = append(progressed, read)
	})
	require.NoError(t, err)
	assert.Equal(t, raw, image)
	require.NotEmpty(t, progressed)
	assert.Equal(t, int64(constants.ChunkSize), progressed[len(progressed)-1])
}

func TestMemoryReader_Read_StopsOnUnwrittenSector(t *testing.T) {
	mt := transport.NewMockTransport()
	raw := make([]byte, constants.ChunkSize)
	for i := range raw {
		raw[i] = 0xFF
	}
	queueChunkReply(mt, raw)

	sess := protocol.NewSession(mt, nil, nil)
	reader := NewMemoryReader(sess, nil, nil)

	image, err := reader.Read(context.Background(), constants.ChunkSize*2, nil)
	require.NoError(t, err)
	assert.Empty(t, image)
}

func TestMemoryReader_Read_MultipleChunks(t *testing.T) {
	mt := transport.NewMockTransport()
	raw1 := make([]byte, constants.ChunkSize)
	raw2 := make([]byte, constants.ChunkSize)
	for i := range raw1 {
		raw1[i] = 0x11
	}
	for i := range raw2 {
		raw2[i] = 0x22
	}
	queueChunkReply(mt, raw1)
	queueChunkReply(mt, raw2)

	sess := protocol.NewSession(mt, nil, nil)
	reader := NewMemoryReader(sess, nil, nil)

	image, err := reader.Read(context.Background(), constants.ChunkSize*2, nil)
	require.NoError(t, err)
	require.Len(t, image, constants.ChunkSize*2)
	assert.Equal(t, raw1, image[:constants.ChunkSize])
	assert.Equal(t, raw2, image[constants.ChunkSize:])
}
