// Package protocol implements the PMTK command/response session: packet
// framing (codec.go), the send/await exchange (session.go) and the
// autobaud/identity handshake (probe.go).
package protocol

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/mtklog/btq1300st/internal/mtkerr"
)

// Frame wraps payload as a PMTK packet: "$PAYLOAD*HH\r\n", where HH is the
// lowercase hex of the XOR of every byte of payload.
func Frame(payload string) []byte {
	sum := xorChecksum(payload)
	return []byte(fmt.Sprintf("$%s*%02x\r\n", payload, sum))
}

func xorChecksum(payload string) byte {
	var sum byte
	for i := 0; i < len(payload); i++ {
		sum ^= payload[i]
	}
	return sum
}

// Accumulator reassembles PMTK packets out of a stream of arbitrarily-sized
// reads. Feed appends newly read bytes; Next extracts the oldest complete
// packet, if any, leaving any trailing partial frame buffered for the next
// call.
type Accumulator struct {
	buf []byte
}

// Feed appends newly read bytes to the accumulator.
func (a *Accumulator) Feed(p []byte) {
	a.buf = append(a.buf, p...)
}

// Next extracts the oldest complete line-terminated packet from the
// buffer, if one is present. ok is false when no full frame has arrived
// yet; the caller should read more bytes and try again. A malformed but
// complete frame (bad '$'/'*' structure) is reported via err with ok true,
// since the line has already been consumed from the buffer.
//
// A checksum mismatch is reported via err but the payload is still
// returned (non-fatal per spec.md §7: the packet is still delivered, the
// caller decides whether to use it).
func (a *Accumulator) Next() (payload string, err error, ok bool) {
	idx := bytes.IndexByte(a.buf, '\n')
	if idx < 0 {
		return "", nil, false
	}
	line := a.buf[:idx+1]
	a.buf = a.buf[idx+1:]
	return parseLine(line)
}

func parseLine(line []byte) (payload string, err error, ok bool) {
	dollar := bytes.IndexByte(line, '$')
	star := bytes.LastIndexByte(line, '*')
	if dollar < 0 || star < 0 || star < dollar+1 || star+3 > len(line) {
		return "", mtkerr.NewError("codec.Deframe", mtkerr.ErrCodeIOFailed, "malformed packet: "+strconv.Quote(string(line))), true
	}

	payload = string(line[dollar+1 : star])
	want64, hexErr := strconv.ParseUint(string(line[star+1:star+3]), 16, 8)
	if hexErr != nil {
		return payload, mtkerr.NewError("codec.Deframe", mtkerr.ErrCodeIOFailed, "malformed checksum: "+hexErr.Error()), true
	}

	got := xorChecksum(payload)
	if byte(want64) != got {
		return payload, mtkerr.NewError("codec.Deframe", mtkerr.ErrCodeChecksumMismatch,
			fmt.Sprintf("packet checksum mismatch: want %02x got %02x", want64, got)), true
	}
	return payload, nil, true
}
