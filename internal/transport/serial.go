// Package transport implements the byte-level serial connection to an MTK
// GPS logger. It owns framing-free read/write only; PacketCodec (in
// internal/protocol) owns PMTK packet assembly.
package transport

import (
	"io"

	"github.com/jacobsa/go-serial/serial"

	"github.com/mtklog/btq1300st/internal/mtkerr"
)

// SerialTransport is a non-blocking byte pipe to a serial device.
//
// "Non-blocking" here means Read returns immediately with whatever bytes
// are currently buffered, never waiting for more to arrive; PmtkSession
// supplies its own poll-and-sleep loop on top (internal/constants.
// PortIdlePollInterval). This matches the teacher's ublk backend, which
// never blocks indefinitely on the kernel control device either.
type SerialTransport struct {
	path string
	port io.ReadWriteCloser
}

// Open opens path at the given baud rate (8N1, no flow control) configured
// for non-blocking reads: a read returns as soon as any bytes are
// available rather than waiting to fill a buffer.
func Open(path string, baud uint) (*SerialTransport, error) {
	options := serial.OpenOptions{
		PortName:              path,
		BaudRate:              baud,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       0,
		InterCharacterTimeout: 50, // ms; bounds how long a Read may block with no bytes at all
	}
	port, err := serial.Open(options)
	if err != nil {
		return nil, mtkerr.NewError("transport.Open", mtkerr.ErrCodeDeviceUnavailable, err.Error())
	}
	return &SerialTransport{path: path, port: port}, nil
}

// Path returns the device path this transport was opened against.
func (t *SerialTransport) Path() string {
	return t.path
}

// Write writes bytes to the port, returning the count actually written.
func (t *SerialTransport) Write(p []byte) (int, error) {
	n, err := t.port.Write(p)
	if err != nil {
		return n, mtkerr.WrapError("transport.Write", err)
	}
	return n, nil
}

// ReadAvailable returns whatever bytes are currently available without
// blocking for more. An empty, non-error result means nothing has arrived
// since the last call.
func (t *SerialTransport) ReadAvailable() ([]byte, error) {
	buf := make([]byte, 4096)
	n, err := t.port.Read(buf)
	if err != nil && err != io.EOF {
		return nil, mtkerr.WrapError("transport.Read", err)
	}
	return buf[:n], nil
}

// Close releases the underlying serial port.
func (t *SerialTransport) Close() error {
	if err := t.port.Close(); err != nil {
		return mtkerr.WrapError("transport.Close", err)
	}
	return nil
}
