// Package interfaces holds the small interfaces shared between the
// transport, protocol and decoder packages, kept separate from their
// concrete implementations to avoid circular imports.
package interfaces

// Transport is the byte-level contract PmtkSession needs from a serial
// connection. SerialTransport (internal/transport) and MockTransport both
// implement it.
type Transport interface {
	Write(p []byte) (n int, err error)
	ReadAvailable() ([]byte, error)
	Close() error
}

// Logger is the subset of internal/logging.Logger the protocol and decoder
// packages depend on, so they can be driven by a test double without
// importing the concrete logger.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Observer receives I/O and decode metrics. Implementations must be
// thread-safe; PmtkSession and the decoder call these from whatever
// goroutine drives them (today, always the caller's — see CONCURRENCY &
// RESOURCE MODEL).
type Observer interface {
	ObserveChunkRead(bytes uint64, latencyNs uint64, success bool)
	ObserveRecordDecoded(success bool)
	ObserveSectorScanned(latencyNs uint64)
}
