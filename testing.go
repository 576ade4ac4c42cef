package mtklog

import "github.com/mtklog/btq1300st/internal/transport"

// MockTransport re-exports internal/transport's in-memory Transport test
// double for consumers of this module who want to script a fake device's
// replies without opening a real serial port.
type MockTransport = transport.MockTransport

// NewMockTransport builds an empty MockTransport.
var NewMockTransport = transport.NewMockTransport
