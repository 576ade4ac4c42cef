package mtklog

import (
	"context"

	"github.com/mtklog/btq1300st/internal/constants"
	"github.com/mtklog/btq1300st/internal/interfaces"
	"github.com/mtklog/btq1300st/internal/logdecode"
	"github.com/mtklog/btq1300st/internal/mtkerr"
	"github.com/mtklog/btq1300st/internal/protocol"
	"github.com/mtklog/btq1300st/internal/transport"
)

// Options configures Open. A nil Options, or a nil field within one, uses
// the documented default.
type Options struct {
	// Context is not read by Open: the session's context is derived from
	// Open's ctx argument, and Close cancels it.
	Context context.Context

	// Logger receives debug/info/warn/error messages. Nil means silent.
	Logger interfaces.Logger

	// Observer receives chunk/record/sector metrics. Nil means no
	// observations are made.
	Observer interfaces.Observer

	// Speed pins the serial speed, skipping autobaud probing. Zero
	// triggers ProbeSpeed against constants.ProbeSpeeds.
	Speed int
}

// Session is an open PMTK session against one serial port: a handshake-
// negotiated serial connection that can be queried for device identity
// and used to download the flash log image (spec.md §4.3-§4.5).
type Session struct {
	path     string
	speed    int
	port     *transport.SerialTransport
	proto    *protocol.PmtkSession
	logger   interfaces.Logger
	observer interfaces.Observer
	ctx      context.Context
	cancel   context.CancelFunc
}

// Open connects to the logger at path, probing for its serial speed
// unless options.Speed pins one, and returns a ready-to-use Session.
//
// Example:
//
//	sess, err := mtklog.Open(context.Background(), "/dev/ttyUSB0", nil)
func Open(ctx context.Context, path string, options *Options) (*Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if options == nil {
		options = &Options{}
	}

	speed := options.Speed
	if speed == 0 {
		opener := func(candidatePath string, baud int) (*protocol.PmtkSession, error) {
			port, err := transport.Open(candidatePath, uint(baud))
			if err != nil {
				return nil, err
			}
			return protocol.NewSession(port, options.Logger, options.Observer), nil
		}
		chosen, err := protocol.ProbeSpeed(ctx, path, opener, constants.ProbeSpeeds, constants.DefaultAwaitTimeout)
		if err != nil {
			return nil, mtkerr.WrapError("Open", err)
		}
		speed = chosen
	}

	port, err := transport.Open(path, uint(speed))
	if err != nil {
		return nil, mtkerr.WrapError("Open", err)
	}
	proto := protocol.NewSession(port, options.Logger, options.Observer)

	sessCtx, cancel := context.WithCancel(ctx)
	return &Session{
		path:     path,
		speed:    speed,
		port:     port,
		proto:    proto,
		logger:   options.Logger,
		observer: options.Observer,
		ctx:      sessCtx,
		cancel:   cancel,
	}, nil
}

// Path returns the serial device path this session is connected to.
func (s *Session) Path() string { return s.path }

// Speed returns the negotiated (or pinned) serial speed.
func (s *Session) Speed() int { return s.speed }

// Identify queries the logger's firmware version, model, log format,
// recording mode, next-write address and total record count (spec.md
// §4.4 identity query sequence).
func (s *Session) Identify(ctx context.Context) (protocol.DeviceInfo, error) {
	return protocol.Identify(ctx, s.proto, constants.DefaultAwaitTimeout)
}

// Download reads the flash range appropriate to info's recording mode
// into memory, reporting progress via progress if non-nil (spec.md §4.5).
func (s *Session) Download(ctx context.Context, info protocol.DeviceInfo, progress logdecode.ProgressFunc) ([]byte, error) {
	bytesToRead := logdecode.BytesToRead(info.Mode, info.NextWriteAddr, info.ModelID)
	reader := logdecode.NewMemoryReader(s.proto, s.logger, s.observer)
	return reader.Read(ctx, bytesToRead, progress)
}

// Scan walks a downloaded image, invoking emit for each decoded record,
// under the format/record-count info reports and the given recovery
// policy (spec.md §4.6-§4.9).
func (s *Session) Scan(image []byte, info protocol.DeviceInfo, policy logdecode.DecodePolicy, emit func(logdecode.Emitted)) error {
	scanner := logdecode.NewSectorScanner(image, info.RecordCount, logdecode.LogFormat(info.LogFormat), policy, s.logger, s.observer)
	return scanner.Scan(emit)
}

// Close releases the underlying serial port and cancels the session's
// context.
func (s *Session) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.proto.Close()
}
