package protocol

import (
	"context"
	"strings"
	"time"

	"github.com/mtklog/btq1300st/internal/constants"
	"github.com/mtklog/btq1300st/internal/interfaces"
	"github.com/mtklog/btq1300st/internal/mtkerr"
)

// PmtkSession serialises command/reply exchanges over a Transport. One
// PmtkSession owns one Transport exclusively; it is not safe to share
// across concurrent callers (spec.md §5: single-threaded cooperative
// model, no locks required because there is only ever one in-flight
// exchange).
type PmtkSession struct {
	transport interfaces.Transport
	acc       Accumulator
	logger    interfaces.Logger
	observer  interfaces.Observer
}

// NewSession wraps transport in a PmtkSession. logger and observer may be
// nil; a nil logger/observer is a silent no-op, not a panic.
func NewSession(t interfaces.Transport, logger interfaces.Logger, observer interfaces.Observer) *PmtkSession {
	return &PmtkSession{transport: t, logger: logger, observer: observer}
}

// Send frames command and writes it to the transport.
func (s *PmtkSession) Send(command string) error {
	packet := Frame(command)
	if s.logger != nil {
		s.logger.Debugf("pmtk send %q", command)
	}
	if _, err := s.transport.Write(packet); err != nil {
		return mtkerr.WrapError("session.Send", err)
	}
	return nil
}

// Await reads frames from the transport until one whose payload starts
// with prefix arrives, or timeout elapses. Frames that don't match prefix
// are discarded: per spec.md §4.3, each reply's prefix uniquely identifies
// the command class, so anything else arriving during an Await is a stale
// reply or unrelated notification.
//
// A deframed-but-checksum-mismatched packet matching prefix is still
// returned (with a non-nil error wrapping ErrCodeChecksumMismatch) so the
// caller can decide whether to trust it; callers that only want clean
// replies should check the returned error.
func (s *PmtkSession) Await(ctx context.Context, prefix string, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)

	for {
		for {
			payload, err, ok := s.acc.Next()
			if !ok {
				break
			}
			if !strings.HasPrefix(payload, prefix) {
				if s.logger != nil {
					s.logger.Debugf("pmtk discard unmatched reply %q (want prefix %q)", payload, prefix)
				}
				continue
			}
			if err != nil {
				return payload, mtkerr.WrapError("session.Await", err)
			}
			return payload, nil
		}

		if err := ctx.Err(); err != nil {
			return "", mtkerr.WrapError("session.Await", err)
		}
		if time.Now().After(deadline) {
			return "", mtkerr.NewError("session.Await", mtkerr.ErrCodeTimedOut, "no reply with prefix "+prefix)
		}

		chunk, err := s.transport.ReadAvailable()
		if err != nil {
			return "", mtkerr.WrapError("session.Await", err)
		}
		if len(chunk) == 0 {
			select {
			case <-ctx.Done():
				return "", mtkerr.WrapError("session.Await", ctx.Err())
			case <-time.After(constants.PortIdlePollInterval):
			}
			continue
		}
		s.acc.Feed(chunk)
	}
}

// Exchange is a convenience wrapper: send command, then await a reply
// matching replyPrefix within timeout.
func (s *PmtkSession) Exchange(ctx context.Context, command, replyPrefix string, timeout time.Duration) (string, error) {
	if err := s.Send(command); err != nil {
		return "", err
	}
	return s.Await(ctx, replyPrefix, timeout)
}

// Close releases the underlying transport.
func (s *PmtkSession) Close() error {
	return s.transport.Close()
}
