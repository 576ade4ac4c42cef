package protocol

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/mtklog/btq1300st/internal/constants"
	"github.com/mtklog/btq1300st/internal/mtkerr"
)

// DeviceInfo is the result of the identity query sequence that follows a
// successful handshake (spec.md §4.4).
type DeviceInfo struct {
	FirmwareVersion string
	ReleaseString   string
	ModelID         string
	LogFormat       uint32
	Mode            int
	NextWriteAddr   uint32
	RecordCount     uint32
}

// Handshake sends PMTK000 and awaits PMTK001,0, within timeout, reporting
// whether this speed got a reply at all. A timeout is not an error here —
// it's exactly how Probe tells "wrong baud rate" from "device problem".
func Handshake(ctx context.Context, s *PmtkSession, timeout time.Duration) (bool, error) {
	_, err := s.Exchange(ctx, "PMTK000", "PMTK001,0,", timeout)
	if err == nil {
		return true, nil
	}
	if mtkerr.IsCode(err, mtkerr.ErrCodeTimedOut) {
		return false, nil
	}
	return false, err
}

// Identify runs the post-handshake identity query sequence (spec.md §4.4
// steps 1-6) and returns the decoded DeviceInfo.
func Identify(ctx context.Context, s *PmtkSession, timeout time.Duration) (DeviceInfo, error) {
	var info DeviceInfo

	fw, err := s.Exchange(ctx, "PMTK604", "PMTK001,604,", timeout)
	if err != nil {
		return info, mtkerr.WrapError("probe.Identify", err)
	}
	info.FirmwareVersion = field(fw, 2)

	rel, err := s.Exchange(ctx, "PMTK605", "PMTK705,", timeout)
	if err != nil {
		return info, mtkerr.WrapError("probe.Identify", err)
	}
	info.ReleaseString = field(rel, 1)
	info.ModelID = field(rel, 2)

	fmtReply, err := s.Exchange(ctx, "PMTK182,2,2", "PMTK182,3,2,", timeout)
	if err != nil {
		return info, mtkerr.WrapError("probe.Identify", err)
	}
	info.LogFormat = parseHexField(fmtReply, 3, 32)

	modeReply, err := s.Exchange(ctx, "PMTK182,2,6", "PMTK182,3,6,", timeout)
	if err != nil {
		return info, mtkerr.WrapError("probe.Identify", err)
	}
	info.Mode = int(parseHexField(modeReply, 3, 8))

	addrReply, err := s.Exchange(ctx, "PMTK182,2,8", "PMTK182,3,8,", timeout)
	if err != nil {
		return info, mtkerr.WrapError("probe.Identify", err)
	}
	info.NextWriteAddr = parseHexField(addrReply, 3, 32)

	countReply, err := s.Exchange(ctx, "PMTK182,2,10", "PMTK182,3,10,", timeout)
	if err != nil {
		return info, mtkerr.WrapError("probe.Identify", err)
	}
	info.RecordCount = parseHexField(countReply, 3, 32)

	return info, nil
}

// field returns the i'th (0-indexed) comma-separated field of a PMTK
// payload, or "" if there aren't that many fields.
func field(payload string, i int) string {
	parts := strings.Split(payload, ",")
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

// parseHexField parses the i'th field as hexadecimal, returning 0 on a
// malformed or missing field — callers that need to distinguish "absent"
// from "zero" should call field directly.
func parseHexField(payload string, i int, bits int) uint32 {
	v, err := strconv.ParseUint(strings.TrimSpace(field(payload, i)), 16, bits)
	if err != nil {
		return 0
	}
	return uint32(v)
}

// SpeedLadder is the probe speed order (spec.md §4.4), re-exported here so
// callers don't need to reach into internal/constants directly.
var SpeedLadder = constants.ProbeSpeeds

// OpenSessionFunc opens a PmtkSession at a given baud rate for a candidate
// port path. internal/transport.Open adapted to this signature is the
// production implementation; tests inject one backed by MockTransport.
type OpenSessionFunc func(path string, baud int) (*PmtkSession, error)

// ProbeSpeed tries each of speeds (ascending) against open, keeping the
// highest one that completes a handshake — spec.md §4.4: "the highest at
// which the probe succeeds wins", so every candidate speed is tried even
// after an earlier one already succeeded. Callers normally pass
// SpeedLadder; tests pass a shorter list.
func ProbeSpeed(ctx context.Context, path string, open OpenSessionFunc, speeds []int, timeout time.Duration) (int, error) {
	best := 0
	var lastErr error

	for _, speed := range speeds {
		sess, err := open(path, speed)
		if err != nil {
			lastErr = err
			continue
		}
		ok, err := Handshake(ctx, sess, timeout)
		sess.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if ok {
			best = speed
		}
	}

	if best == 0 {
		if lastErr != nil {
			return 0, mtkerr.WrapError("probe.ProbeSpeed", lastErr)
		}
		return 0, mtkerr.NewError("probe.ProbeSpeed", mtkerr.ErrCodeDeviceUnavailable, "no speed acknowledged PMTK000")
	}
	return best, nil
}
