package dumpmeta

import (
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "track.bin")
	want := Meta{LogFormat: 0x03, Mode: 1, NextWriteAddr: 0x12345, RecordCount: 42, ModelID: "0051"}

	if err := Write(dumpPath, want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(dumpPath)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSidecarPath(t *testing.T) {
	if got, want := SidecarPath("/tmp/track.bin"), "/tmp/track.bin.meta.yaml"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRead_MissingFileErrors(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.bin")); err == nil {
		t.Error("expected an error reading a missing sidecar")
	}
}
