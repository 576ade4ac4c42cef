package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "" || cfg.Speed != 0 || cfg.OutputDir != "" {
		t.Errorf("expected zero-value config, got %+v", cfg)
	}
}

func TestLoad_ParsesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mtklogrc")
	body := "port: /dev/ttyUSB0\nspeed: 115200\noutput_dir: /tmp/tracks\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "/dev/ttyUSB0" {
		t.Errorf("expected port /dev/ttyUSB0, got %q", cfg.Port)
	}
	if cfg.Speed != 115200 {
		t.Errorf("expected speed 115200, got %d", cfg.Speed)
	}
	if cfg.OutputDir != "/tmp/tracks" {
		t.Errorf("expected output_dir /tmp/tracks, got %q", cfg.OutputDir)
	}
}

func TestLoad_PartialFieldsLeaveRestZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mtklogrc")
	if err := os.WriteFile(path, []byte("port: /dev/ttyACM0\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "/dev/ttyACM0" {
		t.Errorf("expected port /dev/ttyACM0, got %q", cfg.Port)
	}
	if cfg.Speed != 0 {
		t.Errorf("expected speed 0, got %d", cfg.Speed)
	}
}

func TestLoad_MalformedYAMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mtklogrc")
	if err := os.WriteFile(path, []byte("port: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestDefaultPath_EndsInMtklogrc(t *testing.T) {
	path := DefaultPath()
	if path == "" {
		t.Skip("no $HOME in this environment")
	}
	if filepath.Base(path) != ".mtklogrc" {
		t.Errorf("expected path to end in .mtklogrc, got %q", path)
	}
}
