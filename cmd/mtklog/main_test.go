package main

import "testing"

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	if code := run(nil); code != 10 {
		t.Errorf("expected exit code 10 for no args, got %d", code)
	}
}

func TestRun_Version(t *testing.T) {
	if code := run([]string{"-v"}); code != 0 {
		t.Errorf("expected exit code 0 for -v, got %d", code)
	}
}

func TestRun_Help(t *testing.T) {
	if code := run([]string{"help"}); code != 0 {
		t.Errorf("expected exit code 0 for help, got %d", code)
	}
}

func TestRun_UnknownSubcommand(t *testing.T) {
	if code := run([]string{"frobnicate"}); code != 10 {
		t.Errorf("expected exit code 10 for an unknown subcommand, got %d", code)
	}
}

func TestRun_DumpMissingPort(t *testing.T) {
	if code := run([]string{"dump", "-out", "/tmp/whatever.bin"}); code != 10 {
		t.Errorf("expected exit code 10 when -port is missing, got %d", code)
	}
}

func TestRun_DecodeMissingIn(t *testing.T) {
	if code := run([]string{"decode", "-gpx", "/tmp/whatever.gpx"}); code != 10 {
		t.Errorf("expected exit code 10 when -in is missing, got %d", code)
	}
}

func TestRun_DecodeMissingOutputFormat(t *testing.T) {
	if code := run([]string{"decode", "-in", "/tmp/whatever.bin"}); code != 10 {
		t.Errorf("expected exit code 10 when neither -gpx nor -kml is given, got %d", code)
	}
}

func TestRun_InfoMissingPort(t *testing.T) {
	if code := run([]string{"info"}); code != 10 {
		t.Errorf("expected exit code 10 when -port is missing, got %d", code)
	}
}
