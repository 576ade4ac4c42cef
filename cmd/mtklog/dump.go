package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mtklog/btq1300st"
	"github.com/mtklog/btq1300st/internal/config"
	"github.com/mtklog/btq1300st/internal/dumpmeta"
	"github.com/mtklog/btq1300st/internal/logging"
)

func runDump(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	port := fs.String("port", "", "serial port path (e.g. /dev/ttyUSB0)")
	speedFlag := fs.String("speed", "auto", "serial speed, or \"auto\" to probe")
	out := fs.String("out", "", "output file for the raw flash dump")
	debug := fs.String("debug", "off", "off|error|info|debug")
	configPath := fs.String("config", "", "defaults to ~/.mtklogrc")
	if err := fs.Parse(args); err != nil {
		return 10
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mtklog dump: loading config: %v\n", err)
		return 10
	}
	if *port == "" {
		*port = cfg.Port
	}
	if *port == "" {
		fmt.Fprintln(os.Stderr, "mtklog dump: -port is required")
		return 10
	}
	if *out == "" {
		fmt.Fprintln(os.Stderr, "mtklog dump: -out is required")
		return 10
	}

	speed, err := parseSpeed(*speedFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mtklog dump: invalid -speed %q: %v\n", *speedFlag, err)
		return 10
	}
	if speed == 0 {
		speed = cfg.Speed
	}

	logger := logging.NewLogger(&logging.Config{Level: parseDebugLevel(*debug), Output: os.Stderr})

	ctx := context.Background()
	sess, err := mtklog.Open(ctx, *port, &mtklog.Options{Speed: speed, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "mtklog dump: open %s: %v\n", *port, err)
		return 10
	}
	defer sess.Close()

	logger.Infof("connected to %s at %d baud", sess.Path(), sess.Speed())

	info, err := sess.Identify(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mtklog dump: identify: %v\n", err)
		return 10
	}
	logger.Infof("model %s, format %#x, mode %d, %d records", info.ModelID, info.LogFormat, info.Mode, info.RecordCount)

	progress := func(bytesRead, bytesExpected int64) {
		logger.Debugf("downloaded %d/%d bytes", bytesRead, bytesExpected)
	}
	image, err := sess.Download(ctx, info, progress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mtklog dump: download: %v\n", err)
		return 10
	}

	if err := os.WriteFile(*out, image, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "mtklog dump: writing %s: %v\n", *out, err)
		return 10
	}

	meta := dumpmeta.Meta{
		LogFormat:     info.LogFormat,
		Mode:          info.Mode,
		NextWriteAddr: info.NextWriteAddr,
		RecordCount:   info.RecordCount,
		ModelID:       info.ModelID,
	}
	if err := dumpmeta.Write(*out, meta); err != nil {
		fmt.Fprintf(os.Stderr, "mtklog dump: writing sidecar metadata: %v\n", err)
		return 10
	}

	fmt.Printf("wrote %d bytes to %s (%d records)\n", len(image), *out, info.RecordCount)
	return 0
}
