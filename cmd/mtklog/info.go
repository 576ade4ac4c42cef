package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mtklog/btq1300st"
	"github.com/mtklog/btq1300st/internal/config"
	"github.com/mtklog/btq1300st/internal/logging"
)

func runInfo(args []string) int {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	port := fs.String("port", "", "serial port path (e.g. /dev/ttyUSB0)")
	speedFlag := fs.String("speed", "auto", "serial speed, or \"auto\" to probe")
	debug := fs.String("debug", "off", "off|error|info|debug")
	configPath := fs.String("config", "", "defaults to ~/.mtklogrc")
	if err := fs.Parse(args); err != nil {
		return 10
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mtklog info: loading config: %v\n", err)
		return 10
	}
	if *port == "" {
		*port = cfg.Port
	}
	if *port == "" {
		fmt.Fprintln(os.Stderr, "mtklog info: -port is required")
		return 10
	}

	speed, err := parseSpeed(*speedFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mtklog info: invalid -speed %q: %v\n", *speedFlag, err)
		return 10
	}
	if speed == 0 {
		speed = cfg.Speed
	}

	logger := logging.NewLogger(&logging.Config{Level: parseDebugLevel(*debug), Output: os.Stderr})

	ctx := context.Background()
	sess, err := mtklog.Open(ctx, *port, &mtklog.Options{Speed: speed, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "mtklog info: open %s: %v\n", *port, err)
		return 10
	}
	defer sess.Close()

	info, err := sess.Identify(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mtklog info: identify: %v\n", err)
		return 10
	}

	fmt.Printf("port:             %s\n", sess.Path())
	fmt.Printf("speed:            %d\n", sess.Speed())
	fmt.Printf("firmware version: %s\n", info.FirmwareVersion)
	fmt.Printf("release:          %s\n", info.ReleaseString)
	fmt.Printf("model id:         %s\n", info.ModelID)
	fmt.Printf("log format:       %#010x\n", info.LogFormat)
	fmt.Printf("mode:             %d\n", info.Mode)
	fmt.Printf("next write addr:  %#010x\n", info.NextWriteAddr)
	fmt.Printf("record count:     %d\n", info.RecordCount)
	return 0
}
