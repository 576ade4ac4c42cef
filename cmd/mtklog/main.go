// Command mtklog talks to QStarz/MTK-based GPS track loggers over a serial
// port, downloads their flash log image, and decodes it to GPX/KML.
package main

import (
	"fmt"
	"os"
)

const usage = `mtklog - MTK/PMTK GPS track logger driver

Usage:
  mtklog dump   -port <path> [-speed auto|<n>] -out <file>
  mtklog decode -in <file> [-gpx <file>] [-kml <file>] [-tracks] [-waypoints]
  mtklog info   -port <path> [-speed auto|<n>]

Flags accepted by dump and info:
  -debug <level>   off|error|info|debug (default off)
  -config <path>   defaults to ~/.mtklogrc

  mtklog -v        print version and exit
`

// version is the CLI's reported version string (spec.md §4.11 -v flag).
const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is main's testable core: it never calls os.Exit itself, returning the
// process exit code instead (0 = success, 10 = fatal error, matching the
// original tooling's abort() convention per spec.md §4.11).
func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 10
	}

	if args[0] == "-v" || args[0] == "--version" || args[0] == "version" {
		fmt.Println("mtklog", version)
		return 0
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "dump":
		return runDump(rest)
	case "decode":
		return runDecode(rest)
	case "info":
		return runInfo(rest)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "mtklog: unknown subcommand %q\n\n%s", sub, usage)
		return 10
	}
}
