// Command wbtool inspects and exports whiteboard session files without a
// window.
package main

import (
	"fmt"
	"io"
	"os"

	"DigitalWhiteboard/internal/logging"
)

const usage = `usage:
  wbtool dump FILE.wb
  wbtool export [-format png|pdf] [-out DIR] [-width W] [-height H] FILE.wb...
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	level := logging.ParseLevel(os.Getenv("WBTOOL_LOG"))

	var err error
	switch args[0] {
	case "dump":
		logger := logging.New(stderr, true, level)
		err = runDump(args[1:], stdout, logger)
	case "export":
		logger := logging.New(stderr, false, level)
		err = runExport(args[1:], stdout, logger)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "wbtool: unknown command %q\n%s", args[0], usage)
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "wbtool %s: %v\n", args[0], err)
		return 1
	}
	return 0
}
