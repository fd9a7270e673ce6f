// Package luitlog implements luit's three diagnostic message levels
// (verbose, warning, fatal), grounded on _examples/original_source/
// luit.c's Message/Warning/FatalError. No logging library appears
// anywhere in the example pack, so this stays a thin wrapper over the
// standard library's log package rather than inventing a dependency
// the corpus never reaches for.
package luitlog

import (
	"fmt"
	"log"
	"os"
)

var (
	verbose bool
	logger  = log.New(os.Stderr, "luit: ", 0)
)

// SetVerbose enables or disables Verbosef output, mirroring the -v flag.
func SetVerbose(v bool) { verbose = v }

// Verbosef logs a diagnostic message only when verbose mode is on.
func Verbosef(format string, args ...any) {
	if !verbose {
		return
	}
	logger.Output(2, fmt.Sprintf(format, args...))
}

// Warningf logs a non-fatal problem, always.
func Warningf(format string, args ...any) {
	logger.Output(2, "warning: "+fmt.Sprintf(format, args...))
}

// Fatalf logs a fatal problem and exits with status 1, the way
// luit.c's FatalError does.
func Fatalf(format string, args ...any) {
	logger.Output(2, "fatal: "+fmt.Sprintf(format, args...))
	os.Exit(1)
}
