// Command voltrackboundary thresholds a vol image and tracks the boundary
// component of the first bel it finds.
//
// Usage:
//
//	voltrackboundary [-config file.yaml] [-render] [-v] <file.vol> <minT> <maxT>
package main

import (
	"os"

	"dgsurface/internal/cli"
	"dgsurface/pkg/extraction"
)

func main() {
	os.Exit(cli.Run("voltrackboundary", extraction.ModeTrack, os.Args[1:], os.Stdout, os.Stderr))
}
