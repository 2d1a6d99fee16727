// Command voldistancetraversal thresholds a vol image and visits the boundary
// component of the first bel it finds by increasing Euclidean distance. The
// traversal runs twice: once to find the largest distance, once to color the
// surfels with a colormap of that range.
//
// Usage:
//
//	voldistancetraversal [-config file.yaml] [-render] [-v] <file.vol> <minT> <maxT>
package main

import (
	"os"

	"dgsurface/internal/cli"
	"dgsurface/pkg/extraction"
)

func main() {
	os.Exit(cli.Run("voldistancetraversal", extraction.ModeDistance, os.Args[1:], os.Stdout, os.Stderr))
}
