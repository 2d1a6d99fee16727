// Package cli holds the command line handling shared by the vol commands.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"dgsurface/internal/trace"
	"dgsurface/pkg/config"
	"dgsurface/pkg/extraction"
)

// Exit codes of the vol commands
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitSpace   = 2
)

// Run parses args (without the program name) and runs an extraction in the
// given mode. It returns the process exit code.
func Run(name string, mode extraction.Mode, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	render := fs.Bool("render", false, "Write projection images of the surface")
	renderDir := fs.String("render-dir", "", "Directory for the images (overrides the configuration)")
	verbose := fs.Bool("v", false, "Log debug messages to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] <file.vol> <minT> <maxT>\n", name)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return ExitFailure
	}
	if fs.NArg() < 3 {
		fs.Usage()
		return ExitFailure
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
			return ExitFailure
		}
		cfg = loaded
	}

	minT, err1 := strconv.Atoi(fs.Arg(1))
	maxT, err2 := strconv.Atoi(fs.Arg(2))
	if err := errors.Join(err1, err2); err != nil {
		fmt.Fprintf(stderr, "%s: invalid threshold: %v\n", name, err)
		return ExitFailure
	}
	cfg.Threshold.Min, cfg.Threshold.Max = minT, maxT
	if *render {
		cfg.Render.Enabled = true
	}
	if *renderDir != "" {
		cfg.Render.Dir = *renderDir
	}
	cfg.Output.Verbose = cfg.Output.Verbose || *verbose

	level := slog.LevelInfo
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	trace.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer trace.SetLogger(nil)

	extractor := extraction.NewExtractor(&extraction.Params{
		InputFile: fs.Arg(0),
		Mode:      mode,
		Config:    cfg,
		Output:    stdout,
	})

	startTime := time.Now()
	if err := extractor.Process(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		if errors.Is(err, extraction.ErrSpace) {
			return ExitSpace
		}
		return ExitFailure
	}

	fmt.Fprintf(stdout, "\nExtraction completed in %.2f seconds\n", time.Since(startTime).Seconds())
	extractor.Metrics().Print(stdout)
	if cfg.Render.Enabled {
		fmt.Fprintf(stdout, "Images saved to: %s\n", cfg.Render.Dir)
	}
	return ExitOK
}
