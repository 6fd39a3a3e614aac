package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/stride/internal/testclips"
)

// Default configuration constants.
const (
	defaultNumClips    = 16
	defaultFrames      = 120
	defaultBlendMode   = "inertial"
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numClips = flag.Int("clips", defaultNumClips, "Number of walking clips to generate")
		frames   = flag.Int("frames", defaultFrames, "Frames per clip")
		mode     = flag.String("mode", defaultBlendMode, "Blend mode: inertial, cross_fade or dead")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Log file for test output (default: clip_test_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testclips.ShowHelp()
		return
	}

	if err := testclips.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &testclips.Config{
		BaseURL:   *baseURL,
		NumClips:  *numClips,
		Frames:    *frames,
		BlendMode: *mode,
		Workers:   *workers,
		Timeout:   *timeout,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	if err := testclips.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
