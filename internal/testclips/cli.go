package testclips

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/stride/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "clip_test_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	multiWriter := io.MultiWriter(os.Stdout, file)
	if err := logger.Init(logger.WithWriter(multiWriter), logger.WithLevel(level)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the clip test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Stride Clip Test Tool
=====================

Generates synthetic walking clips and drives them through a running stride
service: reconstruction from joint positions, foot locking and blending.

Usage:
  go run cmd/test-clips/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -clips int
        Number of walking clips to generate (default 16)
  -frames int
        Frames per clip (default 120)
  -mode string
        Blend mode: inertial, cross_fade or dead (default "inertial")
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for test output (default: clip_test_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/test-clips/main.go

  # Longer clips, cross-fade stitching
  go run cmd/test-clips/main.go -clips 64 -frames 300 -mode cross_fade
`)
}
