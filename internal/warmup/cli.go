package warmup

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/beachvis/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging initializes the logger on stdout, teeing to logFile when set.
// The returned func closes the file.
func SetupLogging(logFile string) (func(), error) {
	if logFile == "" {
		if err := logger.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		return func() {}, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return func() { _ = file.Close() }, nil
}

// ShowHelp prints usage information for the warmup tool.
func ShowHelp() {
	os.Stdout.WriteString(`Beach VIS Cache Warmup
======================

Lists a season's tournaments from a running beachvis server and requests
detail, schedule and results for every tournament, reporting cache hits.

Usage:
  go run ./cmd/warmup [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -year int
        Listing year (default: the server's default year)
  -passes int
        Times each resource is requested (default 2)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Also write logs to this file
  -verbose
        Log every request
  -help
        Show this help message

Examples:
  # Warm the current season
  go run ./cmd/warmup

  # Warm 2024 against a remote server
  go run ./cmd/warmup -year 2024 -url https://beach.example.org
`)
}
