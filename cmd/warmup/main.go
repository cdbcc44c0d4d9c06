package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/beachvis/internal/warmup"
)

// Default configuration constants.
const (
	defaultPasses     = 2
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	_ = godotenv.Load()

	defaultURL := "http://localhost:9080"
	if addr := os.Getenv("BEACHVIS_WARMUP_URL"); addr != "" {
		defaultURL = addr
	}

	var (
		baseURL = flag.String("url", defaultURL, "Base URL of the service")
		year    = flag.Int("year", 0, "Listing year (default: the server's default year)")
		passes  = flag.Int("passes", defaultPasses, "Times each resource is requested")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile = flag.String("log", "", "Also write logs to this file")
		verbose = flag.Bool("verbose", false, "Log every request")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		warmup.ShowHelp()
		return
	}

	closeLog, err := warmup.SetupLogging(*logFile)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	config := &warmup.Config{
		BaseURL: *baseURL,
		Year:    *year,
		Passes:  *passes,
		Workers: *workers,
		Timeout: *timeout,
		LogFile: *logFile,
		Verbose: *verbose,
	}

	if _, err := warmup.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Warmup failed: " + err.Error() + "\n")
		closeLog()
		os.Exit(1)
	}
}
