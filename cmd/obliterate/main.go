package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Timmmm/obliterate/internal/config"
	"github.com/Timmmm/obliterate/internal/database"
	"github.com/Timmmm/obliterate/internal/exitcodes"
	"github.com/Timmmm/obliterate/internal/logging"
	"github.com/Timmmm/obliterate/internal/metrics"
	"github.com/Timmmm/obliterate/internal/obliterate"
	"github.com/Timmmm/obliterate/internal/safety"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	noSafety := flag.Bool("no-safety", false, "Skip the protected-path safety checks")
	verbose := flag.Bool("v", false, "Log every removed entry")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		return exitcodes.InvalidConfig
	}

	// Load configuration; without -config the built-in defaults apply
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Printf("ERROR: Failed to load config: %v", err)
			return exitcodes.InvalidConfig
		}
		cfg = loaded
	}

	logger := logging.NewWithConfig(cfg)

	metrics.Init()
	if cfg.Prometheus.Port > 0 {
		addr := cfg.PrometheusAddress()
		logger.Printf("Starting Prometheus metrics on %s", addr)
		metrics.StartServer(addr, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metrics.Shutdown(ctx, logger)
		}()
	}

	var db *database.RemovalDB
	if cfg.DatabasePath != "" {
		logger.Printf("Opening removal database: %s", cfg.DatabasePath)
		var err error
		db, err = database.NewRemovalDB(cfg.DatabasePath)
		if err != nil {
			logger.Printf("ERROR: Failed to open database: %v", err)
			return exitcodes.RemovalFailed
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Printf("ERROR: Failed to close database: %v", err)
			}
		}()
	}

	var validator *safety.Validator
	if cfg.SafetyEnabled() && !*noSafety {
		validator = safety.NewValidator(cfg.Safety.AllowedRoots, cfg.Safety.ProtectedPaths)
	}

	ob := obliterate.New(logger, validator, db, nil)
	ob.SetDebug(*verbose)

	// Each root path is processed independently and in the given order.
	// Errors for individual entries are logged where they happen; here we
	// only track whether anything was left behind.
	code := exitcodes.Success
	for _, root := range flag.Args() {
		if err := ob.RemovePath(root); err != nil {
			if safety.IsViolation(err) {
				if code == exitcodes.Success {
					code = exitcodes.SafetyViolation
				}
				continue
			}
			code = exitcodes.RemovalFailed
		}
	}

	return code
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] path...\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Remove directory trees even if some files or directories are read-only.")
	fmt.Fprintln(os.Stderr, "")
	flag.PrintDefaults()
}
