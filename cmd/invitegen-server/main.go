package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/invitegen/internal/config"
	"github.com/pfrederiksen/invitegen/internal/extract"
	"github.com/pfrederiksen/invitegen/internal/logger"
	"github.com/pfrederiksen/invitegen/internal/server"
)

var (
	listenAddr = flag.String("listen", "", "Listen address (or env: INVITEGEN_LISTEN_ADDR)")
	configFile = flag.String("config", "", "Path to JSON config file")
	defaultTZ  = flag.String("tz", "", "Default IANA timezone (or env: INVITEGEN_DEFAULT_TZ)")
	duration   = flag.Duration("duration", 0, "Default event duration when no end time is given")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	level := logger.LevelInfo
	if *verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *defaultTZ != "" {
		cfg.DefaultTimezone = *defaultTZ
	}
	if *duration > 0 {
		cfg.DefaultDuration = *duration
	}
	if _, err := time.LoadLocation(cfg.DefaultTimezone); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid timezone %q\n", cfg.DefaultTimezone)
		os.Exit(1)
	}

	srv := server.New(extract.Options{
		DefaultTimezone: cfg.DefaultTimezone,
		DefaultDuration: cfg.DefaultDuration,
	}, logger.Default())

	if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
