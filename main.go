// sysmon is a live diagnostic status bar with a bounded event log.
//
// It samples uptime, frame rate, memory, an estimated CPU load, network
// state and storage usage on a fixed cadence, watches an ambient value file
// and link changes, and shows everything as an interactive TUI, a headless
// log stream, or an HTTP/WebSocket API.
//
// Usage:
//
//	sysmon [flags]
//
// Flags:
//
//	-config string       Path to configuration file (default: ~/.config/sysmon/config.yaml)
//	-headless            Stream log entries to stdout instead of the TUI
//	-http string         Serve the HTTP API on this address
//	-log-file string     Write logs to this file
//	-health              Query a running instance's /health endpoint
//	-json                Output health check as JSON (with -health)
//	-keys                Print key bindings and exit
//	-keys-format string  Key binding output format (table|json)
//	-write-config        Write the effective configuration and exit
//	-verbose             Enable debug logging
//	-version             Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"

	"gitlab.com/tinyland/lab/sysmon/config"
	"gitlab.com/tinyland/lab/sysmon/internal/logging"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file (default: ~/.config/sysmon/config.yaml)")
		runHeadless = flag.Bool("headless", false, "Stream log entries to stdout instead of the TUI")
		httpAddr    = flag.String("http", "", "Serve the HTTP API on this address (enables http)")
		logFile     = flag.String("log-file", "", "Write logs to this file (overrides logging.file)")
		runHealth   = flag.Bool("health", false, "Query a running instance's /health endpoint")
		healthJSON  = flag.Bool("json", false, "Output health check as JSON (with -health)")
		showKeys    = flag.Bool("keys", false, "Print key bindings and exit")
		keysFormat  = flag.String("keys-format", "table", "Key binding output format (table|json)")
		writeConfig = flag.Bool("write-config", false, "Write the effective configuration to the config path and exit")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	// ---------------------------------------------------------------
	// Commands that don't require config
	// ---------------------------------------------------------------

	if *showVersion {
		fmt.Printf("sysmon %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	if *showKeys {
		if err := runKeysCommand(os.Stdout, *keysFormat); err != nil {
			fmt.Fprintf(os.Stderr, "sysmon: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// ---------------------------------------------------------------
	// Config
	// ---------------------------------------------------------------

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysmon: %v\n", err)
		os.Exit(1)
	}
	if *httpAddr != "" {
		cfg.HTTP.Enabled = true
		cfg.HTTP.Address = *httpAddr
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "sysmon: invalid config %s: %v\n", path, err)
		os.Exit(1)
	}

	if *writeConfig {
		if err := config.SaveConfig(cfg, path); err != nil {
			fmt.Fprintf(os.Stderr, "sysmon: write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
		return
	}

	if *runHealth {
		os.Exit(checkHealth(os.Stdout, os.Stderr, cfg.HTTP.Address, *healthJSON))
	}

	// ---------------------------------------------------------------
	// Monitor
	// ---------------------------------------------------------------

	interactive := !*runHeadless && term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())

	// The TUI owns the screen, so it logs to a file. Headless mode logs to
	// stderr unless a file was asked for on the command line.
	logOpts := cfg.LoggingOptions()
	if !interactive && *logFile == "" {
		logOpts.File = ""
	}
	logger, closer, err := logging.New(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysmon: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, interactive, logger); err != nil {
		logger.Error("sysmon exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "sysmon: %v\n", err)
		closer.Close()
		os.Exit(1)
	}
}
