package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/sysmon/api"
	"gitlab.com/tinyland/lab/sysmon/collectors/hostenv"
	"gitlab.com/tinyland/lab/sysmon/collectors/retry"
	"gitlab.com/tinyland/lab/sysmon/config"
	"gitlab.com/tinyland/lab/sysmon/display/color"
	"gitlab.com/tinyland/lab/sysmon/display/tui"
	"gitlab.com/tinyland/lab/sysmon/monitor"
	"gitlab.com/tinyland/lab/sysmon/status"
	"gitlab.com/tinyland/lab/sysmon/watch"
)

// buildHost wires the host environment probes. Storage estimates go
// through a circuit breaker so a failing filesystem is not hit every cycle.
func buildHost(cfg *config.Config, logger *slog.Logger) monitor.Host {
	netProbe := hostenv.NewNetProbe(logger.With("component", "network"))

	host := monitor.Host{
		Heap:         hostenv.NewHeapProbe(logger.With("component", "heap")),
		Connection:   netProbe,
		Connectivity: netProbe,
	}

	if cfg.Storage.Enabled {
		bc := retry.DefaultConfig()
		bc.Logger = logger.With("component", "storage")
		host.Storage = retry.NewBreaker(hostenv.NewStorageProbe(cfg.Storage.Path), bc)
	}

	return host
}

// run starts the monitor and its host adapters, then blocks in the TUI or
// the headless stream until ctx is cancelled or the user quits.
func run(ctx context.Context, cfg *config.Config, interactive bool, logger *slog.Logger) error {
	mc, err := cfg.ToMonitor()
	if err != nil {
		return fmt.Errorf("monitor config: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	host := buildHost(cfg, logger)
	mon, err := monitor.New(ctx, mc, host, monitor.WithLogger(logger.With("component", "monitor")))
	if err != nil {
		return fmt.Errorf("start monitor: %w", err)
	}
	defer mon.Stop()

	var wg sync.WaitGroup
	start := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fn(ctx)
			switch {
			case err == nil, errors.Is(err, context.Canceled):
			case errors.Is(err, hostenv.ErrUnsupported):
				logger.Debug(name+" unavailable on this platform", "error", err)
			default:
				logger.Error(name+" stopped", "error", err)
			}
		}()
	}

	if cfg.Ambient.File != "" {
		start("ambient watcher", watch.NewAmbientFile(cfg.Ambient.File, mon, logger.With("component", "ambient")).Run)
	}
	start("link watcher", hostenv.NewLinkWatcher(mon, host.Connectivity, logger.With("component", "link")).Run)
	if cfg.HTTP.Enabled {
		start("http server", api.NewServer(cfg.HTTP.Address, mon, logger.With("component", "http")).Run)
	}

	mode, err := color.ParseMode(cfg.Display.Color)
	if err != nil {
		return err
	}

	if interactive {
		err = runTUI(ctx, mon, cfg, mode)
	} else {
		colored := color.Apply(mode, os.Stdout)
		err = newHeadless(mon, os.Stdout, defaultPIDFile(), colored, logger.With("component", "headless")).run(ctx)
	}

	cancel()
	wg.Wait()
	return err
}

// runTUI runs the status bar until the user quits or ctx is cancelled.
func runTUI(ctx context.Context, mon *monitor.Monitor, cfg *config.Config, mode color.Mode) error {
	color.Apply(mode, os.Stdout)

	model := tui.NewModel(mon, tui.Options{
		AmbientLabel: cfg.Ambient.Label,
		ModeName:     cfg.Modes.Name,
		ModeCount:    len(cfg.Modes.Labels),
		Unit:         cfg.Ambient.Unit,
		ShowLogs:     cfg.Display.ShowLogs,
		Minimized:    cfg.Display.Minimized,
		Evaluator:    status.NewEvaluator(cfg.Thresholds),
	})
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
