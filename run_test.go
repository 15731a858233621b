package main

import (
	"testing"

	"gitlab.com/tinyland/lab/sysmon/collectors/retry"
	"gitlab.com/tinyland/lab/sysmon/config"
	"gitlab.com/tinyland/lab/sysmon/internal/logging"
)

func TestBuildHost(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Path = t.TempDir()

	host := buildHost(cfg, logging.Discard())
	if host.Heap == nil || host.Connection == nil || host.Connectivity == nil {
		t.Errorf("probes not wired: %+v", host)
	}
	if _, ok := host.Storage.(*retry.Breaker); !ok {
		t.Errorf("storage = %T, want *retry.Breaker", host.Storage)
	}

	cfg.Storage.Enabled = false
	if host := buildHost(cfg, logging.Discard()); host.Storage != nil {
		t.Errorf("storage should be nil when disabled, got %T", host.Storage)
	}
}
