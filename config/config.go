// Package config provides configuration parsing for sysmon.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/sysmon/internal/logging"
	"gitlab.com/tinyland/lab/sysmon/monitor"
	"gitlab.com/tinyland/lab/sysmon/status"
)

// Config represents the sysmon configuration file.
type Config struct {
	// Monitor holds sampling cadence and capacities.
	Monitor MonitorConfig `yaml:"monitor"`

	// Thresholds holds the severity cut-over points.
	Thresholds status.EvaluatorConfig `yaml:"thresholds"`

	// Ambient describes the externally observed value.
	Ambient AmbientConfig `yaml:"ambient"`

	// Modes names the selection and its ordered labels.
	Modes ModesConfig `yaml:"modes"`

	// Storage selects the filesystem whose quota is logged.
	Storage StorageConfig `yaml:"storage"`

	// HTTP holds the optional HTTP surface settings.
	HTTP HTTPConfig `yaml:"http"`

	// Display holds TUI rendering settings.
	Display DisplayConfig `yaml:"display"`

	// Logging holds structured logger settings.
	Logging LoggingConfig `yaml:"logging"`
}

// MonitorConfig holds sampling settings. Durations are strings such as "1s".
type MonitorConfig struct {
	TickInterval    string `yaml:"tick_interval"`
	StorageInterval string `yaml:"storage_interval"`
	StorageTimeout  string `yaml:"storage_timeout"`
	// FrameRate is the internal frame loop target when nothing renders frames.
	FrameRate   int `yaml:"frame_rate"`
	LogCapacity int `yaml:"log_capacity"`
	CPUWindow   int `yaml:"cpu_window"`
	// CPUBaseline is "frame" (overrun past one 16.67ms frame) or "period"
	// (overrun past the tick interval).
	CPUBaseline string `yaml:"cpu_baseline"`
}

// AmbientConfig describes the ambient value cell.
type AmbientConfig struct {
	// Label names the value in the bar and in log messages.
	Label string `yaml:"label"`
	// File, when set, is watched for the current value.
	File string `yaml:"file"`
	// Initial is shown until the first change.
	Initial string `yaml:"initial"`
	// Unit is the display unit toggled from the TUI: "C" or "F".
	Unit string `yaml:"unit"`
}

// ModesConfig names the selection and its labels.
type ModesConfig struct {
	Name   string   `yaml:"name"`
	Labels []string `yaml:"labels"`
}

// StorageConfig selects the filesystem for storage estimates.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// HTTPConfig holds HTTP surface settings.
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// DisplayConfig holds TUI rendering settings.
type DisplayConfig struct {
	// ShowLogs opens the log panel at startup.
	ShowLogs bool `yaml:"show_logs"`
	// Minimized starts with the status bar collapsed.
	Minimized bool `yaml:"minimized"`
	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`
}

// LoggingConfig holds structured logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	mc := monitor.DefaultConfig()

	storagePath := home
	if storagePath == "" {
		storagePath = "/"
	}

	labels := make([]string, len(monitor.DefaultModes))
	copy(labels, monitor.DefaultModes)

	return &Config{
		Monitor: MonitorConfig{
			TickInterval:    "1s",
			StorageInterval: "10s",
			StorageTimeout:  "5s",
			FrameRate:       60,
			LogCapacity:     monitor.DefaultLogCapacity,
			CPUWindow:       monitor.DefaultWindowSize,
			CPUBaseline:     string(monitor.CPUBaselineFrame),
		},
		Thresholds: mc.Thresholds,
		Ambient: AmbientConfig{
			Label:   "Temperature",
			Initial: monitor.Placeholder,
			Unit:    "F",
		},
		Modes: ModesConfig{
			Name:   "Scene",
			Labels: labels,
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    storagePath,
		},
		HTTP: HTTPConfig{
			Enabled: false,
			Address: "127.0.0.1:9477",
		},
		Display: DisplayConfig{
			ShowLogs: true,
			Color:    "auto",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(home, ".local", "log", "sysmon.log"),
		},
	}
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return config, nil
}

// Validate checks the configuration and reports the first invalid field.
func (c *Config) Validate() error {
	durations := []struct {
		field string
		value string
	}{
		{"monitor.tick_interval", c.Monitor.TickInterval},
		{"monitor.storage_interval", c.Monitor.StorageInterval},
		{"monitor.storage_timeout", c.Monitor.StorageTimeout},
	}
	for _, d := range durations {
		if _, err := parsePositive(d.field, d.value); err != nil {
			return err
		}
	}

	if c.Monitor.FrameRate < 1 {
		return fmt.Errorf("monitor.frame_rate must be at least 1, got %d", c.Monitor.FrameRate)
	}
	if c.Monitor.LogCapacity < 1 {
		return fmt.Errorf("monitor.log_capacity must be at least 1, got %d", c.Monitor.LogCapacity)
	}
	if c.Monitor.CPUWindow < 1 {
		return fmt.Errorf("monitor.cpu_window must be at least 1, got %d", c.Monitor.CPUWindow)
	}
	switch monitor.CPUBaseline(c.Monitor.CPUBaseline) {
	case "", monitor.CPUBaselineFrame, monitor.CPUBaselinePeriod:
	default:
		return fmt.Errorf("monitor.cpu_baseline must be frame or period, got %q", c.Monitor.CPUBaseline)
	}

	if err := checkCeiling("thresholds.memory", c.Thresholds.Memory); err != nil {
		return err
	}
	if err := checkCeiling("thresholds.cpu", c.Thresholds.CPU); err != nil {
		return err
	}
	if c.Thresholds.FPS.Critical > c.Thresholds.FPS.Warning {
		return fmt.Errorf("thresholds.fps.critical (%g) must not exceed warning (%g)",
			c.Thresholds.FPS.Critical, c.Thresholds.FPS.Warning)
	}

	if c.Ambient.Label == "" {
		return fmt.Errorf("ambient.label is required")
	}
	if c.Ambient.Unit != "C" && c.Ambient.Unit != "F" {
		return fmt.Errorf("ambient.unit must be 'C' or 'F', got %q", c.Ambient.Unit)
	}

	if c.Modes.Name == "" {
		return fmt.Errorf("modes.name is required")
	}
	for i, l := range c.Modes.Labels {
		if l == "" {
			return fmt.Errorf("modes.labels[%d] is empty", i)
		}
	}

	if c.Storage.Enabled && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required when storage is enabled")
	}
	if c.HTTP.Enabled && c.HTTP.Address == "" {
		return fmt.Errorf("http.address is required when http is enabled")
	}

	switch c.Display.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("display.color must be 'auto', 'always' or 'never', got %q", c.Display.Color)
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", c.Logging.Format)
	}

	return nil
}

// ToMonitor converts the file configuration into monitor.Config. It
// assumes Validate has passed.
func (c *Config) ToMonitor() (monitor.Config, error) {
	mc := monitor.DefaultConfig()

	var err error
	if mc.TickInterval, err = parsePositive("monitor.tick_interval", c.Monitor.TickInterval); err != nil {
		return mc, err
	}
	if mc.StorageInterval, err = parsePositive("monitor.storage_interval", c.Monitor.StorageInterval); err != nil {
		return mc, err
	}
	if mc.StorageTimeout, err = parsePositive("monitor.storage_timeout", c.Monitor.StorageTimeout); err != nil {
		return mc, err
	}
	if c.Monitor.FrameRate > 0 {
		mc.FrameInterval = time.Second / time.Duration(c.Monitor.FrameRate)
	}

	mc.LogCapacity = c.Monitor.LogCapacity
	mc.CPUWindow = c.Monitor.CPUWindow
	if c.Monitor.CPUBaseline != "" {
		mc.CPUBaseline = monitor.CPUBaseline(c.Monitor.CPUBaseline)
	}
	mc.Thresholds = c.Thresholds
	mc.AmbientLabel = c.Ambient.Label
	mc.AmbientInitial = c.Ambient.Initial
	mc.ModeName = c.Modes.Name
	mc.Modes = append([]string(nil), c.Modes.Labels...)

	return mc, mc.Validate()
}

// LoggingOptions returns the logger options for this configuration.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		File:   c.Logging.File,
	}
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sysmon", "config.yaml")
}

func parsePositive(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", field, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", field, value)
	}
	return d, nil
}

func checkCeiling(field string, t status.Thresholds) error {
	if t.Warning > t.Critical {
		return fmt.Errorf("%s.warning (%g) must not exceed critical (%g)", field, t.Warning, t.Critical)
	}
	return nil
}
