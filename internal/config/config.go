// Package config assembles runtime settings from defaults, an optional JSON
// file, and INVITEGEN_* environment variables, in that order of precedence
// (later wins). Command flags layer on top in the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pfrederiksen/invitegen/internal/driver"
)

// Config holds every runtime setting shared across surfaces.
type Config struct {
	// DefaultTimezone names the zone assumed when the text has no cue.
	DefaultTimezone string `json:"default_timezone"`
	// DefaultDuration is applied when the text names no end time.
	DefaultDuration time.Duration `json:"-"`
	// DataDir holds run history.
	DataDir string `json:"data_dir"`
	// ProfileDir, when set, keeps browser logins across runs.
	ProfileDir string `json:"profile_dir"`
	// Headless hides the browser window.
	Headless bool `json:"headless"`
	// SelectorsFile optionally overrides the built-in form spec.
	SelectorsFile string `json:"selectors_file"`
	// ListenAddr is the extraction server's bind address.
	ListenAddr string `json:"listen_addr"`
	// Retry, when set, replaces the driver's default per-action retry policy.
	Retry *driver.RetryPolicy `json:"retry,omitempty"`

	// DefaultDurationText is the JSON-facing form of DefaultDuration.
	DefaultDurationText string `json:"default_duration,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DefaultTimezone: "America/New_York",
		DefaultDuration: 3 * time.Hour,
		DataDir:         "~/.local/share/invitegen",
		Headless:        false,
		ListenAddr:      ":8787",
	}
}

// Load builds the effective config: defaults, then the JSON file at path if
// path is non-empty, then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if _, err := time.LoadLocation(cfg.DefaultTimezone); err != nil {
		return nil, fmt.Errorf("invalid default timezone %q: %w", cfg.DefaultTimezone, err)
	}
	if cfg.DefaultDuration <= 0 {
		return nil, fmt.Errorf("default duration must be positive, got %s", cfg.DefaultDuration)
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var file Config
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if file.DefaultTimezone != "" {
		c.DefaultTimezone = file.DefaultTimezone
	}
	if file.DataDir != "" {
		c.DataDir = file.DataDir
	}
	if file.ProfileDir != "" {
		c.ProfileDir = file.ProfileDir
	}
	if file.SelectorsFile != "" {
		c.SelectorsFile = file.SelectorsFile
	}
	if file.ListenAddr != "" {
		c.ListenAddr = file.ListenAddr
	}
	if file.Headless {
		c.Headless = true
	}
	if file.Retry != nil {
		c.Retry = file.Retry
	}
	if file.DefaultDurationText != "" {
		d, err := time.ParseDuration(file.DefaultDurationText)
		if err != nil {
			return fmt.Errorf("parsing default_duration: %w", err)
		}
		c.DefaultDuration = d
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("INVITEGEN_DEFAULT_TZ"); v != "" {
		c.DefaultTimezone = v
	}
	if v := os.Getenv("INVITEGEN_DEFAULT_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing INVITEGEN_DEFAULT_DURATION: %w", err)
		}
		c.DefaultDuration = d
	}
	if v := os.Getenv("INVITEGEN_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("INVITEGEN_PROFILE_DIR"); v != "" {
		c.ProfileDir = v
	}
	if v := os.Getenv("INVITEGEN_SELECTORS"); v != "" {
		c.SelectorsFile = v
	}
	if v := os.Getenv("INVITEGEN_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("INVITEGEN_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing INVITEGEN_HEADLESS: %w", err)
		}
		c.Headless = b
	}
	return nil
}
