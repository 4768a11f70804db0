package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DefaultTimezone != "America/New_York" {
		t.Errorf("DefaultTimezone = %q", cfg.DefaultTimezone)
	}
	if cfg.DefaultDuration != 3*time.Hour {
		t.Errorf("DefaultDuration = %s, want 3h", cfg.DefaultDuration)
	}
	if cfg.Headless {
		t.Error("browser should be visible by default so the host can review")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"default_timezone": "America/Los_Angeles",
		"default_duration": "2h",
		"listen_addr": ":9000"
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultTimezone != "America/Los_Angeles" {
		t.Errorf("DefaultTimezone = %q", cfg.DefaultTimezone)
	}
	if cfg.DefaultDuration != 2*time.Hour {
		t.Errorf("DefaultDuration = %s, want 2h", cfg.DefaultDuration)
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	// Untouched settings keep their defaults.
	if cfg.DataDir != "~/.local/share/invitegen" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}

func TestLoadRetryPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"retry": {"max_attempts": 5}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retry == nil || cfg.Retry.MaxAttempts != 5 {
		t.Errorf("Retry = %+v, want max_attempts 5", cfg.Retry)
	}

	plain, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if plain.Retry != nil {
		t.Errorf("Retry = %+v, want nil without a file", plain.Retry)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"default_timezone": "Europe/Paris"}`), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv("INVITEGEN_DEFAULT_TZ", "Europe/London")
	t.Setenv("INVITEGEN_HEADLESS", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultTimezone != "Europe/London" {
		t.Errorf("DefaultTimezone = %q, env should win over file", cfg.DefaultTimezone)
	}
	if !cfg.Headless {
		t.Error("INVITEGEN_HEADLESS=true not applied")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("INVITEGEN_DEFAULT_TZ", "Not/AZone")
	if _, err := Load(""); err == nil {
		t.Error("Load accepted an unknown timezone")
	}

	t.Setenv("INVITEGEN_DEFAULT_TZ", "")
	t.Setenv("INVITEGEN_DEFAULT_DURATION", "banana")
	if _, err := Load(""); err == nil {
		t.Error("Load accepted an unparseable duration")
	}
}
