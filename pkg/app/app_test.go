package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/teslashibe/go-gaze/pkg/script"
)

func TestDemoScriptParses(t *testing.T) {
	tl, err := script.Parse(demoScript)
	if err != nil {
		t.Fatalf("Embedded demo does not parse: %v", err)
	}
	if !tl.Loop {
		t.Error("Demo script should loop")
	}
	if tl.Length() <= DefaultConfig().Threshold {
		t.Error("Demo script should be longer than one dwell")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"no pointer", func(c *Config) { c.Pointer = "" }, true},
		{"negative threshold", func(c *Config) { c.Threshold = -1 }, true},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }, true},
		{"zero status interval", func(c *Config) { c.StatusInterval = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			var cerr *ConfigError
			if err != nil && !errors.As(err, &cerr) {
				t.Errorf("Expected *ConfigError, got %T", err)
			}
		})
	}
}

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("GAZE_POINTER", "left-hand")
	t.Setenv("GAZE_THRESHOLD", "0.75")
	t.Setenv("GAZE_PORT", "9999")
	t.Setenv("GAZE_COLLECTOR_URL", "ws://collector:8091")

	cfg := DefaultConfig()
	if err := cfg.LoadEnvConfig(); err != nil {
		t.Fatalf("LoadEnvConfig error: %v", err)
	}

	if cfg.Pointer != "left-hand" || cfg.Threshold != 0.75 || cfg.Port != "9999" {
		t.Errorf("Env not applied: %+v", cfg)
	}
	if cfg.CollectorURL != "ws://collector:8091" {
		t.Errorf("CollectorURL = %q", cfg.CollectorURL)
	}
}

func TestLoadEnvConfig_FlagsWin(t *testing.T) {
	t.Setenv("GAZE_POINTER", "env")
	t.Setenv("GAZE_THRESHOLD", "5")

	cfg := DefaultConfig()
	cfg.Pointer = "flag"
	cfg.Threshold = 1.0
	if err := cfg.LoadEnvConfig(); err != nil {
		t.Fatalf("LoadEnvConfig error: %v", err)
	}
	if cfg.Pointer != "flag" || cfg.Threshold != 1.0 {
		t.Errorf("Flag values overridden by env: %+v", cfg)
	}
}

func TestLoadEnvConfig_ExplicitDefaultsWin(t *testing.T) {
	t.Setenv("GAZE_POINTER", "env")
	t.Setenv("GAZE_THRESHOLD", "5")
	t.Setenv("GAZE_PORT", "9999")
	t.Setenv("GAZE_COLLECTOR_URL", "ws://collector:8091")

	cfg := DefaultConfig()
	cfg.Explicit = map[string]bool{"pointer": true, "threshold": true, "port": true, "collector": true}
	if err := cfg.LoadEnvConfig(); err != nil {
		t.Fatalf("LoadEnvConfig error: %v", err)
	}

	want := DefaultConfig()
	if cfg.Pointer != want.Pointer || cfg.Threshold != want.Threshold || cfg.Port != want.Port {
		t.Errorf("Explicit default values overridden by env: %+v", cfg)
	}
	if cfg.CollectorURL != "" {
		t.Errorf("Explicit empty collector overridden: %q", cfg.CollectorURL)
	}
}

func TestLoadEnvConfig_BadThreshold(t *testing.T) {
	t.Setenv("GAZE_THRESHOLD", "soon")

	cfg := DefaultConfig()
	if _, err := New(cfg); err == nil {
		t.Error("Expected error for unparsable GAZE_THRESHOLD")
	}
}

func TestRunWithScript(t *testing.T) {
	t.Setenv("GAZE_COLLECTOR_URL", "")

	path := filepath.Join(t.TempDir(), "quick.yaml")
	err := os.WriteFile(path, []byte(`
name: quick
targets:
  - id: ok
    label: OK
steps:
  - target: ok
    duration: 10s
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Port = ""
	cfg.Threshold = 0.05
	cfg.TickInterval = 5 * time.Millisecond
	cfg.ScriptPath = path

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := a.Init(); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	defer a.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	status := a.Pointer().Snapshot()
	if status.Frames == 0 {
		t.Fatal("Pointer never stepped")
	}
	if status.TargetID != "ok" || !status.Locked {
		t.Errorf("Expected lock on ok, got %+v", status)
	}
}

func TestRunBeforeInit(t *testing.T) {
	a, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := a.Run(context.Background()); err == nil {
		t.Error("Expected error from Run before Init")
	}
}

func TestInitMissingScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = ""
	cfg.ScriptPath = filepath.Join(t.TempDir(), "missing.yaml")

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := a.Init(); err == nil {
		t.Error("Expected error for missing script")
	}
}
