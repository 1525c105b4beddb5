package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skillsenselab/pivotkit/secrets"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Window.Unit != "day" || cfg.Window.Before != 1 || cfg.Window.After != 0 {
		t.Errorf("unexpected window defaults: %+v", cfg.Window)
	}
	if cfg.Containers.TI != "ti" || cfg.Containers.Default != "other" {
		t.Errorf("unexpected container defaults: %+v", cfg.Containers)
	}
	if cfg.Editor.Addr != "localhost:8917" {
		t.Errorf("unexpected editor default: %q", cfg.Editor.Addr)
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("unexpected sample rate default: %v", cfg.Telemetry.SampleRate)
	}
}

func TestValidateRejectsBadUnit(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	cfg.Window.Unit = "fortnight"

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown window unit")
	}
}

func TestValidateRejectsBadSampleRate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	cfg.Telemetry.SampleRate = 2.0

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	// Run from a directory with no config file.
	restore := chdir(t, t.TempDir())
	defer restore()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Window.Unit != "day" {
		t.Errorf("expected default unit, got %q", cfg.Window.Unit)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
window:
  unit: hour
  before: 6
containers:
  ti: intel
providers:
  splunk:
    url: https://splunk.local
    api_key: plain-key
`
	path := filepath.Join(dir, "pivotkit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Window.Unit != "hour" || cfg.Window.Before != 6 {
		t.Errorf("unexpected window: %+v", cfg.Window)
	}
	if cfg.Containers.TI != "intel" {
		t.Errorf("expected ti container override, got %q", cfg.Containers.TI)
	}
	if cfg.Containers.Default != "other" {
		t.Errorf("expected default container fallback, got %q", cfg.Containers.Default)
	}
	if cfg.Providers["splunk"].URL != "https://splunk.local" {
		t.Errorf("unexpected provider config: %+v", cfg.Providers)
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	restore := chdir(t, t.TempDir())
	defer restore()

	t.Setenv("PIVOTKIT_WINDOW_UNIT", "week")
	t.Setenv("PIVOTKIT_EDITOR_ADDR", "localhost:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Window.Unit != "week" {
		t.Errorf("expected env override, got %q", cfg.Window.Unit)
	}
	if cfg.Editor.Addr != "localhost:9000" {
		t.Errorf("expected env override, got %q", cfg.Editor.Addr)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("PIVOTKIT_CONTAINERS_TI=feeds\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	defer os.Unsetenv("PIVOTKIT_CONTAINERS_TI")

	cfg, err := Load(WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Containers.TI != "feeds" {
		t.Errorf("expected .env value, got %q", cfg.Containers.TI)
	}
}

func TestLoadInvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pivotkit.yaml")
	if err := os.WriteFile(path, []byte("window: [broken"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := Load(WithConfigFile(path)); err == nil {
		t.Error("expected error for unparsable config file")
	}
}

func TestResolveProviderKey(t *testing.T) {
	svc, err := secrets.New("sealing-key")
	if err != nil {
		t.Fatalf("secrets.New failed: %v", err)
	}
	sealed, err := svc.Seal("hidden-token")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	var cfg Config
	cfg.ApplyDefaults()
	cfg.Secrets.Key = "sealing-key"
	cfg.Providers = map[string]ProviderConfig{
		"splunk": {APIKey: "plain-token"},
		"otx":    {APIKey: sealed},
	}

	plain, err := cfg.ResolveProviderKey("splunk")
	if err != nil || plain != "plain-token" {
		t.Errorf("plain key should pass through, got %q, %v", plain, err)
	}

	opened, err := cfg.ResolveProviderKey("otx")
	if err != nil || opened != "hidden-token" {
		t.Errorf("sealed key should open, got %q, %v", opened, err)
	}

	if _, err := cfg.ResolveProviderKey("missing"); err == nil {
		t.Error("expected error for unknown provider")
	}

	cfg.Secrets.Key = ""
	if _, err := cfg.ResolveProviderKey("otx"); err == nil {
		t.Error("expected error when sealing key is unset")
	}
}

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	return func() { _ = os.Chdir(old) }
}
