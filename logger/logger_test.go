package logger

import (
	"testing"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected default format console, got %q", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Level: "info", Format: "json"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg = Config{Level: "verbose", Format: "json"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}

	cfg = Config{Level: "info", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestFields(t *testing.T) {
	m := Fields("pivot", "list_logons", "count", 3)
	if m["pivot"] != "list_logons" {
		t.Errorf("expected pivot field, got %v", m)
	}
	if m["count"] != 3 {
		t.Errorf("expected count field, got %v", m)
	}
}

func TestFieldsOddArgs(t *testing.T) {
	m := Fields("lonely")
	if len(m) != 0 {
		t.Errorf("expected empty map for odd args, got %v", m)
	}
}

func TestFieldsNonStringKey(t *testing.T) {
	m := Fields(42, "value", "ok", true)
	if _, found := m["ok"]; !found {
		t.Error("expected valid pair to survive a non-string key")
	}
	if len(m) != 1 {
		t.Errorf("expected 1 entry, got %d", len(m))
	}
}

func TestGlobalLoggerLazyInit(t *testing.T) {
	globalLogger = nil
	l := GetGlobalLogger()
	if l == nil {
		t.Fatal("expected lazily created global logger")
	}
	if GetGlobalLogger() != l {
		t.Error("expected the same global logger on second call")
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test")
	tagged := l.WithComponent("pivot")
	if tagged == l {
		t.Error("expected a new logger instance")
	}
}
