package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateConfigOK(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	cfg := DefaultConfig()
	cfg.LogLevel = " TRACE "
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateConfigRejectsInvalidLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateConfigRejectsMaxRequestBytesZero(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRequestBytes = 0
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateConfigRejectsMaxRequestBytesTooHigh(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRequestBytes = maxMaxRequestBytes + 1
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, `{"log_level":"debug","trace_execution":true}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "debug" || !cfg.TraceExecution {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.MaxRequestBytes != defaultMaxRequestBytes {
		t.Fatalf("default lost: max_request_bytes=%d", cfg.MaxRequestBytes)
	}
}

func TestLoadConfigRejectsUnknownField(t *testing.T) {
	if _, err := LoadConfig(writeFile(t, `{"log_level":"info","peers":[]}`)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	if _, err := LoadConfig(writeFile(t, `{"max_request_bytes":-1}`)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error")
	}
}
