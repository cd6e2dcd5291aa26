package config

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	LogLevel        string `json:"log_level"`
	TraceExecution  bool   `json:"trace_execution"`
	MaxRequestBytes int    `json:"max_request_bytes"`
}

var allowedLogLevels = map[string]struct{}{
	"trace":    {},
	"debug":    {},
	"info":     {},
	"warn":     {},
	"error":    {},
	"critical": {},
	"off":      {},
}

const (
	defaultMaxRequestBytes = 4 << 20
	maxMaxRequestBytes     = 64 << 20
)

func DefaultConfig() Config {
	return Config{
		LogLevel:        "info",
		TraceExecution:  false,
		MaxRequestBytes: defaultMaxRequestBytes,
	}
}

func ValidateConfig(cfg Config) error {
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return errors.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	if cfg.MaxRequestBytes <= 0 {
		return errors.New("max_request_bytes must be > 0")
	}
	if cfg.MaxRequestBytes > maxMaxRequestBytes {
		return errors.Errorf("max_request_bytes must be <= %d", maxMaxRequestBytes)
	}
	return nil
}

// LoadConfig reads a JSON config file over DefaultConfig. Fields absent
// from the file keep their defaults; unknown fields are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := readConfigFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := ValidateConfig(cfg); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}
