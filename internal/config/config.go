package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type PrometheusCfg struct {
	Port int `yaml:"port" json:"port"` // 0 disables the metrics server
}

type LoggingCfg struct {
	File         string `yaml:"file" json:"file"`                   // Log file path; empty = stderr only
	RotationDays int    `yaml:"rotation_days" json:"rotation_days"` // Days to keep logs before rotation
}

type SafetyCfg struct {
	Enabled        *bool    `yaml:"enabled" json:"enabled"`                 // Defaults to true
	ProtectedPaths []string `yaml:"protected_paths" json:"protected_paths"` // Extra paths that must never be removed
	AllowedRoots   []string `yaml:"allowed_roots" json:"allowed_roots"`     // If set, roots must live under one of these
}

type Config struct {
	Prometheus   PrometheusCfg `yaml:"prometheus" json:"prometheus"`
	Logging      LoggingCfg    `yaml:"logging" json:"logging"`
	Safety       SafetyCfg     `yaml:"safety" json:"safety"`
	DatabasePath string        `yaml:"database_path" json:"database_path"` // SQLite removal history; empty disables it
}

var errInvalidPath = errors.New("path must be absolute")

// Default returns the configuration used when no config file is given:
// stderr logging, safety checks on, metrics and history database off.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateAndDefault() error {
	c.applyDefaults()

	if c.Prometheus.Port < 0 || c.Prometheus.Port > 65535 {
		return fmt.Errorf("prometheus port out of range: %d", c.Prometheus.Port)
	}

	if c.Logging.File != "" {
		cp, err := cleanAbsolute(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging file: %w", err)
		}
		c.Logging.File = cp
	}

	if c.DatabasePath != "" {
		cp, err := cleanAbsolute(c.DatabasePath)
		if err != nil {
			return fmt.Errorf("database_path: %w", err)
		}
		c.DatabasePath = cp
	}

	cleaned := make([]string, 0, len(c.Safety.AllowedRoots))
	for _, p := range c.Safety.AllowedRoots {
		cp, err := cleanAbsolute(p)
		if err != nil {
			return fmt.Errorf("allowed_roots: %w", err)
		}
		cleaned = append(cleaned, cp)
	}
	c.Safety.AllowedRoots = cleaned

	return nil
}

func (c *Config) applyDefaults() {
	if c.Logging.RotationDays <= 0 {
		c.Logging.RotationDays = 30 // Default: keep logs for 30 days
	}
	if c.Safety.Enabled == nil {
		enabled := true
		c.Safety.Enabled = &enabled
	}
}

// SafetyEnabled reports whether delete targets must pass the safety validator
func (c *Config) SafetyEnabled() bool {
	return c.Safety.Enabled == nil || *c.Safety.Enabled
}

func cleanAbsolute(p string) (string, error) {
	if p == "" {
		return "", errInvalidPath
	}
	cp := filepath.Clean(p)
	if !filepath.IsAbs(cp) {
		return "", fmt.Errorf("%w: %s", errInvalidPath, p)
	}
	return cp, nil
}

func (c *Config) PrometheusAddress() string {
	return fmt.Sprintf(":%d", c.Prometheus.Port)
}
