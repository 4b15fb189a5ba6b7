package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.SafetyEnabled() {
		t.Error("Safety must default to enabled")
	}
	if cfg.Prometheus.Port != 0 {
		t.Errorf("Metrics must default to disabled, got port %d", cfg.Prometheus.Port)
	}
	if cfg.DatabasePath != "" {
		t.Errorf("History database must default to disabled, got %s", cfg.DatabasePath)
	}
	if cfg.Logging.RotationDays != 30 {
		t.Errorf("Expected default rotation of 30 days, got %d", cfg.Logging.RotationDays)
	}
}

func TestLoadFullConfig(t *testing.T) {
	yaml := `
prometheus:
  port: 9311
logging:
  file: /var/log/obliterate/obliterate.log
  rotation_days: 7
safety:
  enabled: true
  protected_paths:
    - /srv/keep
  allowed_roots:
    - /tmp
    - /var/tmp
database_path: /var/lib/obliterate/removals.db
`
	cfg := loadString(t, yaml)

	if cfg.Prometheus.Port != 9311 {
		t.Errorf("port = %d", cfg.Prometheus.Port)
	}
	if cfg.Logging.RotationDays != 7 {
		t.Errorf("rotation_days = %d", cfg.Logging.RotationDays)
	}
	if len(cfg.Safety.AllowedRoots) != 2 || cfg.Safety.AllowedRoots[0] != "/tmp" {
		t.Errorf("allowed_roots = %v", cfg.Safety.AllowedRoots)
	}
	if cfg.DatabasePath != "/var/lib/obliterate/removals.db" {
		t.Errorf("database_path = %s", cfg.DatabasePath)
	}
}

func TestLoadSafetyDisabled(t *testing.T) {
	cfg := loadString(t, "safety:\n  enabled: false\n")
	if cfg.SafetyEnabled() {
		t.Error("Expected safety disabled")
	}
}

func TestLoadRejectsRelativePaths(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"database", "database_path: relative/removals.db\n"},
		{"log file", "logging:\n  file: relative.log\n"},
		{"allowed root", "safety:\n  allowed_roots: ['relative']\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := loadCfg(t, tc.yaml); err == nil {
				t.Errorf("Expected rejection of relative path in %s", tc.name)
			}
		})
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	if _, err := loadCfg(t, "prometheus:\n  port: 123456\n"); err == nil {
		t.Error("Expected rejection of out-of-range port")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := loadCfg(t, "prometheus: [not a mapping\n"); err == nil {
		t.Error("Expected a decode error")
	}
}

func loadCfg(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return Load(path)
}

func loadString(t *testing.T, yaml string) *Config {
	t.Helper()
	cfg, err := loadCfg(t, yaml)
	if err != nil {
		t.Fatalf("Load failed: %v\nyaml:\n%s", err, strings.TrimSpace(yaml))
	}
	return cfg
}
