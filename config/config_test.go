package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `balance:
  seed: 42
  random_passes: 3
metrics:
  prometheus_address: ":9200"
  sinks:
    - type: "nop"
    - type: "influx"
      conf:
        url: "http://influx:8086"
        bucket: "phases"
server:
  address: ":9000"
logging:
  level: "debug"
history:
  type: "sqlite"
  conf:
    path: "/var/lib/phasebal/runs.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"balance.seed", cfg.Balance.Seed, int64(42)},
		{"balance.random_passes", cfg.Balance.RandomPasses, 3},
		{"metrics.prometheus_address", cfg.Metrics.PrometheusAddress, ":9200"},
		{"metrics.sinks", len(cfg.Metrics.Sinks), 2},
		{"metrics.sinks[1].type", cfg.Metrics.Sinks[1].Type, "influx"},
		{"metrics.sinks[1].conf.bucket", cfg.Metrics.Sinks[1].Conf["bucket"], "phases"},
		{"server.address", cfg.Server.Address, ":9000"},
		{"server.read_timeout", cfg.Server.ReadTimeout(), 10 * time.Second},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"history.type", cfg.History.Type, "sqlite"},
		{"history.conf.path", cfg.History.Conf["path"], "/var/lib/phasebal/runs.db"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoad_JSONWithEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.json", `{"server": {"address": ":7000"}}`)
	t.Setenv("K_SERVER__ADDRESS", ":7100")
	t.Setenv("K_BALANCE__RANDOM_PASSES", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Server.Address != ":7100" {
		t.Errorf("env override not applied: %s", cfg.Server.Address)
	}
	if cfg.Balance.RandomPasses != 2 {
		t.Errorf("expected 2 random passes got %d", cfg.Balance.RandomPasses)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default level got %s", cfg.Logging.Level)
	}
}

func TestLoad_YAMLWithNestedEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", "logging:\n  level: warn\nserver:\n  read_timeout_seconds: 3\n")
	t.Setenv("K_LOGGING__LEVEL", "debug")
	t.Setenv("K_SERVER__READ_TIMEOUT_SECONDS", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("env override not applied: %s", cfg.Logging.Level)
	}
	if cfg.Server.ReadTimeoutSeconds != 7 {
		t.Errorf("expected 7s read timeout got %d", cfg.Server.ReadTimeoutSeconds)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(writeConfig(t, "config.toml", "")); err == nil {
		t.Error("expected unsupported format error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected missing file error")
	}
	if _, err := Load(writeConfig(t, "bad.yaml", "logging:\n  level: loud\n")); err == nil {
		t.Error("expected invalid level error")
	}
	if _, err := Load(writeConfig(t, "bad.yaml", "balance:\n  random_passes: 99\n")); err == nil {
		t.Error("expected invalid random_passes error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.Address != ":8080" || cfg.Balance.RandomPasses != 1 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}
