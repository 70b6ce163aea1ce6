package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Risk.DailyLossLimit != 5000 {
		t.Fatalf("daily loss limit = %v, want 5000", cfg.Risk.DailyLossLimit)
	}
	if cfg.Decision.MetaLabelThreshold != 0.65 {
		t.Fatalf("meta threshold = %v, want 0.65", cfg.Decision.MetaLabelThreshold)
	}
	if cfg.Watchdog.HeartbeatTimeout != 30*time.Second {
		t.Fatalf("heartbeat timeout = %v, want 30s", cfg.Watchdog.HeartbeatTimeout)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "risk:\n  daily_loss_limit: 2500\nwatchdog:\n  heartbeat_timeout: 15s\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Risk.DailyLossLimit != 2500 {
		t.Fatalf("daily loss limit = %v, want 2500", cfg.Risk.DailyLossLimit)
	}
	if cfg.Watchdog.HeartbeatTimeout != 15*time.Second {
		t.Fatalf("heartbeat timeout = %v", cfg.Watchdog.HeartbeatTimeout)
	}
}

func TestValidateRejectsTimeoutPastTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "watchdog:\n  heartbeat_timeout: 90s\n  heartbeat_ttl: 60s\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("timeout past ttl must fail validation")
	}
}

func TestValidateRejectsKafkaWithoutBrokers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("kafka:\n  enabled: true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("enabled kafka without brokers must fail validation")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("MODEL_SERVICE_URL", "http://models:9000")
	t.Setenv("DAILY_LOSS_LIMIT", "1234")

	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.Redis.Enabled || cfg.Redis.Host != "redis.internal" || cfg.Redis.Port != 6380 {
		t.Fatalf("redis = %+v", cfg.Redis)
	}
	if cfg.ModelService.URL != "http://models:9000" {
		t.Fatalf("model service url = %q", cfg.ModelService.URL)
	}
	if cfg.Risk.DailyLossLimit != 1234 {
		t.Fatalf("daily loss limit = %v", cfg.Risk.DailyLossLimit)
	}
}
