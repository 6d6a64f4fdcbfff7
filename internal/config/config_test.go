package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
log:
  level: debug
  format: json
redis:
  addr: localhost:6379
  ttl: 5m
content:
  withholdAnswers: true
  timeout: 2s
  preload: [quiz-visual, quiz-auditory]
results:
  baseURL: http://results.local
session:
  tick: 1s
  shuffleOnReset: true
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Log.Format != "json" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.Content.WithholdAnswers || len(cfg.Content.Preload) != 2 {
		t.Fatalf("unexpected content section %+v", cfg.Content)
	}
	if cfg.Results.BaseURL != "http://results.local" || !cfg.Session.ShuffleOnReset {
		t.Fatalf("unexpected results/session sections %+v %+v", cfg.Results, cfg.Session)
	}
	if got := TTLDuration(cfg.Session.Tick, 0); got != time.Second {
		t.Fatalf("expected 1s tick, got %s", got)
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for empty, got %s", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for invalid, got %s", got)
	}
}
