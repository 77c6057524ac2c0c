package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsEnvOnly(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("env-only load: %v", err)
	}

	if cfg.Server.HTTPAddr != ":8080" {
		t.Fatalf("http addr = %q, want :8080", cfg.Server.HTTPAddr)
	}
	if cfg.Narrative.TickSpec != "@every 30s" {
		t.Fatalf("tick spec = %q, want @every 30s", cfg.Narrative.TickSpec)
	}
	if cfg.Narrative.EventMemory != 168*time.Hour {
		t.Fatalf("event memory = %v, want 168h", cfg.Narrative.EventMemory)
	}
	if cfg.Narrative.MaxConcurrentEvents != 10 {
		t.Fatalf("max concurrent events = %d, want 10", cfg.Narrative.MaxConcurrentEvents)
	}
	if cfg.Metrics.RecalcSpec != "@every 1h" {
		t.Fatalf("recalc spec = %q, want @every 1h", cfg.Metrics.RecalcSpec)
	}
	if !cfg.Insights.Enabled || cfg.Insights.MaxAssets != 20 {
		t.Fatalf("insights defaults = %+v", cfg.Insights)
	}
	if cfg.Sim.TickSpec != "@every 15s" || cfg.Sim.MaxAssets != 500 {
		t.Fatalf("sim defaults = %+v", cfg.Sim)
	}
	if cfg.Sim.BaseVolatility != 0.025 || cfg.Sim.NoiseScale != 0.5 {
		t.Fatalf("sim volatility defaults = %+v", cfg.Sim)
	}
	if cfg.Stream.WriteTimeout != 5*time.Second || cfg.Stream.BufferSize != 64 {
		t.Fatalf("stream defaults = %+v", cfg.Stream)
	}
	if cfg.DB.MaxOpenConns != 20 || cfg.DB.Timezone != "UTC" {
		t.Fatalf("db defaults = %+v", cfg.DB)
	}
}

func TestLoadMissingFileFailsWhenRequired(t *testing.T) {
	if _, err := Load("does-not-exist.yaml", false); err == nil {
		t.Fatalf("missing config file accepted")
	}
}
