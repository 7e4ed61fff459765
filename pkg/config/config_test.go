package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.CallTimeout != 5*time.Second {
		t.Fatalf("unexpected CallTimeout: %v", cfg.CallTimeout)
	}
	if cfg.EnrichStrategy != EnrichSequential {
		t.Fatalf("unexpected EnrichStrategy: %q", cfg.EnrichStrategy)
	}
}

func TestLoadRejectsBadStrategy(t *testing.T) {
	t.Setenv("ENRICH_STRATEGY", "parallel-ish")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("CALL_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparsable timeout")
	}
}

func TestLoadSplitsBrokers(t *testing.T) {
	t.Setenv("KAFKA_ADDR", "k1:9092,k2:9092")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
}
