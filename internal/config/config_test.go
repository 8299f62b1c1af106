package config

import (
	"testing"

	"autolyze/internal/cluster"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want gpt-4o-mini", cfg.AI.Model)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Engine.Epsilon != cluster.DefaultEpsilon || cfg.Engine.MinPoints != cluster.DefaultMinPoints {
		t.Errorf("engine defaults = %v/%v", cfg.Engine.Epsilon, cfg.Engine.MinPoints)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DBSCAN_EPSILON", "1.25")
	t.Setenv("DBSCAN_MIN_POINTS", "3")
	t.Setenv("OPENAI_API_KEY", "secret")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.AI.Token != "secret" {
		t.Errorf("token = %q", cfg.AI.Token)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}

	density := cfg.DensityConfig()
	if density.Epsilon != 1.25 || density.MinPoints != 3 {
		t.Errorf("density config = %+v", density)
	}
}

func TestLoad_TokenPrecedence(t *testing.T) {
	t.Setenv("AIPROXY_TOKEN", "proxy")
	t.Setenv("OPENAI_API_KEY", "direct")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.AI.Token != "proxy" {
		t.Errorf("token = %q, want the proxy token to win", cfg.AI.Token)
	}
}

func TestLoad_RejectsInvalidEngineParams(t *testing.T) {
	t.Setenv("DBSCAN_EPSILON", "-0.5")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for negative epsilon")
	}
}
