package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Env != "dev" {
		t.Errorf("expected dev env, got %q", cfg.Env)
	}
	if cfg.VisionModel != "gpt-4o" {
		t.Errorf("expected gpt-4o default model, got %q", cfg.VisionModel)
	}
	if cfg.VisionTimeout != 30*time.Second {
		t.Errorf("expected 30s vision timeout, got %s", cfg.VisionTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected wildcard CORS default, got %v", cfg.CORSOrigins)
	}
}

func TestSplitEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com ,")

	got := splitEnv("CORS_ORIGINS", "*")
	if len(got) != 2 {
		t.Fatalf("expected 2 origins, got %v", got)
	}
	if got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Errorf("unexpected origins: %v", got)
	}
}

func TestDurationEnvInvalid(t *testing.T) {
	t.Setenv("VISION_TIMEOUT", "not-a-duration")

	if got := durationEnv("VISION_TIMEOUT", 10*time.Second); got != 10*time.Second {
		t.Errorf("expected fallback 10s, got %s", got)
	}
}

func TestBoolEnv(t *testing.T) {
	t.Setenv("AUTH_REQUIRED", "1")
	if !boolEnv("AUTH_REQUIRED", false) {
		t.Error("expected true for \"1\"")
	}

	t.Setenv("AUTH_REQUIRED", "false")
	if boolEnv("AUTH_REQUIRED", true) {
		t.Error("expected false for \"false\"")
	}

	t.Setenv("AUTH_REQUIRED", "banana")
	if !boolEnv("AUTH_REQUIRED", true) {
		t.Error("expected fallback for invalid value")
	}
}
