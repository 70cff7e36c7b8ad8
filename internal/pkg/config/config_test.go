package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Session.Store != "memory" || cfg.Session.Cookie != "ecolatam_sid" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.TTL != 7*24*time.Hour || cfg.Roles.CheckTimeout != 5*time.Second {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.Session.TokenKey != "ecolatam_token" || cfg.Session.UserKey != "ecolatam_user" {
		t.Fatalf("unexpected session keys: %+v", cfg.Session)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_BASE":      "https://api.ecolatam.com",
		"SESSION_STORE": "redis",
		"ENV":           "production",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBase != "https://api.ecolatam.com" || cfg.Session.Store != "redis" || !cfg.Production() {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadFrom_UnknownStore(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"SESSION_STORE": "etcd"}))
	if err == nil {
		t.Fatalf("expected error for unknown store")
	}
}
