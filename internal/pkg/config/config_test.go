package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(env),
	})
	if err != nil {
		return nil, err
	}
	return &cfg, cfg.Validate()
}

func TestDefaults(t *testing.T) {
	cfg, err := load(t, map[string]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Storage != StorageMemory || cfg.SessionBackend != StorageMemory {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.SessionStaleFallback {
		t.Error("stale session fallback must default to true")
	}
	if cfg.TokenTTL != 12*time.Hour || cfg.Redis.SessionTTL != 168*time.Hour {
		t.Errorf("unexpected durations: %v %v", cfg.TokenTTL, cfg.Redis.SessionTTL)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"mongo and redis", map[string]string{"STORAGE": "mongo", "SESSION_BACKEND": "redis"}, false},
		{"unknown storage", map[string]string{"STORAGE": "sqlite"}, true},
		{"unknown session backend", map[string]string{"SESSION_BACKEND": "cookie"}, true},
		{"production without secret", map[string]string{"ENV": "production"}, true},
		{"production with secret", map[string]string{"ENV": "production", "JWT_SECRET": "s"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(t, tc.env)
			if (err != nil) != tc.wantErr {
				t.Errorf("wantErr=%v, got %v", tc.wantErr, err)
			}
		})
	}
}
