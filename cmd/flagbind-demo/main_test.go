package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/flagbind"
)

func bindDemoConfig(t *testing.T, args []string) demoConfig {
	t.Helper()

	var cfg demoConfig
	err := flagbind.Bind(&cfg,
		flagbind.Name("flagbind-demo"),
		flagbind.EnvPrefix("DEMO_"),
		flagbind.Args(args),
		flagbind.LookupEnv(func(string) (string, bool) { return "", false }),
		flagbind.Default("tags", func() any { return []string{} }),
	)
	if err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	return cfg
}

func TestDemoConfigDefaults(t *testing.T) {
	cfg := bindDemoConfig(t, nil)

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.RateLimitRPS != 25 {
		t.Fatalf("unexpected rate limit: %v", cfg.RateLimitRPS)
	}
	if cfg.Tags == nil || len(cfg.Tags) != 0 {
		t.Fatalf("expected empty tags slice, got %v", cfg.Tags)
	}
}

func TestDemoConfigFlags(t *testing.T) {
	cfg := bindDemoConfig(t, []string{"--port", "9000", "--debug", "--tags", "blue", "canary"})

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if !cfg.Debug {
		t.Fatalf("expected debug to be enabled")
	}
	if len(cfg.Tags) != 2 || cfg.Tags[0] != "blue" || cfg.Tags[1] != "canary" {
		t.Fatalf("unexpected tags: %v", cfg.Tags)
	}
}

func TestServerRoutes(t *testing.T) {
	cfg := bindDemoConfig(t, nil)
	server := newServer(cfg, zaptest.NewLogger(t))

	t.Run("healthz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from healthz, got %d", rec.Code)
		}
	})

	t.Run("echo", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/echo?msg=hi", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from echo, got %d", rec.Code)
		}
	})
}
