package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/flagbind"
	"github.com/eugenenazirov/flagbind/internal/logging"
)

var signalNotify = signal.Notify

// demoConfig is the whole configuration surface of the demo server. Every
// field is reachable as a flag (--rate-limit-rps), an env var
// ($DEMO_RATE_LIMIT_RPS), or a key in the YAML file named by --config.
type demoConfig struct {
	Port                string        `default:"8080"`
	ReadHeaderTimeout   time.Duration `default:"5s"`
	WriteTimeout        time.Duration `default:"15s"`
	IdleTimeout         time.Duration `default:"60s"`
	ShutdownGracePeriod time.Duration `default:"10s"`
	RateLimitRPS        float64       `default:"25"`
	RateLimitBurst      int           `default:"50"`
	LogLevel            string        `default:"info"`
	Debug               bool          `default:"false"`
	Tags                []string
}

func main() {
	var cfg demoConfig
	flagbind.MustBind(&cfg,
		flagbind.Name("flagbind-demo"),
		flagbind.Help("Echo server configured entirely through flagbind"),
		flagbind.EnvPrefix("DEMO_"),
		flagbind.FileFlag("config"),
		flagbind.Default("tags", func() any { return []string{} }),
	)

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	server := newServer(cfg, logger)

	go func() {
		logger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.Strings("tags", cfg.Tags),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	shutdown(server, cfg.ShutdownGracePeriod, logger)
}

// newServer wires the handlers and timeouts from the bound configuration.
func newServer(cfg demoConfig, logger *zap.Logger) *http.Server {
	limiter := newTokenBucketLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "tags": cfg.Tags})
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"query": r.URL.RawQuery})
	})

	handler := rateLimitMiddleware(limiter, mux)
	if cfg.Debug {
		handler = requestLogMiddleware(logger, handler)
	}

	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

func requestLogMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
