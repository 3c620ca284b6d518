package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pinbox/pinbox/internal/api"
	"github.com/pinbox/pinbox/internal/config"
	"github.com/pinbox/pinbox/internal/keygen"
	"github.com/pinbox/pinbox/internal/metrics"
	"github.com/pinbox/pinbox/internal/store"
	"github.com/pinbox/pinbox/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to config file; leave empty to run with built-in defaults")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("pinbox-server starting", "config", *configPath)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"ttl", cfg.Server.Pins.TTL,
		"reap_interval", cfg.Server.Pins.ReapInterval,
		"key_length", cfg.Server.Pins.KeyLength,
		"max_payload_bytes", cfg.Server.Pins.MaxPayloadBytes,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Pin store with background TTL reaping.
	gen := keygen.New(cfg.Server.Pins.Alphabet, cfg.Server.Pins.KeyLength)
	reg := metrics.NewRegistry()
	st := store.New(gen, reg, store.Options{
		TTL:             cfg.Server.Pins.TTL,
		ReapInterval:    cfg.Server.Pins.ReapInterval,
		MaxPayloadBytes: cfg.Server.Pins.MaxPayloadBytes,
		MaxRetries:      cfg.Server.Pins.MaxGenerateRetries,
		Shards:          cfg.Server.Pins.Shards,
	})
	go st.Run(ctx)

	// Hot-reload of the limits that can change without a restart. Pin shape
	// and port changes need a new process.
	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, func(c *config.Config) {
				st.SetLimits(c.Server.Pins.TTL, c.Server.Pins.MaxPayloadBytes)
				slog.Info("applied reloaded limits",
					"ttl", c.Server.Pins.TTL,
					"max_payload_bytes", c.Server.Pins.MaxPayloadBytes,
				)
			})
			if err != nil {
				slog.Error("config watch stopped", "err", err)
			}
		}()
	}

	// WebSocket hub — streams exchange stats to dashboard clients.
	hub := ws.New(st, reg, cfg.Server.Stats.Interval)
	go hub.Run(ctx)

	httpMux := http.NewServeMux()
	httpMux.Handle("/", api.New(st))
	httpMux.Handle("/metrics", reg.Handler(func() metrics.GaugeSnapshot {
		s := st.Stats()
		return metrics.GaugeSnapshot{Live: s.Live, Filled: s.Filled, Namespaces: s.Namespaces}
	}))
	httpMux.Handle("/ws/stats", hub)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("pinbox-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
