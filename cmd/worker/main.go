package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/postpulse/postpulse/internal/app"
	"github.com/postpulse/postpulse/pkg/config"
	"github.com/postpulse/postpulse/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting postpulse worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	engine := container.Engine
	engine.Start(ctx)
	logger.Info("automation engine started")

	startHistoryCleanup(ctx, container, cfg, logger)
	startStatsReporting(ctx, container, cfg, logger)

	if cfg.WorkerHealthAddr != "" {
		startHealthServer(ctx, container, cfg, logger)
	}

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")

	engine.Stop()
	logger.Info("worker stopped")
}

// startHistoryCleanup prunes old execution records on an interval. A
// non-positive retention keeps the history forever.
func startHistoryCleanup(ctx context.Context, container *app.Container, cfg *config.Config, logger *slog.Logger) {
	if cfg.HistoryRetentionDays <= 0 {
		logger.Info("history cleanup disabled")
		return
	}

	ticker := time.NewTicker(cfg.HistoryCleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -cfg.HistoryRetentionDays)
				deleted, err := container.ExecutionRepo.DeleteOlderThan(ctx, cutoff)
				if err != nil {
					logger.Error("history cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Info("history cleanup completed",
						"deleted", deleted,
						"retention_days", cfg.HistoryRetentionDays,
					)
				}
			}
		}
	}()
}

// startStatsReporting logs engine counters on an interval.
func startStatsReporting(ctx context.Context, container *app.Container, cfg *config.Config, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.EngineStatsInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := container.Engine.GetStats()
				logger.Info("engine stats",
					"running", stats.IsRunning,
					"ticks", stats.TicksCompleted,
					"evaluated", stats.RulesEvaluated,
					"fired", stats.RulesFired,
					"succeeded", stats.Succeeded,
					"failed", stats.Failed,
					"last_tick_at", stats.LastTickAt,
					"last_error_at", stats.LastErrorAt,
					"last_error", stats.LastError,
				)
			}
		}
	}()
}

func startHealthServer(ctx context.Context, container *app.Container, cfg *config.Config, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := container.Engine.GetStats()
		response := map[string]any{
			"status":        "ok",
			"running":       stats.IsRunning,
			"ticks":         stats.TicksCompleted,
			"fired":         stats.RulesFired,
			"succeeded":     stats.Succeeded,
			"failed":        stats.Failed,
			"last_tick_at":  stats.LastTickAt,
			"last_error_at": stats.LastErrorAt,
			"last_error":    stats.LastError,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pingStorage(checkCtx, container); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ready"})
	})

	healthSrv := &http.Server{
		Addr:              cfg.WorkerHealthAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()
}

func pingStorage(ctx context.Context, container *app.Container) error {
	if container.PostgresDB != nil {
		return container.PostgresDB.Ping(ctx)
	}
	return container.SQLiteDB.PingContext(ctx)
}
