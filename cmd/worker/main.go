// Command worker periodically regenerates the schedule and pushes newly
// placed blocks to the configured calendar.
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

	"github.com/bja1701/life-os/internal/app"
	scheduling "github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/bja1701/life-os/pkg/config"
	"github.com/bja1701/life-os/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting life-os worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Error("invalid LIFE_OS_USER_ID", "error", err)
		os.Exit(1)
	}

	stats := &runStats{}

	if cfg.WorkerHealthAddr != "" {
		startHealthServer(ctx, cfg.WorkerHealthAddr, stats, logger)
	}

	interval := cfg.CalendarSyncInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runOnce(ctx, container, userID, stats, logger)
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopped")
			return
		case <-ticker.C:
			runOnce(ctx, container, userID, stats, logger)
		}
	}
}

type runStats struct {
	lastRunAt  time.Time
	lastError  string
	runCount   int
	pushCount  int
}

func runOnce(ctx context.Context, container *app.Container, userID uuid.UUID, stats *runStats, logger *slog.Logger) {
	stats.runCount++
	stats.lastRunAt = time.Now()

	tasksList, err := container.TaskRepo.FindByUserID(ctx, userID)
	if err != nil {
		stats.lastError = err.Error()
		logger.Error("failed to load tasks", "error", err)
		return
	}

	items := make([]scheduling.Item, 0, len(tasksList))
	for _, t := range tasksList {
		items = append(items, t.ToItem())
	}

	var occupations []scheduling.Occupation
	if container.Syncer != nil {
		now := time.Now()
		horizonEnd := now.AddDate(0, 0, container.Config.CalendarSyncLookAheadDays)
		occupations, err = container.Syncer.PullOccupations(ctx, now, horizonEnd)
		if err != nil {
			logger.Warn("failed to pull calendar occupations", "error", err)
		}
	}

	result, err := container.Scheduler.Generate(ctx, time.Now(), occupations, items, container.SchedulingConfig())
	if err != nil {
		stats.lastError = err.Error()
		logger.Error("failed to generate schedule", "error", err)
		return
	}

	logger.Info("schedule generated", "scheduled", len(result.ScheduledBlocks), "overloaded", len(result.Overloaded), "warnings", len(result.Warnings))

	if container.Syncer != nil {
		syncResult, err := container.Syncer.Push(ctx, result.ScheduledBlocks)
		if err != nil {
			stats.lastError = err.Error()
			logger.Error("failed to push schedule to calendar", "error", err)
			return
		}
		stats.pushCount++
		logger.Info("pushed schedule to calendar", "created", syncResult.Created, "updated", syncResult.Updated, "deleted", syncResult.Deleted, "failed", syncResult.Failed)
	}
}

func startHealthServer(ctx context.Context, addr string, stats *runStats, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":      "ok",
			"run_count":   stats.runCount,
			"push_count":  stats.pushCount,
			"last_run_at": stats.lastRunAt,
			"last_error":  stats.lastError,
		})
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("health server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
