// Command mcp starts the Model Context Protocol tool server exposing
// generate_schedule.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/bja1701/life-os/internal/app"
	mcpinternal "github.com/bja1701/life-os/internal/mcp"
	"github.com/bja1701/life-os/pkg/config"
	"github.com/bja1701/life-os/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	logger := observability.LoggerFromEnv()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
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

	if err := mcpinternal.Serve(ctx, cfg, container, userID, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
