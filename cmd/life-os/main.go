// Command life-os is the CLI entry point.
package main

import (
	"context"
	"os"

	"github.com/bja1701/life-os/adapter/cli"
	_ "github.com/bja1701/life-os/adapter/cli/auth"
	_ "github.com/bja1701/life-os/adapter/cli/schedule"
	_ "github.com/bja1701/life-os/adapter/cli/task"
	"github.com/bja1701/life-os/internal/app"
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

	cli.SetApp(&cli.App{Container: container, CurrentUserID: userID})

	cli.Execute()
}
