// Package mcp exposes the scheduler as a Model Context Protocol tool
// server, so an LLM planning assistant can call generate_schedule
// without the scheduler itself ever talking to an LLM.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"

	"github.com/bja1701/life-os/internal/app"
	scheduling "github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/bja1701/life-os/internal/scheduling/engine"
	"github.com/bja1701/life-os/pkg/config"
	"github.com/google/uuid"
)

type generateScheduleInput struct {
	Date string `json:"date,omitempty" jsonschema:"description=optional ISO date to anchor planning at, defaults to now"`
}

type blockOutput struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"duration_minutes"`
	Tier            string `json:"tier"`
}

type generateScheduleOutput struct {
	Blocks     []blockOutput `json:"blocks"`
	Overloaded []string      `json:"overloaded"`
	Warnings   []string      `json:"warnings"`
}

// Serve starts an MCP server exposing generate_schedule and blocks until
// ctx is canceled.
func Serve(ctx context.Context, cfg *config.Config, container *app.Container, userID uuid.UUID, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if container == nil {
		return errors.New("container is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv := mcpgo.NewServer(mcpgo.ServerInfo{
		Name:    "life-os-mcp",
		Version: "1.0.0",
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	})

	srv.Tool("generate_schedule").
		Description("Generate the deterministic schedule from current tasks and calendar occupations").
		Handler(func(toolCtx context.Context, input generateScheduleInput) (generateScheduleOutput, error) {
			now := time.Now()
			if input.Date != "" {
				if parsed, err := time.Parse("2006-01-02", input.Date); err == nil {
					now = parsed
				}
			}

			tasksList, err := container.TaskRepo.FindByUserID(toolCtx, userID)
			if err != nil {
				return generateScheduleOutput{}, err
			}

			items := make([]scheduling.Item, 0, len(tasksList))
			for _, t := range tasksList {
				items = append(items, t.ToItem())
			}

			var occupations []scheduling.Occupation
			if container.Syncer != nil {
				horizonEnd := now.AddDate(0, 0, container.Config.CalendarSyncLookAheadDays)
				occupations, _ = container.Syncer.PullOccupations(toolCtx, now, horizonEnd)
			}

			result, err := container.Scheduler.Generate(toolCtx, now, occupations, items, container.SchedulingConfig())
			if err != nil {
				return generateScheduleOutput{}, err
			}

			return toOutput(result), nil
		})

	adapter := mcpLogger{logger: logger}
	stack := middleware.DefaultStack(adapter)

	if cfg.MCPAuthToken != "" {
		authenticator := middleware.BearerTokenAuthenticator(middleware.StaticTokens(map[string]*middleware.Identity{
			cfg.MCPAuthToken: {ID: "mcp", Name: "mcp"},
		}))
		stack = append([]middleware.Middleware{middleware.Auth(authenticator, middleware.WithAuthLogger(adapter))}, stack...)
	} else {
		logger.Warn("MCP auth token not set; requests will be unauthenticated")
	}

	logger.Info("mcp server listening", "addr", cfg.MCPAddr)
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.MCPAddr, nil, mcpgo.WithMiddleware(stack...))
}

func toOutput(result engine.Result) generateScheduleOutput {
	out := generateScheduleOutput{
		Overloaded: result.Overloaded,
	}
	for _, b := range result.ScheduledBlocks {
		out.Blocks = append(out.Blocks, blockOutput{
			ID:              b.ID,
			Title:           b.Title,
			Start:           b.Start.Format(time.RFC3339),
			End:             b.End.Format(time.RFC3339),
			DurationMinutes: b.DurationMinutes,
			Tier:            b.Tier.String(),
		})
	}
	for _, w := range result.Warnings {
		out.Warnings = append(out.Warnings, w.Kind.String()+": "+w.Message)
	}
	return out
}

type mcpLogger struct {
	logger *slog.Logger
}

func (l mcpLogger) Info(msg string, fields ...middleware.Field) {
	l.logger.Info(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Error(msg string, fields ...middleware.Field) {
	l.logger.Error(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Debug(msg string, fields ...middleware.Field) {
	l.logger.Debug(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Warn(msg string, fields ...middleware.Field) {
	l.logger.Warn(msg, fieldsToArgs(fields)...)
}

func fieldsToArgs(fields []middleware.Field) []any {
	args := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		args = append(args, field.Key, field.Value)
	}
	return args
}
