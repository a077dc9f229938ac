// Package app wires the repositories, collaborators, and services every
// entry point (CLI, worker, MCP server) needs into a single Container,
// chosen once at process startup from config.Config.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/bja1701/life-os/internal/calendarsync"
	identityInfra "github.com/bja1701/life-os/internal/identity/infrastructure"
	"github.com/bja1701/life-os/internal/identity/oauth"
	schedulingApp "github.com/bja1701/life-os/internal/scheduling/application"
	schedulingDomain "github.com/bja1701/life-os/internal/scheduling/domain"
	sharedCrypto "github.com/bja1701/life-os/internal/shared/infrastructure/crypto"
	"github.com/bja1701/life-os/internal/shared/infrastructure/cache"
	"github.com/bja1701/life-os/internal/shared/infrastructure/eventbus"
	"github.com/bja1701/life-os/internal/tasks"
	tasksInfra "github.com/bja1701/life-os/internal/tasks/infrastructure"
	"github.com/bja1701/life-os/pkg/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// Container holds every dependency an entry point needs.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	TaskRepo tasks.Repository

	OAuthService *oauth.Service
	Syncer       *calendarsync.Syncer

	Scheduler *schedulingApp.Service

	pool  *pgxpool.Pool
	sqlDB *sql.DB
	redis *redis.Client
	amqp  eventbus.Publisher
}

// NewContainer connects to storage and builds every collaborator
// described by cfg, failing fast unless cfg.IsDevelopment() allows a
// degraded (noop/in-memory) fallback for optional services.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{Config: cfg, Logger: logger}

	if err := c.wireTaskStorage(ctx, cfg, logger); err != nil {
		return nil, err
	}
	if err := c.wireOAuth(cfg); err != nil {
		return nil, err
	}
	c.wireCalendarSync(ctx, cfg, logger)
	c.wireCacheAndEvents(ctx, cfg, logger)

	c.Scheduler = schedulingApp.NewService(c.cacheOrNil(cfg), c.amqp, logger)

	return c, nil
}

func (c *Container) wireTaskStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.IsSQLite() {
		repo, err := tasksInfra.OpenSQLiteTaskRepository(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite task store: %w", err)
		}
		c.TaskRepo = repo
		logger.Info("using sqlite task store", "path", cfg.SQLitePath)
		return nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	c.pool = pool
	c.TaskRepo = tasksInfra.NewPostgresTaskRepository(pool)
	logger.Info("connected to postgres task store")
	return nil
}

func (c *Container) wireOAuth(cfg *config.Config) error {
	if cfg.OAuthProvider == "" {
		return nil
	}

	encrypter, err := sharedCrypto.NewAESGCMFromBase64Key(cfg.EncryptionKey)
	if err != nil {
		if cfg.IsDevelopment() {
			c.Logger.Warn("oauth encryption key not configured, calendar identity disabled", "error", err)
			return nil
		}
		return fmt.Errorf("failed to initialize token encryption: %w", err)
	}

	var repo oauth.TokenRepository
	if cfg.IsSQLite() {
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite token store: %w", err)
		}
		c.sqlDB = db
		sqliteRepo, err := identityInfra.OpenSQLiteOAuthTokenRepository(db)
		if err != nil {
			return fmt.Errorf("failed to prepare sqlite token store: %w", err)
		}
		repo = sqliteRepo
	} else {
		repo = identityInfra.NewPostgresOAuthTokenRepository(c.pool)
	}

	svc, err := oauth.NewService(
		cfg.OAuthProvider, cfg.OAuthClientID, cfg.OAuthClientSecret,
		cfg.OAuthAuthURL, cfg.OAuthTokenURL, cfg.OAuthRedirectURL,
		oauth.ScopesFromEnv(cfg.OAuthScopes), repo, encrypter,
	)
	if err != nil {
		return fmt.Errorf("failed to configure oauth service: %w", err)
	}
	c.OAuthService = svc
	return nil
}

// wireCalendarSync builds the calendar syncer, preferring the OAuth
// service's token source over static Basic Auth credentials so the
// same syncer works with both app-specific-password providers (Apple,
// Fastmail) and OAuth2 providers.
func (c *Container) wireCalendarSync(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	if !cfg.CalendarSyncEnabled || cfg.CalendarURL == "" {
		return
	}

	syncer := calendarsync.NewSyncer(cfg.CalendarURL, cfg.CalendarUsername, cfg.CalendarPassword, logger, calendarsync.DefaultBreakerSettings()).
		WithCalendarPath(cfg.CalendarID)

	if c.OAuthService != nil {
		userID, err := parseUserID(cfg.UserID)
		if err != nil {
			logger.Warn("invalid user id, calendar sync falling back to basic auth", "error", err)
		} else if source, err := c.OAuthService.TokenSource(ctx, userID); err != nil {
			logger.Warn("no oauth token stored yet, calendar sync falling back to basic auth", "error", err)
		} else {
			syncer = syncer.WithOAuthTokenSource(source)
		}
	}

	c.Syncer = syncer
}

func (c *Container) wireCacheAndEvents(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid redis url, result caching disabled", "error", err)
		} else {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis not available, result caching disabled", "error", err)
			} else {
				c.redis = client
				logger.Info("connected to redis")
			}
		}
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("rabbitmq not available, events will not be published", "error", err)
			c.amqp = eventbus.NewNoopPublisher(logger)
		} else {
			c.amqp = publisher
		}
	} else {
		c.amqp = eventbus.NewNoopPublisher(logger)
	}
}

func (c *Container) cacheOrNil(cfg *config.Config) schedulingApp.ResultCache {
	if c.redis == nil {
		return nil
	}
	userID, err := parseUserID(cfg.UserID)
	if err != nil {
		return nil
	}
	return cache.New(c.redis, userID)
}

// SchedulingConfig projects the process-wide Config onto the core's
// domain.Config, applying spec §3's defaults for anything left zero.
func (c *Container) SchedulingConfig() schedulingDomain.Config {
	return schedulingDomain.Config{
		DayStartHour:          c.Config.DayStartHour,
		DayEndHour:            c.Config.DayEndHour,
		FamilyTimeStartHour:   c.Config.FamilyTimeStartHour,
		PlanningHorizonDays:   c.Config.PlanningHorizonDays,
		MaxItemsPerGoalPerDay: c.Config.MaxItemsPerGoalPerDay,
	}.WithDefaults()
}

func parseUserID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

// Close releases every connection the container opened.
func (c *Container) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
	if c.sqlDB != nil {
		c.sqlDB.Close()
	}
	if c.redis != nil {
		c.redis.Close()
	}
	if c.amqp != nil {
		_ = c.amqp.Close()
	}
}
