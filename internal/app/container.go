// Package app wires the application together: storage, signal sources, the
// trigger and action registries, the engine, and the application service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/postpulse/postpulse/internal/automations/action"
	"github.com/postpulse/postpulse/internal/automations/application"
	"github.com/postpulse/postpulse/internal/automations/domain"
	"github.com/postpulse/postpulse/internal/automations/engine"
	"github.com/postpulse/postpulse/internal/automations/infrastructure/persistence"
	"github.com/postpulse/postpulse/internal/automations/stats"
	"github.com/postpulse/postpulse/internal/automations/trigger"
	"github.com/postpulse/postpulse/internal/content"
	"github.com/postpulse/postpulse/internal/shared/infrastructure/eventbus"
	"github.com/postpulse/postpulse/internal/signals"
	"github.com/postpulse/postpulse/pkg/config"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Storage
	SQLiteDB    *sql.DB
	PostgresDB  *pgxpool.Pool
	RedisClient *redis.Client

	// Repositories
	RuleRepo      domain.RuleRepository
	ExecutionRepo domain.ExecutionRepository

	// Signals and content
	Publisher content.Publisher
	Generator content.Generator

	// Engine assembly
	Triggers         *trigger.Registry
	Actions          *action.Executor
	MilestoneTracker *trigger.MilestoneTracker
	EventPublisher   eventbus.Publisher
	Engine           *engine.Engine

	// Application
	Service    *application.Service
	Aggregator *stats.Aggregator
}

// NewContainer builds a fully wired container. The database backend is picked
// from the DATABASE_URL scheme: postgres:// selects PostgreSQL, anything else
// is treated as a SQLite path.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.initStorage(ctx); err != nil {
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.initEventPublisher()
	c.initEngine()

	c.Aggregator = stats.NewAggregator(c.RuleRepo, c.ExecutionRepo, nil)
	c.Service = application.NewService(c.RuleRepo, c.ExecutionRepo, c.Aggregator)

	return c, nil
}

func (c *Container) initStorage(ctx context.Context) error {
	if strings.HasPrefix(c.Config.DatabaseURL, "postgres://") || strings.HasPrefix(c.Config.DatabaseURL, "postgresql://") {
		pool, err := pgxpool.New(ctx, c.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		if err := persistence.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		c.PostgresDB = pool
		c.RuleRepo = persistence.NewPostgresRuleRepository(pool)
		c.ExecutionRepo = persistence.NewPostgresExecutionRepository(pool)
		c.Logger.Info("connected to PostgreSQL")
		return nil
	}

	dsn := strings.TrimPrefix(c.Config.DatabaseURL, "sqlite://")
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// modernc.org/sqlite does not support concurrent writers on one connection pool
	db.SetMaxOpenConns(1)
	if err := persistence.Migrate(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	c.SQLiteDB = db
	c.RuleRepo = persistence.NewSQLiteRuleRepository(db)
	c.ExecutionRepo = persistence.NewSQLiteExecutionRepository(db)
	c.Logger.Info("opened SQLite database", "path", dsn)
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, milestone store will use in-memory fallback", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, milestone store will use in-memory fallback", "error", err)
		return nil
	}

	c.RedisClient = client
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) initEventPublisher() {
	if c.Config.RabbitMQURL == "" {
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return
	}

	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return
	}
	c.EventPublisher = publisher
}

func (c *Container) initEngine() {
	c.Publisher = signals.NewDemoPublisher(c.Logger)
	c.Generator = content.NewBreakerGenerator(content.NewDemoGenerator(), content.DefaultBreakerConfig())

	var milestoneStore domain.MilestoneStore
	if c.RedisClient != nil {
		milestoneStore = persistence.NewRedisMilestoneStore(c.RedisClient)
	} else {
		milestoneStore = persistence.NewMemoryMilestoneStore()
	}
	c.MilestoneTracker = trigger.NewMilestoneTracker(c.Publisher, milestoneStore)

	c.Triggers = trigger.NewRegistry(c.Config.SignalTimeout, c.Logger)
	c.Triggers.Register(trigger.NewTimeEvaluator())
	c.Triggers.Register(trigger.NewEngagementEvaluator(c.Publisher))
	c.Triggers.Register(trigger.NewTrendingEvaluator(c.Publisher))
	c.Triggers.Register(trigger.NewMilestoneEvaluator(c.MilestoneTracker))
	c.Triggers.Register(trigger.NewPerformanceEvaluator(signals.NewPerformanceAverage(c.Publisher, 0)))
	// No competitor signal source is wired yet; competitor_activity rules
	// log an evaluation warning and stay dormant.

	c.Actions = action.NewExecutor(c.Logger)
	c.Actions.Register(action.NewCreatePostHandler(c.Generator, c.Logger))
	c.Actions.Register(action.NewSchedulePostHandler())
	c.Actions.Register(action.NewEngageHandler())
	c.Actions.Register(action.NewFollowUsersHandler())
	c.Actions.Register(action.NewAnalyzePerformanceHandler())
	c.Actions.Register(action.NewSendNotificationHandler(c.Logger))

	c.Engine = engine.New(
		c.RuleRepo,
		c.ExecutionRepo,
		c.Triggers,
		c.Actions,
		engine.Config{
			PollInterval: c.Config.EnginePollInterval,
			ErrorBackoff: c.Config.EngineErrorBackoff,
		},
		c.Logger,
		engine.WithMilestoneTracker(c.MilestoneTracker),
		engine.WithEventPublisher(c.EventPublisher),
	)
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close Redis client", "error", err)
		}
	}
	if c.PostgresDB != nil {
		c.PostgresDB.Close()
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("failed to close database", "error", err)
		}
	}
}
