package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/openhockey/pbp-engine/internal/config"
	"github.com/openhockey/pbp-engine/internal/handlers"
	"github.com/openhockey/pbp-engine/internal/logic"
	"github.com/openhockey/pbp-engine/internal/store"
	"github.com/openhockey/pbp-engine/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server exited", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres
	pgPool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pgPool.Close()

	pg := store.NewPostgres(pgPool, logger)
	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}
	sugar.Info("Connected to Postgres")

	// ClickHouse
	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		return fmt.Errorf("parse CLICKHOUSE_URL: %w", err)
	}
	chConn, err := clickhouse.Open(chOpts)
	if err != nil {
		return fmt.Errorf("connect clickhouse: %w", err)
	}
	defer chConn.Close()

	ch := store.NewClickHouse(chConn, logger)
	if err := ch.EnsureSchema(ctx); err != nil {
		return err
	}
	sugar.Info("Connected to ClickHouse")

	// Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse REDIS_URL: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	publisher := store.NewRedis(redisClient)
	if err := publisher.Ping(ctx); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	sugar.Info("Connected to Redis")

	gateway := store.NewBreaker(pg, store.BreakerConfig{
		Name:             "postgres",
		FailureThreshold: cfg.BreakerFailures,
		Timeout:          cfg.BreakerTimeout,
		Logger:           logger,
	})

	engine := logic.NewEngine(logic.Config{
		Gateway: gateway,
		Logger:  logger,
		Strict:  cfg.StrictValidation,
	})

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.QueueSize,
		GameTimeout: cfg.GameTimeout,
		Engine:      engine,
		Sink:        ch,
		Publisher:   publisher,
		Logger:      logger,
	})
	pool.Start(context.WithoutCancel(ctx))

	h := handlers.New(handlers.Config{
		WorkerPool: pool,
		Checks: map[string]handlers.Pinger{
			"postgres":         pgPool,
			"postgres_breaker": gateway,
			"clickhouse":       ch,
			"redis":            publisher,
		},
		Logger: logger,
	})

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: h.Router(handlers.RouterConfig{
			AllowedOrigins:    cfg.AllowedOrigins,
			RateLimitRequests: cfg.RateLimitRequests,
			RateLimitWindow:   cfg.RateLimitWindow,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sugar.Infow("HTTP server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sugar.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		// queued games are drained after the listener stops accepting
		pool.Stop()
		return err
	})

	return g.Wait()
}
