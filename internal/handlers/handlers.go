package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/openhockey/pbp-engine/internal/models"
)

// MaxBodySize limits the size of a game report body to 8MB
const MaxBodySize = 8 << 20

// GameQueue defines the interface for the game worker pool
type GameQueue interface {
	Submit(report *models.GameReport) error
	QueueDepth() int
}

// Pinger is a dependency checked by the readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Config struct {
	WorkerPool GameQueue
	// Checks are reported by name on /ready
	Checks map[string]Pinger
	Logger *zap.Logger
}

type Handler struct {
	pool      GameQueue
	checks    map[string]Pinger
	logger    *zap.SugaredLogger
	validator *validator.Validate
}

func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		pool:      cfg.WorkerPool,
		checks:    cfg.Checks,
		logger:    logger.Sugar(),
		validator: validator.New(),
	}
}
