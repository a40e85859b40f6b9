package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/openhockey/pbp-engine/internal/models"
)

// Gateway is the find/upsert contract shared by every store
type Gateway interface {
	Find(ctx context.Context, key models.Key) (models.Entity, bool, error)
	Upsert(ctx context.Context, entity models.Entity) (models.Entity, error)
}

// BreakerConfig configures the circuit breaker around a gateway
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
	Logger           *zap.Logger
}

// Breaker stops calling a gateway after consecutive failures until the
// timeout elapses
type Breaker struct {
	name string
	next Gateway
	cb   *gobreaker.CircuitBreaker[models.Entity]
}

// NewBreaker wraps a gateway
func NewBreaker(next Gateway, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Name == "" {
		cfg.Name = "gateway"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			sugar.Warnw("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		// cancellations are the caller's doing, not the store's
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	}

	return &Breaker{
		name: cfg.Name,
		next: next,
		cb:   gobreaker.NewCircuitBreaker[models.Entity](settings),
	}
}

// Find runs the wrapped Find through the breaker
func (b *Breaker) Find(ctx context.Context, key models.Key) (models.Entity, bool, error) {
	found := false
	entity, err := b.cb.Execute(func() (models.Entity, error) {
		e, ok, err := b.next.Find(ctx, key)
		found = ok
		return e, err
	})
	if err != nil {
		return nil, false, err
	}
	return entity, found, nil
}

// Upsert runs the wrapped Upsert through the breaker
func (b *Breaker) Upsert(ctx context.Context, entity models.Entity) (models.Entity, error) {
	return b.cb.Execute(func() (models.Entity, error) {
		return b.next.Upsert(ctx, entity)
	})
}

// State returns the breaker state name
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Ping fails while the breaker is open so readiness reports the gateway down
func (b *Breaker) Ping(ctx context.Context) error {
	if b.State() == gobreaker.StateOpen.String() {
		return fmt.Errorf("%s: %w", b.name, gobreaker.ErrOpenState)
	}
	return nil
}
