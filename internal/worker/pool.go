// Package worker runs game reports through the engine on a bounded pool.
// HTTP ingestion only enqueues; parsing, the shot-attempt sink and the
// tally publication happen here:
// - Load shedding when the queue is full
// - One game per job, games processed concurrently
// - Graceful shutdown that drains queued games

package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/openhockey/pbp-engine/internal/logic"
	"github.com/openhockey/pbp-engine/internal/models"
	"github.com/openhockey/pbp-engine/internal/store"
)

var (
	// ErrQueueClosed is returned once Stop has been called
	ErrQueueClosed = errors.New("worker queue closed")
	// ErrQueueFull is returned when the queue has no room left
	ErrQueueFull = errors.New("worker queue full")
)

// Prometheus metrics
var (
	gamesEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pbp_games_enqueued_total",
		Help: "Total number of game reports accepted into the queue",
	})

	gamesParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pbp_games_parsed_total",
		Help: "Total number of games fully processed",
	})

	gamesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pbp_games_failed_total",
		Help: "Total number of games that failed processing",
	})

	gamesShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pbp_games_load_shed_total",
		Help: "Total number of game reports refused because the queue was full or closed",
	})

	rowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pbp_rows_skipped_total",
		Help: "Total number of report rows skipped as malformed",
	})

	coordinatesUnresolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pbp_coordinates_unresolved_total",
		Help: "Total number of ambiguous events left without coordinates",
	})

	parseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pbp_game_parse_duration_seconds",
		Help:    "Duration of a full game parse including sinks",
		Buckets: prometheus.DefBuckets,
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pbp_worker_queue_depth",
		Help: "Current depth of the worker queue",
	})
)

// ShotAttemptSink receives the derived shot-attempt records of a game
type ShotAttemptSink interface {
	WriteShotAttempts(ctx context.Context, gameID int64, attempts []*models.ShotAttempt) error
}

// GamePublisher announces a parsed game
type GamePublisher interface {
	PublishGame(ctx context.Context, summary store.GameSummary) error
}

// Job represents one game report waiting for a worker
type Job struct {
	Report   *models.GameReport
	Received time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount int
	QueueSize   int
	GameTimeout time.Duration
	Engine      logic.GameParser
	Sink        ShotAttemptSink
	Publisher   GamePublisher
	Logger      *zap.Logger
}

// Pool manages the workers parsing games
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.GameTimeout <= 0 {
		cfg.GameTimeout = 2 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"gameTimeout", p.config.GameTimeout,
	)
}

// Stop refuses new games, lets the workers drain the queue and waits for them
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobQueue)
	p.mu.Unlock()

	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.logger.Info("Worker pool stopped")
}

// Submit queues a game without blocking
func (p *Pool) Submit(report *models.GameReport) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		gamesShed.Inc()
		return ErrQueueClosed
	}

	select {
	case p.jobQueue <- Job{Report: report, Received: time.Now()}:
		gamesEnqueued.Inc()
		return nil
	default:
		gamesShed.Inc()
		p.logger.Warnw("Worker queue full, dropping game", "game_id", report.GameID, "queueSize", p.config.QueueSize)
		return ErrQueueFull
	}
}

// Enqueue reports whether the game was accepted
func (p *Pool) Enqueue(report *models.GameReport) bool {
	return p.Submit(report) == nil
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes jobs until the queue is closed and empty
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debugw("Worker started", "worker", id)
	for job := range p.jobQueue {
		p.process(id, job)
	}
	p.logger.Debugw("Worker finished", "worker", id)
}

// process parses one game, sinks its shot attempts and publishes its tally
func (p *Pool) process(id int, job Job) {
	ctx, cancel := context.WithTimeout(p.ctx, p.config.GameTimeout)
	defer cancel()

	gameID := job.Report.GameID
	start := time.Now()
	defer func() { parseDuration.Observe(time.Since(start).Seconds()) }()

	res, err := p.config.Engine.ParseGame(ctx, job.Report)
	if err != nil {
		gamesFailed.Inc()
		p.logger.Errorw("Game parse failed", "worker", id, "game_id", gameID, "error", err)
		return
	}
	rowsSkipped.Add(float64(res.Skipped))
	coordinatesUnresolved.Add(float64(res.Unresolved))

	attempts := res.ShotAttempts()
	if p.config.Sink != nil {
		if err := p.config.Sink.WriteShotAttempts(ctx, gameID, attempts); err != nil {
			gamesFailed.Inc()
			p.logger.Errorw("Shot attempt sink failed", "worker", id, "game_id", gameID, "error", err)
			return
		}
	}

	if p.config.Publisher != nil {
		if err := p.config.Publisher.PublishGame(ctx, summarize(res, len(attempts))); err != nil {
			p.logger.Warnw("Failed to publish game summary", "worker", id, "game_id", gameID, "error", err)
		}
	}

	gamesParsed.Inc()
	p.logger.Infow("Game processed",
		"worker", id,
		"game_id", gameID,
		"events", len(res.Events),
		"shotAttempts", len(attempts),
		"waited", start.Sub(job.Received),
		"duration", time.Since(start),
	)
}

func summarize(res *logic.Result, attempts int) store.GameSummary {
	return store.GameSummary{
		GameID:        res.GameID,
		Tally:         res.Tally,
		Events:        len(res.Events),
		Entities:      len(res.Entities),
		ShotAttempts:  attempts,
		Skipped:       res.Skipped,
		Unresolved:    res.Unresolved,
		Invalid:       res.Invalid,
		ScoreMismatch: res.ScoreMismatch,
		ParsedAt:      time.Now().UTC(),
	}
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
