package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openhockey/pbp-engine/internal/models"
)

// Config configures the engine
type Config struct {
	Gateway Gateway
	Logger  *zap.Logger
	// Strict counts penalties without infraction text and blocks with no
	// resolved participant as invalid. Records are still produced.
	Strict bool
}

// Result is everything produced for one game
type Result struct {
	GameID int64
	// Events holds the final stored envelope of every accepted row, in report order
	Events []*models.Event
	// Entities is the ordered stream of stored entities, envelopes included
	Entities []models.Entity
	Tally    models.Score

	Skipped       int
	Unresolved    int
	Invalid       int
	ScoreMismatch bool
	Duration      time.Duration
}

// ShotAttempts returns the derived shot-attempt records of the stream
func (r *Result) ShotAttempts() []*models.ShotAttempt {
	var out []*models.ShotAttempt
	for _, e := range r.Entities {
		if sa, ok := e.(*models.ShotAttempt); ok {
			out = append(out, sa)
		}
	}
	return out
}

// Engine reconstructs typed events from game reports
type Engine struct {
	gateway Gateway
	logger  *zap.SugaredLogger
	strict  bool
}

// NewEngine creates an engine
func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		gateway: cfg.Gateway,
		logger:  logger.Sugar(),
		strict:  cfg.Strict,
	}
}

// gameContext is the per-game state threaded through one parse. Nothing in
// it is shared between games.
type gameContext struct {
	game       *models.GameReport
	gateway    Gateway
	logger     *zap.SugaredLogger
	strict     bool
	score      *ScoreTracker
	reconciler *Reconciler
	result     *Result
}

// ParseGame processes the rows of one game strictly in report order
func (e *Engine) ParseGame(ctx context.Context, report *models.GameReport) (*Result, error) {
	if report == nil {
		return nil, errors.New("nil game report")
	}
	start := time.Now()

	gc := &gameContext{
		game:       report,
		gateway:    e.gateway,
		logger:     e.logger,
		strict:     e.strict,
		score:      &ScoreTracker{},
		reconciler: NewReconciler(report.Feed, e.logger),
		result:     &Result{GameID: report.GameID},
	}

	for i := range report.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := gc.processRow(ctx, &report.Rows[i]); err != nil {
			return nil, fmt.Errorf("game %d row %d: %w", report.GameID, report.Rows[i].Seq, err)
		}
	}

	gc.result.Tally = gc.score.Score()
	if fs := report.FinalScore; fs != nil && *fs != gc.result.Tally {
		gc.result.ScoreMismatch = true
		e.logger.Warnw("Goal tally does not match final score",
			"game_id", report.GameID,
			"tally_home", gc.result.Tally.Home,
			"tally_road", gc.result.Tally.Road,
			"final_home", fs.Home,
			"final_road", fs.Road,
		)
	}
	gc.result.Duration = time.Since(start)

	e.logger.Infow("Game parsed",
		"game_id", report.GameID,
		"rows", len(report.Rows),
		"entities", len(gc.result.Entities),
		"skipped", gc.result.Skipped,
		"unresolved", gc.result.Unresolved,
		"duration", gc.result.Duration,
	)
	return gc.result, nil
}

// processRow handles one row. Only gateway failures are returned; every
// parsing problem is logged and stays local to the row.
func (gc *gameContext) processRow(ctx context.Context, row *models.ReportRow) error {
	ev, err := gc.classify(row)
	if err != nil {
		gc.result.Skipped++
		gc.logger.Warnw("Skipping report row", "game_id", gc.game.GameID, "seq", row.Seq, "type", row.Type, "error", err)
		return nil
	}

	pending := gc.reconciler.Assign(ev)

	ev, err = gc.storeEvent(ctx, ev)
	if err != nil {
		return err
	}
	eventIdx := len(gc.result.Events)
	gc.result.Events = append(gc.result.Events, ev)

	extract, ok := gc.extractorFor(ev)
	if !ok {
		return nil
	}

	produced := extract(gc, ev)
	if len(produced) == 0 {
		if pending {
			gc.result.Unresolved++
		}
		return nil
	}

	stored := make([]models.Entity, 0, len(produced))
	for _, ent := range produced {
		s, err := gc.upsert(ctx, ent)
		if err != nil {
			return err
		}
		stored = append(stored, s)
	}

	if pending && !ev.HasCoordinates() {
		if gc.reconciler.Resolve(ev, stored[0]) {
			ev, err = gc.storeEvent(ctx, ev)
			if err != nil {
				return err
			}
			gc.result.Events[eventIdx] = ev
		} else {
			gc.result.Unresolved++
		}
	}

	for _, attempt := range gc.deriveShotAttempts(ev, stored[0]) {
		if _, err := gc.upsert(ctx, attempt); err != nil {
			return err
		}
	}
	return nil
}

// storeEvent upserts an envelope. Coordinates already resolved on the stored
// copy are kept when the candidate has none.
func (gc *gameContext) storeEvent(ctx context.Context, ev *models.Event) (*models.Event, error) {
	if !ev.HasCoordinates() {
		existing, found, err := gc.gateway.Find(ctx, ev.Key())
		if err != nil {
			return nil, fmt.Errorf("find event: %w", err)
		}
		if prev, ok := existing.(*models.Event); found && ok && prev.HasCoordinates() {
			ev.X, ev.Y = prev.X, prev.Y
		}
	}

	stored, err := gc.upsert(ctx, ev)
	if err != nil {
		return nil, err
	}
	canonical, ok := stored.(*models.Event)
	if !ok {
		return nil, fmt.Errorf("gateway returned %T for event %s", stored, ev.Key())
	}
	return canonical, nil
}

func (gc *gameContext) upsert(ctx context.Context, ent models.Entity) (models.Entity, error) {
	stored, err := gc.gateway.Upsert(ctx, ent)
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w", ent.Key(), err)
	}
	gc.result.Entities = append(gc.result.Entities, stored)
	return stored, nil
}
