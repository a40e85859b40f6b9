package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/openhockey/pbp-engine/internal/models"
)

const createShotAttemptsTable = `
	CREATE TABLE IF NOT EXISTS pbp.shot_attempts (
		game_id        Int64,
		seq            Int32,
		player_id      Int64,
		team_id        Int64,
		other_team_id  Int64,
		shooter_id     Nullable(Int64),
		event_type     LowCardinality(String),
		goal           Bool,
		situation      LowCardinality(String),
		skaters        LowCardinality(String),
		score_diff     Int16,
		plus_minus     Int8,
		actual         Bool,
		on_ice_for     Array(Int64),
		on_ice_against Array(Int64),
		inserted_at    DateTime64(3)
	)
	ENGINE = ReplacingMergeTree(inserted_at)
	ORDER BY (game_id, seq, player_id)
`

const insertShotAttempts = `
	INSERT INTO pbp.shot_attempts (
		game_id, seq, player_id, team_id, other_team_id, shooter_id,
		event_type, goal, situation, skaters, score_diff, plus_minus,
		actual, on_ice_for, on_ice_against, inserted_at
	)
`

// ClickHouse sinks the shot-attempt stream of finished games for
// aggregation. Re-sent games collapse on the sorting key.
type ClickHouse struct {
	conn   driver.Conn
	logger *zap.SugaredLogger
}

// NewClickHouse creates a shot-attempt sink
func NewClickHouse(conn driver.Conn, logger *zap.Logger) *ClickHouse {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClickHouse{conn: conn, logger: logger.Sugar()}
}

// EnsureSchema creates the shot-attempt table when missing
func (c *ClickHouse) EnsureSchema(ctx context.Context) error {
	if err := c.conn.Exec(ctx, `CREATE DATABASE IF NOT EXISTS pbp`); err != nil {
		return fmt.Errorf("create database pbp: %w", err)
	}
	if err := c.conn.Exec(ctx, createShotAttemptsTable); err != nil {
		return fmt.Errorf("create pbp.shot_attempts: %w", err)
	}
	return nil
}

// WriteShotAttempts batch-inserts one game's shot attempts
func (c *ClickHouse) WriteShotAttempts(ctx context.Context, gameID int64, attempts []*models.ShotAttempt) error {
	if len(attempts) == 0 {
		return nil
	}

	batch, err := c.conn.PrepareBatch(ctx, insertShotAttempts)
	if err != nil {
		return fmt.Errorf("prepare shot_attempts batch: %w", err)
	}

	now := time.Now().UTC()
	for _, sa := range attempts {
		err := batch.Append(
			sa.GameID,
			int32(sa.Seq),
			sa.PlayerID,
			sa.TeamID,
			sa.OtherTeamID,
			sa.ShooterID,
			sa.EventType,
			sa.Goal,
			sa.Situation,
			sa.Skaters,
			int16(sa.ScoreDiff),
			int8(sa.PlusMinus),
			sa.Actual,
			nonNil(sa.OnIceFor),
			nonNil(sa.OnIceAgainst),
			now,
		)
		if err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append shot attempt %s: %w", sa.Key(), err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send shot_attempts batch: %w", err)
	}
	c.logger.Debugw("Shot attempts written", "game_id", gameID, "rows", len(attempts))
	return nil
}

// Ping checks the connection
func (c *ClickHouse) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
