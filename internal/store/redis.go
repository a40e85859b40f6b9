package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openhockey/pbp-engine/internal/models"
)

const (
	// GamesChannel receives one message per parsed game
	GamesChannel = "pbp:games"
	// GamesStream keeps the same messages for consumers that join late
	GamesStream = "pbp.games"

	TallyTTL = 48 * time.Hour
)

// RedisClient is the subset of the go-redis client the publisher uses
type RedisClient interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// GameSummary is what gets published once a game is parsed
type GameSummary struct {
	GameID        int64        `json:"game_id"`
	Tally         models.Score `json:"tally"`
	Events        int          `json:"events"`
	Entities      int          `json:"entities"`
	ShotAttempts  int          `json:"shot_attempts"`
	Skipped       int          `json:"skipped"`
	Unresolved    int          `json:"unresolved"`
	Invalid       int          `json:"invalid"`
	ScoreMismatch bool         `json:"score_mismatch"`
	ParsedAt      time.Time    `json:"parsed_at"`
}

// Redis publishes final tallies and completion notices
type Redis struct {
	client RedisClient
}

// NewRedis creates a tally publisher
func NewRedis(client RedisClient) *Redis {
	return &Redis{client: client}
}

// TallyKey is the hash holding a game's final goal tallies
func TallyKey(gameID int64) string {
	return fmt.Sprintf("game:%d:tally", gameID)
}

// PublishGame stores the tally hash and announces the game
func (r *Redis) PublishGame(ctx context.Context, summary GameSummary) error {
	key := TallyKey(summary.GameID)
	if err := r.client.HSet(ctx, key, "home", summary.Tally.Home, "road", summary.Tally.Road).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	if err := r.client.Expire(ctx, key, TallyTTL).Err(); err != nil {
		return fmt.Errorf("expire %s: %w", key, err)
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling game summary: %w", err)
	}
	if err := r.client.Publish(ctx, GamesChannel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", GamesChannel, err)
	}

	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: GamesStream,
		MaxLen: 10000,
		Approx: true,
		Values: map[string]interface{}{
			"data":    string(data),
			"game_id": summary.GameID,
		},
	}).Err()
}

// Ping checks the connection
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
