package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/openhockey/pbp-engine/internal/models"
)

// PgPool is the subset of pgxpool.Pool the store uses
type PgPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const createEntitiesTable = `
	CREATE TABLE IF NOT EXISTS pbp_entities (
		id         UUID PRIMARY KEY,
		kind       TEXT NOT NULL,
		game_id    BIGINT NOT NULL,
		ref        TEXT NOT NULL,
		payload    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

const createEntitiesIndex = `CREATE INDEX IF NOT EXISTS pbp_entities_game_idx ON pbp_entities (game_id, kind)`

// The WHERE clause makes an equal candidate a no-op: no row is returned
// and updated_at is untouched
const upsertEntity = `
	INSERT INTO pbp_entities (id, kind, game_id, ref, payload, updated_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (id) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = now()
		WHERE pbp_entities.payload IS DISTINCT FROM EXCLUDED.payload
	RETURNING payload, (xmax = 0) AS inserted
`

const selectEntity = `SELECT payload FROM pbp_entities WHERE id = $1`

// Postgres persists every entity as a jsonb payload keyed by its
// deterministic id
type Postgres struct {
	pool   PgPool
	logger *zap.SugaredLogger
}

// NewPostgres creates a Postgres gateway
func NewPostgres(pool PgPool, logger *zap.Logger) *Postgres {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Postgres{pool: pool, logger: logger.Sugar()}
}

// EnsureSchema creates the entity table when missing
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createEntitiesTable, createEntitiesIndex} {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure pbp_entities schema: %w", err)
		}
	}
	return nil
}

// Find loads one entity by key
func (p *Postgres) Find(ctx context.Context, key models.Key) (models.Entity, bool, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx, selectEntity, key.UUID()).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	entity, err := decode(key.Kind, payload)
	if err != nil {
		return nil, false, err
	}
	return entity, true, nil
}

// Upsert writes the entity and returns the stored copy
func (p *Postgres) Upsert(ctx context.Context, entity models.Entity) (models.Entity, error) {
	key := entity.Key()
	payload, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}

	var (
		stored   []byte
		inserted bool
	)
	err = p.pool.QueryRow(ctx, upsertEntity, key.UUID(), key.Kind, key.GameID, key.Ref, payload).Scan(&stored, &inserted)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// unchanged; read back the canonical row
		found, ok, err := p.Find(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("upsert %s: row vanished", key)
		}
		return found, nil
	case err != nil:
		return nil, fmt.Errorf("upsert %s: %w", key, err)
	}

	if !inserted {
		p.logger.Debugw("Entity updated", "game_id", key.GameID, "kind", key.Kind, "ref", key.Ref)
	}
	return decode(key.Kind, stored)
}
