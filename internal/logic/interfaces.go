package logic

import (
	"context"

	"github.com/openhockey/pbp-engine/internal/models"
)

// Gateway is the persistence collaborator. Upsert is a no-op returning the
// stored entity when the candidate is field-for-field equal to it, and
// otherwise creates or updates and returns the stored copy. Implementations
// must be safe for concurrent use by independent games.
type Gateway interface {
	Find(ctx context.Context, key models.Key) (models.Entity, bool, error)
	Upsert(ctx context.Context, entity models.Entity) (models.Entity, error)
}

// GameParser parses one game report
type GameParser interface {
	ParseGame(ctx context.Context, report *models.GameReport) (*Result, error)
}
