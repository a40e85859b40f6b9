package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/openhockey/pbp-engine/internal/models"
)

// Stats counts what upserts did
type Stats struct {
	Created   int
	Updated   int
	Unchanged int
}

// Memory is an in-process gateway. Entities are copied on the way in and
// out so callers never share state with the store.
type Memory struct {
	mu       sync.RWMutex
	entities map[models.Key]models.Entity
	order    []models.Key
	stats    Stats
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{entities: make(map[models.Key]models.Entity)}
}

// Find returns a copy of the stored entity
func (m *Memory) Find(ctx context.Context, key models.Key) (models.Entity, bool, error) {
	m.mu.RLock()
	stored, ok := m.entities[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	out, err := clone(stored)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// Upsert stores the entity unless it is field-for-field equal to the stored one
func (m *Memory) Upsert(ctx context.Context, entity models.Entity) (models.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candidate, err := clone(entity)
	if err != nil {
		return nil, err
	}
	key := entity.Key()

	m.mu.Lock()
	existing, ok := m.entities[key]
	switch {
	case !ok:
		m.entities[key] = candidate
		m.order = append(m.order, key)
		m.stats.Created++
	case reflect.DeepEqual(existing, candidate):
		m.stats.Unchanged++
	default:
		m.entities[key] = candidate
		m.stats.Updated++
	}
	stored := m.entities[key]
	m.mu.Unlock()

	return clone(stored)
}

// Stats returns the upsert counters
func (m *Memory) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// Len returns the number of stored entities
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities)
}

// Entities returns copies of every stored entity of a game in insertion order
func (m *Memory) Entities(gameID int64) []models.Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Entity
	for _, k := range m.order {
		if k.GameID != gameID {
			continue
		}
		if c, err := clone(m.entities[k]); err == nil {
			out = append(out, c)
		}
	}
	return out
}

// clone copies an entity through its stored JSON form, the same shape the
// Postgres store persists
func clone(entity models.Entity) (models.Entity, error) {
	payload, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", entity.Key(), err)
	}
	return decode(entity.Kind(), payload)
}

// decode builds an entity of a kind from its payload
func decode(kind string, payload []byte) (models.Entity, error) {
	out, ok := models.NewEntity(kind)
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return out, nil
}
