package worker

import (
	"context"
	"sync"
	"time"

	"github.com/openhockey/pbp-engine/internal/logic"
	"github.com/openhockey/pbp-engine/internal/models"
	"github.com/openhockey/pbp-engine/internal/store"
)

// MockEngine returns a canned result per game
type MockEngine struct {
	mu     sync.Mutex
	Delay  time.Duration
	Err    error
	Parsed []int64
}

func (m *MockEngine) ParseGame(ctx context.Context, report *models.GameReport) (*logic.Result, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	m.Parsed = append(m.Parsed, report.GameID)
	m.mu.Unlock()

	shooter := int64(8481)
	return &logic.Result{
		GameID:  report.GameID,
		Tally:   models.Score{Home: 2, Road: 1},
		Skipped: 1,
		Events:  []*models.Event{{GameID: report.GameID, Seq: 1}},
		Entities: []models.Entity{
			&models.ShotAttempt{GameID: report.GameID, Seq: 1, PlayerID: 8481, ShooterID: &shooter, PlusMinus: 1, Actual: true},
			&models.ShotAttempt{GameID: report.GameID, Seq: 1, PlayerID: 8576, ShooterID: &shooter, PlusMinus: -1},
		},
	}, nil
}

func (m *MockEngine) parsedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Parsed)
}

// MockSink records the shot attempts written per game
type MockSink struct {
	mu      sync.Mutex
	Err     error
	Written map[int64]int
}

func NewMockSink() *MockSink {
	return &MockSink{Written: make(map[int64]int)}
}

func (m *MockSink) WriteShotAttempts(ctx context.Context, gameID int64, attempts []*models.ShotAttempt) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Written[gameID] += len(attempts)
	return nil
}

// MockPublisher records published summaries
type MockPublisher struct {
	mu        sync.Mutex
	Err       error
	Summaries []store.GameSummary
}

func (m *MockPublisher) PublishGame(ctx context.Context, summary store.GameSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Summaries = append(m.Summaries, summary)
	return nil
}

func (m *MockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Summaries)
}
