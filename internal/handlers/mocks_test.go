package handlers

import (
	"context"
	"sync"

	"github.com/openhockey/pbp-engine/internal/models"
)

// MockGameQueue implements GameQueue for testing
type MockGameQueue struct {
	mu         sync.Mutex
	SubmitFunc func(report *models.GameReport) error
	Submitted  []*models.GameReport
	Depth      int
}

func (m *MockGameQueue) Submit(report *models.GameReport) error {
	if m.SubmitFunc != nil {
		if err := m.SubmitFunc(report); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Submitted = append(m.Submitted, report)
	m.mu.Unlock()
	return nil
}

func (m *MockGameQueue) QueueDepth() int { return m.Depth }

// MockPinger fails with Err when set
type MockPinger struct {
	Err error
}

func (m *MockPinger) Ping(ctx context.Context) error { return m.Err }
