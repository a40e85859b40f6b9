package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestHealth(t *testing.T) {
	h := New(Config{WorkerPool: &MockGameQueue{}})
	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("StatusCode = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s", ct)
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantReady  bool
	}{
		{
			name:       "All Healthy",
			checks:     map[string]Pinger{"postgres": &MockPinger{}, "clickhouse": &MockPinger{}, "redis": &MockPinger{}},
			wantStatus: http.StatusOK,
			wantReady:  true,
		},
		{
			name:       "Redis Down",
			checks:     map[string]Pinger{"postgres": &MockPinger{}, "redis": &MockPinger{Err: errors.New("refused")}},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "PingFunc",
			checks:     map[string]Pinger{"breaker": PingFunc(func(ctx context.Context) error { return nil })},
			wantStatus: http.StatusOK,
			wantReady:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(Config{WorkerPool: &MockGameQueue{Depth: 3}, Checks: tt.checks, Logger: zap.NewNop()})
			w := httptest.NewRecorder()
			h.Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp struct {
				Ready      bool            `json:"ready"`
				Checks     map[string]bool `json:"checks"`
				QueueDepth int             `json:"queueDepth"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Ready != tt.wantReady || resp.QueueDepth != 3 || len(resp.Checks) != len(tt.checks) {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestRouter(t *testing.T) {
	queue := &MockGameQueue{}
	h := New(Config{WorkerPool: queue, Logger: zap.NewNop()})
	router := h.Router(RouterConfig{AllowedOrigins: []string{"https://stats.example"}, RateLimitRequests: 2, RateLimitWindow: time.Minute})

	for _, path := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, w.Code)
		}
	}

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/games", strings.NewReader(validReport))
		req.RemoteAddr = "192.0.2.1:5000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusAccepted || codes[1] != http.StatusAccepted || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want 202 202 429", codes)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/games", nil)
	req.Header.Set("Origin", "https://stats.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://stats.example" {
		t.Errorf("CORS preflight allow-origin = %q", got)
	}
}
