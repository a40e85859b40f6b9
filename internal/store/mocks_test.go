package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// MockPgPool emulates the pbp_entities table in memory
type MockPgPool struct {
	rows      map[uuid.UUID][]byte
	ExecCalls []string
	Err       error
}

func NewMockPgPool() *MockPgPool {
	return &MockPgPool{rows: make(map[uuid.UUID][]byte)}
}

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.ExecCalls = append(m.ExecCalls, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), m.Err
}

func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.Err != nil {
		return &MockRow{err: m.Err}
	}
	id := args[0].(uuid.UUID)

	if sql == selectEntity {
		payload, ok := m.rows[id]
		if !ok {
			return &MockRow{err: pgx.ErrNoRows}
		}
		return &MockRow{values: []any{payload}}
	}

	payload := args[4].([]byte)
	existing, ok := m.rows[id]
	if ok && jsonEqual(existing, payload) {
		return &MockRow{err: pgx.ErrNoRows}
	}
	m.rows[id] = payload
	return &MockRow{values: []any{payload, !ok}}
}

func jsonEqual(a, b []byte) bool {
	var va, vb any
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return false
	}
	ea, _ := json.Marshal(va)
	eb, _ := json.Marshal(vb)
	return string(ea) == string(eb)
}

type MockRow struct {
	pgx.Row
	values []any
	err    error
}

func (m *MockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *[]byte:
			*v = m.values[i].([]byte)
		case *bool:
			*v = m.values[i].(bool)
		}
	}
	return nil
}

// MockConn records ClickHouse batches
type MockConn struct {
	driver.Conn
	Batches  []*MockBatch
	Execs    []string
	PingErr  error
	BatchErr error
}

func (m *MockConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	if m.BatchErr != nil {
		return nil, m.BatchErr
	}
	b := &MockBatch{}
	m.Batches = append(m.Batches, b)
	return b, nil
}

func (m *MockConn) Exec(ctx context.Context, query string, args ...any) error {
	m.Execs = append(m.Execs, query)
	return nil
}

func (m *MockConn) Ping(ctx context.Context) error {
	return m.PingErr
}

type MockBatch struct {
	driver.Batch
	Appended [][]any
	Sent     bool
	Aborted  bool
}

func (b *MockBatch) Append(v ...any) error {
	if len(v) != 16 {
		return errors.New("column count mismatch")
	}
	b.Appended = append(b.Appended, v)
	return nil
}

func (b *MockBatch) Send() error {
	b.Sent = true
	return nil
}

func (b *MockBatch) Abort() error {
	b.Aborted = true
	return nil
}

// MockRedis records commands
type MockRedis struct {
	Hashes    map[string][]interface{}
	Published map[string][]interface{}
	Streams   map[string][]map[string]interface{}
	Expiries  map[string]time.Duration
	Err       error
}

func NewMockRedis() *MockRedis {
	return &MockRedis{
		Hashes:    make(map[string][]interface{}),
		Published: make(map[string][]interface{}),
		Streams:   make(map[string][]map[string]interface{}),
		Expiries:  make(map[string]time.Duration),
	}
}

func (m *MockRedis) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if m.Err != nil {
		cmd.SetErr(m.Err)
		return cmd
	}
	m.Hashes[key] = values
	cmd.SetVal(int64(len(values) / 2))
	return cmd
}

func (m *MockRedis) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	m.Expiries[key] = expiration
	cmd.SetVal(true)
	return cmd
}

func (m *MockRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	m.Published[channel] = append(m.Published[channel], message)
	cmd.SetVal(1)
	return cmd
}

func (m *MockRedis) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	m.Streams[a.Stream] = append(m.Streams[a.Stream], a.Values.(map[string]interface{}))
	cmd.SetVal("1-0")
	return cmd
}

func (m *MockRedis) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}
