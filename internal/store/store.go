// Package store persists repository snapshots so sessions survive restarts.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"peerprep/interview/internal/session"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Store saves and loads the latest snapshot. Load returns nil, nil when nothing
// has been saved yet.
type Store interface {
	Load(ctx context.Context) (*session.Snapshot, error)
	Save(ctx context.Context, snap *session.Snapshot) error
	Name() string
	Close() error
}

func encode(snap *session.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, errors.New("nil snapshot")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*session.Snapshot, error) {
	var snap session.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Memory keeps the snapshot in process. Used when no durable driver is configured and in tests.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(context.Context) (*session.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return decode(m.data)
}

func (m *Memory) Save(_ context.Context, snap *session.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Name() string { return DriverMemory }

func (m *Memory) Close() error { return nil }
