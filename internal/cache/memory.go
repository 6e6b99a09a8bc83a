package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/clock"
)

type memoryItem struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process Store used when no redis address is configured.
// Expiry is evaluated against the injected clock.
type Memory struct {
	mu    sync.Mutex
	clock clock.Clock
	items map[string]memoryItem
}

func NewMemory(clk clock.Clock) *Memory {
	return &Memory{
		clock: clk,
		items: make(map[string]memoryItem),
	}
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	item, ok := m.items[key]
	if ok && !m.clock.Now().Before(item.expires) {
		delete(m.items, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(item.data, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	m.mu.Lock()
	m.items[key] = memoryItem{data: data, expires: m.clock.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}
