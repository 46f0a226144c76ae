package interests

import (
	"context"
	"sync"
)

// MemoryBackend keeps interests in process memory. Used for tests and for
// ephemeral sessions that don't need durability.
type MemoryBackend struct {
	mu        sync.RWMutex
	weights   Map
	readCount int64
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{weights: Map{}}
}

func (b *MemoryBackend) Load(_ context.Context) (Map, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.weights.Clone(), nil
}

func (b *MemoryBackend) Save(_ context.Context, m Map) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.weights = m.Clone()
	return nil
}

func (b *MemoryBackend) ReadCount(_ context.Context) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readCount, nil
}

func (b *MemoryBackend) IncrementReadCount(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readCount++
	return nil
}
