package memory

import (
	"context"
	"sync"
)

// NameCache in-memory реализация кэша имен участников. Без вытеснения, последняя запись побеждает.
type NameCache struct {
	mu    sync.RWMutex
	names map[int64]string
}

func NewNameCache() *NameCache {
	return &NameCache{names: make(map[int64]string)}
}

func (c *NameCache) Remember(ctx context.Context, participantID int64, name string) error {
	if name == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[participantID] = name
	return nil
}

func (c *NameCache) Name(ctx context.Context, participantID int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[participantID]
	return name, ok
}

func (c *NameCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}
