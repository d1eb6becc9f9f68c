package bookings

import (
	"context"
	"fmt"
	"sync"
)

// MemoryCounter is an in-process SlotCounter for tests and single-node dev.
type MemoryCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMemoryCounter builds an empty in-memory counter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[string]int)}
}

func memoryKey(date, kind string, slotID int64) string {
	return fmt.Sprintf("%s:%s:%d", date, kind, slotID)
}

func (c *MemoryCounter) GetBooked(ctx context.Context, date, kind string, slotID int64) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[memoryKey(date, kind, slotID)], nil
}

func (c *MemoryCounter) TryReserve(ctx context.Context, date, kind string, slotID int64, max int) (bool, error) {
	if max <= 0 {
		return false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := memoryKey(date, kind, slotID)
	if c.counts[key] >= max {
		return false, nil
	}
	c.counts[key]++
	return true, nil
}

func (c *MemoryCounter) Release(ctx context.Context, date, kind string, slotID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := memoryKey(date, kind, slotID)
	if c.counts[key] > 0 {
		c.counts[key]--
	}
	return nil
}

// SetBooked pins a count directly. Test helper.
func (c *MemoryCounter) SetBooked(date, kind string, slotID int64, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[memoryKey(date, kind, slotID)] = count
}
