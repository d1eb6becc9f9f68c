package bookings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	pkgerrors "github.com/angelmondragon/delivery-scheduler-backend/pkg/errors"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/redis"
)

// RedisCounter keeps booked counts in Redis. Keys expire past the service
// horizon so stale dates clean themselves up.
type RedisCounter struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCounter builds a counter over the shared Redis client.
func NewRedisCounter(client *redis.Client, ttl time.Duration) (*RedisCounter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisCounter{client: client, ttl: ttl}, nil
}

func (c *RedisCounter) GetBooked(ctx context.Context, date, kind string, slotID int64) (int, error) {
	raw, err := c.client.Get(ctx, c.client.SlotCounterKey(date, kind, slotID))
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read slot counter")
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse slot counter")
	}
	if count < 0 {
		return 0, nil
	}
	return count, nil
}

// TryReserve increments first and checks after: INCR is atomic, so two
// concurrent claims for the last slot cannot both win. The loser issues a
// compensating DECR.
func (c *RedisCounter) TryReserve(ctx context.Context, date, kind string, slotID int64, max int) (bool, error) {
	if max <= 0 {
		return false, nil
	}
	key := c.client.SlotCounterKey(date, kind, slotID)
	count, err := c.client.IncrWithTTL(ctx, key, c.ttl)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve slot")
	}
	if count > int64(max) {
		if _, decErr := c.client.Decr(ctx, key); decErr != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, decErr, "roll back reservation")
		}
		return false, nil
	}
	return true, nil
}

func (c *RedisCounter) Release(ctx context.Context, date, kind string, slotID int64) error {
	key := c.client.SlotCounterKey(date, kind, slotID)
	count, err := c.client.Decr(ctx, key)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release slot")
	}
	if count < 0 {
		if _, incErr := c.client.Incr(ctx, key); incErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, incErr, "floor slot counter")
		}
	}
	return nil
}
