package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis key prefix for cached availability responses
	availabilityKeyPrefix = "availability:doctor:"

	// Timeout for individual Redis operations
	cacheOpTimeout = 2 * time.Second
)

// AvailabilityCache is a read-through cache for availability query results.
// Entries are short-lived and invalidated whenever a booking write touches
// the doctor's slots; the Booking Transaction remains the arbiter of truth,
// so a stale hit is harmless.
type AvailabilityCache interface {
	Get(ctx context.Context, doctorID, clinicID uuid.UUID, startDate, endDate time.Time, dest interface{}) (bool, error)
	Set(ctx context.Context, doctorID, clinicID uuid.UUID, startDate, endDate time.Time, value interface{}) error
	InvalidateDoctor(ctx context.Context, doctorID uuid.UUID) error
}

type redisAvailabilityCache struct {
	client *redis.Client
	log    *logrus.Logger
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, log *logrus.Logger, ttl time.Duration) AvailabilityCache {
	return &redisAvailabilityCache{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func availabilityKey(doctorID, clinicID uuid.UUID, startDate, endDate time.Time) string {
	return fmt.Sprintf("%s%s:clinic:%s:%s:%s",
		availabilityKeyPrefix, doctorID, clinicID,
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
}

func (c *redisAvailabilityCache) Get(ctx context.Context, doctorID, clinicID uuid.UUID, startDate, endDate time.Time, dest interface{}) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, availabilityKey(doctorID, clinicID, startDate, endDate)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisAvailabilityCache) Set(ctx context.Context, doctorID, clinicID uuid.UUID, startDate, endDate time.Time, value interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, availabilityKey(doctorID, clinicID, startDate, endDate), raw, c.ttl).Err()
}

// InvalidateDoctor drops every cached range for the doctor. Called after any
// write that changes slot state; failures are logged by callers and never
// fail the write.
func (c *redisAvailabilityCache) InvalidateDoctor(ctx context.Context, doctorID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	pattern := fmt.Sprintf("%s%s:*", availabilityKeyPrefix, doctorID)
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}
