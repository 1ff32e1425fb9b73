package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/tailorcraft/pkg/logger"
)

// Redis keys for the two job stores: a list for ready jobs and a sorted
// set, scored by due time, for parked jobs (reminder digests scheduled
// ahead of their send window).
const (
	redisReadyKey     = "tailorcraft:jobs:ready"
	redisScheduledKey = "tailorcraft:jobs:scheduled"

	popTimeout      = 5 * time.Second
	promoteInterval = time.Second
	promoteBatch    = 100
)

// RedisDriver keeps the queue in Redis so dispatched reminder digests
// survive a server restart. Share the client with pkg/cache.
type RedisDriver struct {
	client *redis.Client
}

func NewRedisDriver(client *redis.Client) *RedisDriver {
	d := &RedisDriver{client: client}
	go d.promoteLoop()
	return d
}

// Push appends a ready job.
func (d *RedisDriver) Push(payload []byte) error {
	if err := d.client.LPush(context.Background(), redisReadyKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop blocks for up to popTimeout waiting for a ready job. A nil payload
// with a nil error means the wait timed out and the worker should retry.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	result, err := d.client.BRPop(ctx, popTimeout, redisReadyKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}
	return []byte(result[1]), nil
}

// PushDelayed parks the payload in the scheduled set until its due time.
func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	err := d.client.ZAdd(context.Background(), redisScheduledKey, redis.Z{
		Score:  float64(time.Now().Add(delay).Unix()),
		Member: string(payload),
	}).Err()
	if err != nil {
		return fmt.Errorf("queue/redis: push delayed: %w", err)
	}
	return nil
}

// promoteLoop moves due scheduled jobs onto the ready list.
func (d *RedisDriver) promoteLoop() {
	ticker := time.NewTicker(promoteInterval)
	defer ticker.Stop()
	ctx := context.Background()
	for range ticker.C {
		d.promote(ctx)
	}
}

func (d *RedisDriver) promote(ctx context.Context) {
	due, err := d.client.ZRangeByScore(ctx, redisScheduledKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(time.Now().Unix(), 10),
		Count: promoteBatch,
	}).Result()
	if err != nil || len(due) == 0 {
		return
	}

	pipe := d.client.TxPipeline()
	for _, payload := range due {
		pipe.ZRem(ctx, redisScheduledKey, payload)
		pipe.LPush(ctx, redisReadyKey, []byte(payload))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("queue/redis: promote scheduled jobs", "error", err)
	}
}
