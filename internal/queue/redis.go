package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aivahq/dupwatch/internal/notify"
)

const alertQueueKey = "dupwatch:alerts:queue"

// NewRedisQueue connects to redis and uses a list as the alert queue.
func NewRedisQueue(addr, password string, db int) *RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		Protocol: 2,
	})

	return &RedisQueue{client: client}
}

var _ AlertQueue = (*RedisQueue)(nil)

type RedisQueue struct {
	client *redis.Client
}

func (q *RedisQueue) Publish(ctx context.Context, payload *notify.AlertPayload) error {
	return q.client.RPush(ctx, alertQueueKey, payload).Err()
}

func (q *RedisQueue) Subscribe(ctx context.Context) (<-chan *notify.AlertPayload, error) {
	out := make(chan *notify.AlertPayload)

	go func() {
		defer close(out)
		for {
			res, err := q.client.BLPop(ctx, time.Second, alertQueueKey).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				logrus.Errorf("alert queue pop failed: %v", err)
				continue
			}

			// BLPop returns [key, value]
			if len(res) != 2 {
				continue
			}

			payload := &notify.AlertPayload{}
			if err := json.Unmarshal([]byte(res[1]), payload); err != nil {
				logrus.Errorf("discarding malformed alert event: %v", err)
				continue
			}

			select {
			case out <- payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
