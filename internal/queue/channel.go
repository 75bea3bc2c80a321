package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel performs queue operations over one broker connection. It becomes
// stale when the connection is lost; fetch a fresh one from Broker.Channel.
type Channel struct {
	conn     redisConn
	consumer string
	logger   *slog.Logger
	now      func() time.Time

	// onConnError is told about command failures so the broker can reconnect.
	onConnError func(conn redisConn, err error)
}

var _ Acknowledger = (*Channel)(nil)

func processingKey(queue, consumer string) string {
	return fmt.Sprintf("%s:processing:%s", queue, consumer)
}

func deadLetterKey(queue string) string {
	return queue + ":dead"
}

func metaKey(queue string) string {
	return queue + ":meta"
}

func consumersKey(queue string) string {
	return queue + ":consumers"
}

func heartbeatKey(queue, consumer string) string {
	return fmt.Sprintf("%s:heartbeat:%s", queue, consumer)
}

func (c *Channel) fail(err error) error {
	if err != nil && !errors.Is(err, redis.Nil) && !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) && c.onConnError != nil {
		c.onConnError(c.conn, err)
	}
	return err
}

// Publish appends body to queue.
func (c *Channel) Publish(ctx context.Context, queue string, body []byte) error {
	if err := c.conn.LPush(ctx, queue, body).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queue, c.fail(err))
	}
	return nil
}

// Get waits up to wait for the next message on queue and moves it to this
// consumer's in-flight list. It returns ErrNoDelivery when the wait expires.
func (c *Channel) Get(ctx context.Context, queue string, wait time.Duration) (*Delivery, error) {
	body, err := c.conn.BLMove(ctx, queue, processingKey(queue, c.consumer), "RIGHT", "LEFT", wait).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoDelivery
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from %s: %w", queue, c.fail(err))
	}

	return &Delivery{
		Body:         []byte(body),
		Queue:        queue,
		ReceivedAt:   c.now(),
		Acknowledger: c,
	}, nil
}

// Ack implements Acknowledger.
func (c *Channel) Ack(ctx context.Context, d *Delivery) error {
	removed, err := c.conn.LRem(ctx, processingKey(d.Queue, c.consumer), 1, d.Body).Result()
	if err != nil {
		return fmt.Errorf("failed to ack message: %w", c.fail(err))
	}
	if removed == 0 {
		c.logger.WarnContext(ctx, "acked message was not in flight", "queue", d.Queue)
	}
	return nil
}

// Nack implements Acknowledger. The message is written to its destination
// before it leaves the in-flight list, so a crash in between duplicates it
// rather than losing it.
func (c *Channel) Nack(ctx context.Context, d *Delivery, requeue bool, reason string) error {
	if requeue {
		if err := c.conn.RPush(ctx, d.Queue, d.Body).Err(); err != nil {
			return fmt.Errorf("failed to requeue message: %w", c.fail(err))
		}
	} else {
		record, err := json.Marshal(DeadLetter{
			Queue:    d.Queue,
			Body:     string(d.Body),
			Reason:   reason,
			FailedAt: c.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to encode dead letter: %w", err)
		}
		if err := c.conn.LPush(ctx, deadLetterKey(d.Queue), record).Err(); err != nil {
			return fmt.Errorf("failed to dead-letter message: %w", c.fail(err))
		}
	}

	if err := c.conn.LRem(ctx, processingKey(d.Queue, c.consumer), 1, d.Body).Err(); err != nil {
		return fmt.Errorf("failed to remove nacked message: %w", c.fail(err))
	}
	return nil
}

// DeadLetters returns up to limit dead-lettered messages for queue, newest
// first.
func (c *Channel) DeadLetters(ctx context.Context, queue string, limit int) ([]DeadLetter, error) {
	if limit <= 0 {
		limit = 50
	}
	raw, err := c.conn.LRange(ctx, deadLetterKey(queue), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read dead letters: %w", c.fail(err))
	}

	letters := make([]DeadLetter, 0, len(raw))
	for _, item := range raw {
		var dl DeadLetter
		if err := json.Unmarshal([]byte(item), &dl); err != nil {
			c.logger.WarnContext(ctx, "skipping malformed dead letter", "queue", queue, "error", err)
			continue
		}
		letters = append(letters, dl)
	}
	return letters, nil
}

// register adds this consumer to the queue's consumer set and starts its
// heartbeat.
func (c *Channel) register(ctx context.Context, queue string, ttl time.Duration) error {
	if err := c.conn.SAdd(ctx, consumersKey(queue), c.consumer).Err(); err != nil {
		return err
	}
	return c.conn.Set(ctx, heartbeatKey(queue, c.consumer), c.now().UTC().Format(time.RFC3339), ttl).Err()
}

// reclaim returns to the consuming end of queue the in-flight messages of
// every registered consumer without a live heartbeat, plus any left under
// this consumer's own name by an earlier process. Consumers that were
// drained are unregistered.
func (c *Channel) reclaim(ctx context.Context, queue string) (int, error) {
	consumers, err := c.conn.SMembers(ctx, consumersKey(queue)).Result()
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, name := range consumers {
		if name != c.consumer {
			alive, err := c.conn.Exists(ctx, heartbeatKey(queue, name)).Result()
			if err != nil {
				return moved, err
			}
			if alive > 0 {
				continue
			}
		}

		n, err := c.drain(ctx, processingKey(queue, name), queue)
		moved += n
		if err != nil {
			return moved, err
		}
		if n > 0 {
			c.logger.WarnContext(ctx, "reclaimed in-flight messages",
				"from_consumer", name,
				"count", n)
		}
		if name != c.consumer {
			if err := c.conn.SRem(ctx, consumersKey(queue), name).Err(); err != nil {
				return moved, err
			}
		}
	}
	return moved, nil
}

// drain moves every message in list to the consuming end of queue so that
// the oldest is consumed first.
func (c *Channel) drain(ctx context.Context, list, queue string) (int, error) {
	moved := 0
	for {
		err := c.conn.LMove(ctx, list, queue, "LEFT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, err
		}
		moved++
	}
}

// declare records queue metadata so operators can see which queues exist.
func (c *Channel) declare(ctx context.Context, queue string) error {
	return c.conn.HSet(ctx, metaKey(queue),
		"durable", "true",
		"consumer", c.consumer,
		"declared_at", c.now().UTC().Format(time.RFC3339),
	).Err()
}
