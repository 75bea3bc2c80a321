// Package queue is a reliable work-queue client on top of Redis lists.
//
// Messages are published with LPUSH and consumed with BLMOVE into a
// per-consumer in-flight list, where they stay until acknowledged. Rejected
// messages are moved to a "<queue>:dead" list with the rejection reason.
//
// Each consuming process registers under a unique consumer name and keeps a
// heartbeat key alive while connected. When a consumer connects for the first
// time it returns to the queue the in-flight messages of registered consumers
// whose heartbeat has expired, and its own leftovers if a previous process
// used the same name. Producers never touch in-flight lists.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lumenlearn/lumen/internal/config"
	"github.com/redis/go-redis/v9"
)

// redisConn is the subset of *redis.Client the broker uses.
type redisConn interface {
	Ping(ctx context.Context) *redis.StatusCmd
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BLMove(ctx context.Context, source, destination, srcpos, destpos string, timeout time.Duration) *redis.StringCmd
	LMove(ctx context.Context, source, destination, srcpos, destpos string) *redis.StringCmd
	LRem(ctx context.Context, key string, count int64, value interface{}) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

const (
	healthPingTimeout = 2 * time.Second

	// minHeartbeatTTL bounds how quickly a silent consumer is considered gone.
	minHeartbeatTTL = 15 * time.Second

	// settleRetryInterval is how often a settlement waiting for a reconnect
	// checks for a new channel.
	settleRetryInterval = 50 * time.Millisecond
)

// Broker owns the connection to the message broker. It is created once per
// process and shared; Connect is idempotent and lost connections are
// re-established in the background. Only a broker built with NewConsumer
// may receive messages.
type Broker struct {
	cfg      config.QueueConfig
	logger   *slog.Logger
	dial     func() redisConn
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time
	consumer bool

	// connectMu serializes connection attempts and guards reclaimed.
	connectMu sync.Mutex
	reclaimed bool

	mu          sync.Mutex
	conn        redisConn
	channel     *Channel
	stopWatch   context.CancelFunc
	reconnectAt *time.Timer
	closed      bool
}

// NewBroker returns a publish-only broker for cfg. No connection is made
// until Connect.
func NewBroker(cfg config.QueueConfig, logger *slog.Logger) *Broker {
	return newBroker(cfg, logger, redisDialer(cfg), false)
}

// NewConsumer returns a broker that publishes and receives as
// cfg.ConsumerName. No connection is made until Connect.
func NewConsumer(cfg config.QueueConfig, logger *slog.Logger) *Broker {
	return newBroker(cfg, logger, redisDialer(cfg), true)
}

func redisDialer(cfg config.QueueConfig) func() redisConn {
	return func() redisConn {
		return redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}
}

func newBroker(cfg config.QueueConfig, logger *slog.Logger, dial func() redisConn, consumer bool) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	return &Broker{
		cfg:      cfg,
		logger:   logger.With("component", "queue_broker", "queue", cfg.Name),
		dial:     dial,
		sleep:    sleepContext,
		now:      time.Now,
		consumer: consumer,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connect establishes the broker connection if there is none. It makes up to
// MaxRetries attempts RetryDelay apart and returns ErrConnectionExhausted if
// all of them fail. On success the task queue is declared. A consumer also
// registers its heartbeat and, on its first successful connect only,
// reclaims messages stranded by consumers that are gone.
func (b *Broker) Connect(ctx context.Context) error {
	b.connectMu.Lock()
	defer b.connectMu.Unlock()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBrokerClosed
	}
	if b.conn != nil {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= b.cfg.MaxRetries; attempt++ {
		conn := b.dial()
		ch, err := b.open(ctx, conn)
		if err == nil {
			if !b.install(conn, ch) {
				_ = conn.Close()
				return ErrBrokerClosed
			}
			if b.consumer {
				b.reclaimed = true
			}
			b.logger.InfoContext(ctx, "connected to broker",
				"addr", b.cfg.Addr,
				"attempt", attempt)
			return nil
		}

		_ = conn.Close()
		lastErr = err
		b.logger.WarnContext(ctx, "broker connection attempt failed",
			"attempt", attempt,
			"max_attempts", b.cfg.MaxRetries,
			"error", err)

		if attempt < b.cfg.MaxRetries {
			if err := b.sleep(ctx, b.cfg.RetryDelay); err != nil {
				return fmt.Errorf("broker connection cancelled: %w", err)
			}
		}
	}

	b.logger.ErrorContext(ctx, "could not connect to broker",
		"attempts", b.cfg.MaxRetries,
		"error", lastErr)
	return fmt.Errorf("%w after %d attempts: %w", ErrConnectionExhausted, b.cfg.MaxRetries, lastErr)
}

func (b *Broker) open(ctx context.Context, conn redisConn) (*Channel, error) {
	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	ch := &Channel{
		conn:        conn,
		consumer:    b.cfg.ConsumerName,
		logger:      b.logger,
		now:         b.now,
		onConnError: b.connectionLost,
	}
	if err := ch.declare(ctx, b.cfg.Name); err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if !b.consumer {
		return ch, nil
	}

	if err := ch.register(ctx, b.cfg.Name, b.heartbeatTTL()); err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	if b.reclaimed {
		return ch, nil
	}
	reclaimed, err := ch.reclaim(ctx, b.cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to reclaim in-flight messages: %w", err)
	}
	if reclaimed > 0 {
		b.logger.WarnContext(ctx, "returned stranded in-flight messages to queue",
			"consumer", b.cfg.ConsumerName,
			"count", reclaimed)
	}
	return ch, nil
}

func (b *Broker) install(conn redisConn, ch *Channel) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	b.conn = conn
	b.channel = ch
	b.stopWatch = cancel

	if b.cfg.HealthInterval > 0 {
		go b.watch(watchCtx, conn)
	}
	return true
}

// heartbeatTTL is how long a consumer stays alive without a refresh. The
// watcher refreshes it every HealthInterval.
func (b *Broker) heartbeatTTL() time.Duration {
	return max(3*b.cfg.HealthInterval, minHeartbeatTTL)
}

// watch pings conn until it fails or the watcher is stopped. A consumer's
// heartbeat is refreshed on every successful ping.
func (b *Broker) watch(ctx context.Context, conn redisConn) {
	ticker := time.NewTicker(b.cfg.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
			err := conn.Ping(pingCtx).Err()
			if err == nil && b.consumer {
				err = conn.Set(pingCtx, heartbeatKey(b.cfg.Name, b.cfg.ConsumerName), b.now().UTC().Format(time.RFC3339), b.heartbeatTTL()).Err()
			}
			cancel()
			if err != nil && ctx.Err() == nil {
				b.connectionLost(conn, err)
				return
			}
		}
	}
}

// connectionLost drops conn if it is still current and schedules a reconnect
// after RetryDelay. Channels obtained before the loss must not be reused.
func (b *Broker) connectionLost(conn redisConn, cause error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || b.conn != conn {
		return
	}

	b.logger.Error("broker connection lost", "error", cause)
	if b.stopWatch != nil {
		b.stopWatch()
		b.stopWatch = nil
	}
	_ = b.conn.Close()
	b.conn = nil
	b.channel = nil
	b.scheduleReconnectLocked()
}

func (b *Broker) scheduleReconnectLocked() {
	if b.reconnectAt != nil {
		b.reconnectAt.Stop()
	}
	b.reconnectAt = time.AfterFunc(b.cfg.RetryDelay, func() {
		err := b.Connect(context.Background())
		if err == nil || errors.Is(err, ErrBrokerClosed) {
			return
		}
		b.logger.Error("broker reconnect failed, scheduling another", "error", err)
		b.mu.Lock()
		defer b.mu.Unlock()
		if !b.closed && b.conn == nil {
			b.scheduleReconnectLocked()
		}
	})
}

// Connected reports whether a live connection is held.
func (b *Broker) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// Channel returns the current channel or ErrChannelUnavailable.
func (b *Broker) Channel() (*Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.channel == nil {
		return nil, ErrChannelUnavailable
	}
	return b.channel, nil
}

// SendToQueue publishes message to queue. It fails with ErrChannelUnavailable
// without any network I/O when there is no live connection.
func (b *Broker) SendToQueue(ctx context.Context, queue string, message []byte) error {
	ch, err := b.Channel()
	if err != nil {
		return err
	}
	if err := ch.Publish(ctx, queue, message); err != nil {
		return err
	}
	b.logger.DebugContext(ctx, "message published", "target_queue", queue, "bytes", len(message))
	return nil
}

// Receive waits up to wait for the next message on queue using the current
// channel. It returns ErrChannelUnavailable while disconnected and
// ErrNoDelivery when the wait expires. The delivery is settled through
// whichever channel is current at the time, so it survives a reconnect.
func (b *Broker) Receive(ctx context.Context, queue string, wait time.Duration) (*Delivery, error) {
	if !b.consumer {
		return nil, ErrNotConsumer
	}
	ch, err := b.Channel()
	if err != nil {
		return nil, err
	}
	d, err := ch.Get(ctx, queue, wait)
	if err != nil {
		return nil, err
	}
	d.Acknowledger = b
	return d, nil
}

var _ Acknowledger = (*Broker)(nil)

// Ack implements Acknowledger on the current channel.
func (b *Broker) Ack(ctx context.Context, d *Delivery) error {
	return b.settle(ctx, func(ch *Channel) error { return ch.Ack(ctx, d) })
}

// Nack implements Acknowledger on the current channel.
func (b *Broker) Nack(ctx context.Context, d *Delivery, requeue bool, reason string) error {
	return b.settle(ctx, func(ch *Channel) error { return ch.Nack(ctx, d, requeue, reason) })
}

// settle runs op on the current channel. When the connection is lost before
// or during op, it waits for the reconnect and tries again until ctx ends.
func (b *Broker) settle(ctx context.Context, op func(ch *Channel) error) error {
	for {
		ch, err := b.Channel()
		if err == nil {
			err = op(ch)
			if err == nil {
				return nil
			}
			if current, cerr := b.Channel(); cerr == nil && current == ch {
				return err
			}
		}
		if b.isClosed() {
			return ErrBrokerClosed
		}
		if serr := sleepContext(ctx, settleRetryInterval); serr != nil {
			return fmt.Errorf("%w: %w", err, serr)
		}
	}
}

func (b *Broker) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// DeadLetters lists up to limit dead-lettered messages of the task queue.
func (b *Broker) DeadLetters(ctx context.Context, limit int) ([]DeadLetter, error) {
	ch, err := b.Channel()
	if err != nil {
		return nil, err
	}
	return ch.DeadLetters(ctx, b.cfg.Name, limit)
}

// Close stops background reconnects and closes the connection.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	if b.reconnectAt != nil {
		b.reconnectAt.Stop()
	}
	if b.stopWatch != nil {
		b.stopWatch()
		b.stopWatch = nil
	}
	b.channel = nil
	if b.conn == nil {
		return nil
	}
	if b.consumer {
		ctx, cancel := context.WithTimeout(context.Background(), healthPingTimeout)
		_ = b.conn.Del(ctx, heartbeatKey(b.cfg.Name, b.cfg.ConsumerName)).Err()
		cancel()
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}
