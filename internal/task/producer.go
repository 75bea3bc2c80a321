package task

import (
	"context"
	"fmt"
	"log/slog"
)

// Sender publishes raw messages to a named queue.
type Sender interface {
	SendToQueue(ctx context.Context, queue string, message []byte) error
}

// Producer encodes tasks and publishes them on the task queue.
type Producer struct {
	sender Sender
	queue  string
	logger *slog.Logger
}

// NewProducer returns a producer publishing to queueName through sender.
func NewProducer(sender Sender, queueName string, logger *slog.Logger) *Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Producer{
		sender: sender,
		queue:  queueName,
		logger: logger.With("component", "task_producer"),
	}
}

// Enqueue publishes t. Errors from the broker, including
// queue.ErrChannelUnavailable, are returned wrapped.
func (p *Producer) Enqueue(ctx context.Context, t Task) error {
	body, err := Encode(t)
	if err != nil {
		return err
	}
	if err := p.sender.SendToQueue(ctx, p.queue, body); err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", t.Type(), err)
	}
	p.logger.DebugContext(ctx, "task enqueued", "task_type", string(t.Type()))
	return nil
}
