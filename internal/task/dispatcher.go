package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumenlearn/lumen/internal/config"
	"github.com/lumenlearn/lumen/internal/platform/logger"
	"github.com/lumenlearn/lumen/internal/queue"
	"github.com/lumenlearn/lumen/internal/redact"
)

const settleTimeout = 10 * time.Second

// Receiver is the broker side of the dispatcher.
type Receiver interface {
	Connect(ctx context.Context) error
	Receive(ctx context.Context, queue string, wait time.Duration) (*queue.Delivery, error)
}

// Dispatcher consumes the task queue one message at a time and settles each
// delivery according to its Outcome.
type Dispatcher struct {
	receiver Receiver
	handlers Handlers
	queue    config.QueueConfig
	worker   config.WorkerConfig
	logger   *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewDispatcher returns a dispatcher reading qcfg.Name through receiver.
func NewDispatcher(
	receiver Receiver,
	handlers Handlers,
	qcfg config.QueueConfig,
	wcfg config.WorkerConfig,
	log *slog.Logger,
) (*Dispatcher, error) {
	if receiver == nil {
		return nil, fmt.Errorf("%w: receiver", ErrMissingDependency)
	}
	if handlers == nil {
		return nil, fmt.Errorf("%w: handlers", ErrMissingDependency)
	}
	if log == nil {
		log = slog.Default()
	}
	if wcfg.HandlerTimeout <= 0 {
		wcfg.HandlerTimeout = 10 * time.Minute
	}
	if qcfg.PollTimeout <= 0 {
		qcfg.PollTimeout = 5 * time.Second
	}
	if qcfg.RetryDelay <= 0 {
		qcfg.RetryDelay = 5 * time.Second
	}

	return &Dispatcher{
		receiver: receiver,
		handlers: handlers,
		queue:    qcfg,
		worker:   wcfg,
		logger:   log.With("component", "task_dispatcher", "queue", qcfg.Name),
		sleep: func(ctx context.Context, d time.Duration) error {
			select {
			case <-time.After(d):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}, nil
}

// Run connects to the broker and processes messages until ctx is cancelled.
// It returns the connection error if the broker cannot be reached at start.
// A message in progress when ctx is cancelled is finished first.
func (d *Dispatcher) Run(ctx context.Context) error {
	if err := d.receiver.Connect(ctx); err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "task dispatcher started",
		"handler_timeout", d.worker.HandlerTimeout,
		"requeue_retryable", d.worker.RequeueRetryable)

	for {
		if ctx.Err() != nil {
			d.logger.Info("task dispatcher stopped")
			return nil
		}

		delivery, err := d.receiver.Receive(ctx, d.queue.Name, d.queue.PollTimeout)
		switch {
		case err == nil:
			d.Process(ctx, delivery)
		case errors.Is(err, queue.ErrNoDelivery):
		case ctx.Err() != nil:
		case errors.Is(err, queue.ErrNotConsumer), errors.Is(err, queue.ErrBrokerClosed):
			return err
		case errors.Is(err, queue.ErrChannelUnavailable):
			d.logger.WarnContext(ctx, "broker channel unavailable, waiting for reconnect")
			_ = d.sleep(ctx, d.queue.RetryDelay)
		default:
			d.logger.ErrorContext(ctx, "failed to receive message", "error", err)
			_ = d.sleep(ctx, d.queue.RetryDelay)
		}
	}
}

// Process decodes, runs and settles one delivery, returning its outcome.
func (d *Dispatcher) Process(ctx context.Context, delivery *queue.Delivery) Outcome {
	t, err := Decode(delivery.Body)
	if err != nil {
		d.logger.WarnContext(ctx, "rejecting undecodable message",
			"error", err,
			"bytes", len(delivery.Body))
		d.settle(ctx, delivery, Rejected, err)
		return Rejected
	}

	log := d.logger.With("task_type", string(t.Type()))
	start := time.Now()
	err = d.run(ctx, t, log)
	outcome := Classify(err)

	attrs := []any{"outcome", outcome.String(), "duration", time.Since(start)}
	switch outcome {
	case Handled:
		log.InfoContext(ctx, "task handled", attrs...)
	case HandledTerminal:
		log.WarnContext(ctx, "task failed and was recorded", append(attrs, "error", redact.Error(err))...)
	default:
		log.ErrorContext(ctx, "task failed", append(attrs, "error", redact.Error(err))...)
	}

	d.settle(ctx, delivery, outcome, err)
	return outcome
}

// run invokes the handler under the handler timeout. The handler context is
// detached from ctx so that shutdown does not abort a task midway.
func (d *Dispatcher) run(ctx context.Context, t Task, log *slog.Logger) (err error) {
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.worker.HandlerTimeout)
	defer cancel()
	hctx = logger.WithLogger(hctx, log)

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panicked: %v", p)
		}
	}()

	return t.Dispatch(hctx, d.handlers)
}

func (d *Dispatcher) settle(ctx context.Context, delivery *queue.Delivery, outcome Outcome, cause error) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()

	var err error
	switch outcome {
	case Handled, HandledTerminal:
		err = delivery.Ack(sctx)
	case HandledRetryable:
		err = delivery.Nack(sctx, d.worker.RequeueRetryable, reason(outcome, cause))
	default:
		err = delivery.Nack(sctx, false, reason(outcome, cause))
	}
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to settle message",
			"outcome", outcome.String(),
			"error", err)
	}
}

func reason(outcome Outcome, cause error) string {
	if cause == nil {
		return outcome.String()
	}
	return outcome.String() + ": " + redact.Message(cause)
}
