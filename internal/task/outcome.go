package task

import (
	"context"
	"errors"

	"github.com/lumenlearn/lumen/internal/generation"
	"github.com/lumenlearn/lumen/internal/queue"
)

// Outcome is how a delivery was settled.
type Outcome int

const (
	// Handled: the task succeeded or had nothing to do. Acked.
	Handled Outcome = iota
	// HandledTerminal: the task failed and the failure is on its durable
	// record. Acked.
	HandledTerminal
	// HandledRetryable: the task failed for a transient reason without a
	// record. Requeued when the worker allows it, dead-lettered otherwise.
	HandledRetryable
	// Crashed: the handler failed unexpectedly or panicked. Dead-lettered.
	Crashed
	// Rejected: the message could not be decoded. Dead-lettered.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Handled:
		return "handled"
	case HandledTerminal:
		return "handled_terminal"
	case HandledRetryable:
		return "handled_retryable"
	case Crashed:
		return "crashed"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Acked reports whether the outcome removes the message for good without a
// dead letter.
func (o Outcome) Acked() bool {
	return o == Handled || o == HandledTerminal
}

// Classify maps a handler error to its outcome.
func Classify(err error) Outcome {
	var recorded *RecordedFailure
	switch {
	case err == nil:
		return Handled
	case errors.As(err, &recorded):
		return HandledTerminal
	case errors.Is(err, ErrMalformedEnvelope), errors.Is(err, ErrUnknownTaskType):
		return Rejected
	case errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, queue.ErrChannelUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return HandledRetryable
	default:
		return Crashed
	}
}
