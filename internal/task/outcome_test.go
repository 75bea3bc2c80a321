package task_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lumenlearn/lumen/internal/generation"
	"github.com/lumenlearn/lumen/internal/queue"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/task"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want task.Outcome
	}{
		{"success", nil, task.Handled},
		{"recorded", &task.RecordedFailure{Err: generation.ErrTransientFailure}, task.HandledTerminal},
		{"wrapped recorded", fmt.Errorf("outer: %w", &task.RecordedFailure{Err: errors.New("x")}), task.HandledTerminal},
		{"transient provider", fmt.Errorf("generate: %w", generation.ErrTransientFailure), task.HandledRetryable},
		{"no channel", queue.ErrChannelUnavailable, task.HandledRetryable},
		{"timeout", context.DeadlineExceeded, task.HandledRetryable},
		{"malformed", task.ErrMalformedEnvelope, task.Rejected},
		{"unknown", task.ErrUnknownTaskType, task.Rejected},
		{"not found", store.ErrModuleNotFound, task.Crashed},
		{"provider", generation.ErrContentBlocked, task.Crashed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, task.Classify(tc.err))
		})
	}
}

func TestOutcomeAcked(t *testing.T) {
	assert.True(t, task.Handled.Acked())
	assert.True(t, task.HandledTerminal.Acked())
	assert.False(t, task.HandledRetryable.Acked())
	assert.False(t, task.Crashed.Acked())
	assert.False(t, task.Rejected.Acked())
	assert.Equal(t, "handled_retryable", task.HandledRetryable.String())
}
