package task_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lumenlearn/lumen/internal/config"
	"github.com/lumenlearn/lumen/internal/generation"
	"github.com/lumenlearn/lumen/internal/platform/logger"
	"github.com/lumenlearn/lumen/internal/queue"
	"github.com/lumenlearn/lumen/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandlers struct {
	studyPath func(ctx context.Context, t task.StudyPathTask) error
	quiz      func(ctx context.Context, t task.QuizTask) error
	images    func(ctx context.Context, t task.ImagesTask) error
	tts       func(ctx context.Context, t task.TTSTask) error
}

func (h *fakeHandlers) HandleStudyPath(ctx context.Context, t task.StudyPathTask) error {
	if h.studyPath != nil {
		return h.studyPath(ctx, t)
	}
	return nil
}

func (h *fakeHandlers) HandleQuiz(ctx context.Context, t task.QuizTask) error {
	if h.quiz != nil {
		return h.quiz(ctx, t)
	}
	return nil
}

func (h *fakeHandlers) HandleImages(ctx context.Context, t task.ImagesTask) error {
	if h.images != nil {
		return h.images(ctx, t)
	}
	return nil
}

func (h *fakeHandlers) HandleTTS(ctx context.Context, t task.TTSTask) error {
	if h.tts != nil {
		return h.tts(ctx, t)
	}
	return nil
}

type settlement struct {
	acked   bool
	requeue bool
	reason  string
}

type fakeAcker struct {
	mu      sync.Mutex
	settled []settlement
}

func (a *fakeAcker) Ack(context.Context, *queue.Delivery) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settled = append(a.settled, settlement{acked: true})
	return nil
}

func (a *fakeAcker) Nack(_ context.Context, _ *queue.Delivery, requeue bool, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settled = append(a.settled, settlement{requeue: requeue, reason: reason})
	return nil
}

func (a *fakeAcker) only(t *testing.T) settlement {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.Len(t, a.settled, 1)
	return a.settled[0]
}

type fakeReceiver struct {
	mu         sync.Mutex
	connectErr error
	receiveErr error
	deliveries []*queue.Delivery
	onEmpty    func()
}

func (r *fakeReceiver) Connect(context.Context) error {
	return r.connectErr
}

func (r *fakeReceiver) Receive(ctx context.Context, _ string, _ time.Duration) (*queue.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.receiveErr != nil {
		return nil, r.receiveErr
	}
	if len(r.deliveries) == 0 {
		if r.onEmpty != nil {
			r.onEmpty()
		}
		return nil, queue.ErrNoDelivery
	}
	d := r.deliveries[0]
	r.deliveries = r.deliveries[1:]
	return d, nil
}

func testQueueConfig() config.QueueConfig {
	return config.QueueConfig{
		Name:        "tasks",
		PollTimeout: time.Millisecond,
		RetryDelay:  time.Millisecond,
	}
}

func newDispatcher(t *testing.T, h task.Handlers, wcfg config.WorkerConfig) *task.Dispatcher {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	d, err := task.NewDispatcher(&fakeReceiver{}, h, testQueueConfig(), wcfg, log)
	require.NoError(t, err)
	return d
}

func delivery(t *testing.T, tk task.Task, acker *fakeAcker) *queue.Delivery {
	t.Helper()
	body, err := task.Encode(tk)
	require.NoError(t, err)
	return &queue.Delivery{Body: body, Queue: "tasks", Acknowledger: acker}
}

func TestNewDispatcherRequiresDependencies(t *testing.T) {
	_, err := task.NewDispatcher(nil, &fakeHandlers{}, testQueueConfig(), config.WorkerConfig{}, nil)
	assert.ErrorIs(t, err, task.ErrMissingDependency)

	_, err = task.NewDispatcher(&fakeReceiver{}, nil, testQueueConfig(), config.WorkerConfig{}, nil)
	assert.ErrorIs(t, err, task.ErrMissingDependency)
}

func TestProcess(t *testing.T) {
	transient := errors.New("quota")

	tests := []struct {
		name        string
		handlers    *fakeHandlers
		requeue     bool
		wantOutcome task.Outcome
		want        settlement
	}{
		{
			name:        "success is acked",
			handlers:    &fakeHandlers{},
			wantOutcome: task.Handled,
			want:        settlement{acked: true},
		},
		{
			name: "recorded failure is acked",
			handlers: &fakeHandlers{quiz: func(context.Context, task.QuizTask) error {
				return &task.RecordedFailure{Err: errors.New("bad output")}
			}},
			wantOutcome: task.HandledTerminal,
			want:        settlement{acked: true},
		},
		{
			name: "transient failure is dead-lettered by default",
			handlers: &fakeHandlers{quiz: func(context.Context, task.QuizTask) error {
				return errors.Join(generation.ErrTransientFailure, transient)
			}},
			wantOutcome: task.HandledRetryable,
			want:        settlement{reason: "handled_retryable"},
		},
		{
			name: "transient failure is requeued when allowed",
			handlers: &fakeHandlers{quiz: func(context.Context, task.QuizTask) error {
				return generation.ErrTransientFailure
			}},
			requeue:     true,
			wantOutcome: task.HandledRetryable,
			want:        settlement{requeue: true, reason: "handled_retryable"},
		},
		{
			name: "unexpected failure is dead-lettered",
			handlers: &fakeHandlers{quiz: func(context.Context, task.QuizTask) error {
				return errors.New("module row vanished")
			}},
			requeue:     true,
			wantOutcome: task.Crashed,
			want:        settlement{reason: "crashed: module row vanished"},
		},
		{
			name: "panic is dead-lettered",
			handlers: &fakeHandlers{quiz: func(context.Context, task.QuizTask) error {
				panic("nil map")
			}},
			wantOutcome: task.Crashed,
			want:        settlement{reason: "crashed: handler panicked: nil map"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acker := &fakeAcker{}
			d := newDispatcher(t, tc.handlers, config.WorkerConfig{
				HandlerTimeout:   time.Second,
				RequeueRetryable: tc.requeue,
			})

			outcome := d.Process(context.Background(), delivery(t, task.QuizTask{ModuleID: 3}, acker))
			assert.Equal(t, tc.wantOutcome, outcome)

			got := acker.only(t)
			assert.Equal(t, tc.want.acked, got.acked)
			assert.Equal(t, tc.want.requeue, got.requeue)
			assert.True(t, strings.HasPrefix(got.reason, tc.want.reason), "reason %q", got.reason)
		})
	}
}

func TestProcessRejectsUndecodableMessages(t *testing.T) {
	for _, body := range []string{`not json`, `{"taskType":"generateVideo","payload":{}}`} {
		acker := &fakeAcker{}
		called := false
		d := newDispatcher(t, &fakeHandlers{quiz: func(context.Context, task.QuizTask) error {
			called = true
			return nil
		}}, config.WorkerConfig{HandlerTimeout: time.Second})

		outcome := d.Process(context.Background(), &queue.Delivery{Body: []byte(body), Acknowledger: acker})
		assert.Equal(t, task.Rejected, outcome)
		assert.False(t, called)

		got := acker.only(t)
		assert.False(t, got.acked)
		assert.False(t, got.requeue)
		assert.True(t, strings.HasPrefix(got.reason, "rejected: "))
	}
}

func TestProcessAppliesHandlerTimeout(t *testing.T) {
	acker := &fakeAcker{}
	d := newDispatcher(t, &fakeHandlers{images: func(ctx context.Context, _ task.ImagesTask) error {
		<-ctx.Done()
		return ctx.Err()
	}}, config.WorkerConfig{HandlerTimeout: 20 * time.Millisecond})

	outcome := d.Process(context.Background(), delivery(t, task.ImagesTask{StudyPathID: 1}, acker))
	assert.Equal(t, task.HandledRetryable, outcome)
	assert.False(t, acker.only(t).acked)
}

func TestProcessDetachesHandlerFromShutdown(t *testing.T) {
	acker := &fakeAcker{}
	var handlerErr error
	d := newDispatcher(t, &fakeHandlers{tts: func(ctx context.Context, _ task.TTSTask) error {
		handlerErr = ctx.Err()
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	}}, config.WorkerConfig{HandlerTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tk := task.TTSTask{Text: "hola", JobID: uuid.New()}
	assert.Equal(t, task.Handled, d.Process(ctx, delivery(t, tk, acker)))
	assert.NoError(t, handlerErr)
	assert.True(t, acker.only(t).acked)
}

func TestRun(t *testing.T) {
	t.Run("connection failure is returned", func(t *testing.T) {
		receiver := &fakeReceiver{connectErr: queue.ErrConnectionExhausted}
		d, err := task.NewDispatcher(receiver, &fakeHandlers{}, testQueueConfig(), config.WorkerConfig{}, nil)
		require.NoError(t, err)

		assert.ErrorIs(t, d.Run(context.Background()), queue.ErrConnectionExhausted)
	})

	t.Run("publish-only broker is refused", func(t *testing.T) {
		receiver := &fakeReceiver{receiveErr: queue.ErrNotConsumer}
		d, err := task.NewDispatcher(receiver, &fakeHandlers{}, testQueueConfig(), config.WorkerConfig{}, nil)
		require.NoError(t, err)

		assert.ErrorIs(t, d.Run(context.Background()), queue.ErrNotConsumer)
	})

	t.Run("processes messages in order until cancelled", func(t *testing.T) {
		acker := &fakeAcker{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var seen []int64
		handlers := &fakeHandlers{quiz: func(_ context.Context, q task.QuizTask) error {
			seen = append(seen, q.ModuleID)
			return nil
		}}
		receiver := &fakeReceiver{
			deliveries: []*queue.Delivery{
				delivery(t, task.QuizTask{ModuleID: 1}, acker),
				{Body: []byte(`garbage`), Acknowledger: acker},
				delivery(t, task.QuizTask{ModuleID: 2}, acker),
			},
			onEmpty: cancel,
		}
		d, err := task.NewDispatcher(receiver, handlers, testQueueConfig(), config.WorkerConfig{}, nil)
		require.NoError(t, err)

		require.NoError(t, d.Run(ctx))
		assert.Equal(t, []int64{1, 2}, seen)
		require.Len(t, acker.settled, 3)
		assert.True(t, acker.settled[0].acked)
		assert.False(t, acker.settled[1].acked)
		assert.True(t, acker.settled[2].acked)
	})
}
