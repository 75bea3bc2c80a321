package task_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lumenlearn/lumen/internal/audio"
	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/generation"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var speechFormat = generation.SampleFormat{SampleRate: 24000, Channels: 1, BitsPerSample: 16}

func pendingJob(f *fixture) {
	f.jobs.GetByIDFn = func(_ context.Context, id uuid.UUID) (*domain.TTSJob, error) {
		return &domain.TTSJob{ID: id, TextContent: "Hola mundo", Status: domain.TTSJobStatusPending}, nil
	}
}

func TestHandleTTS(t *testing.T) {
	f := newFixture(t)
	jobID := uuid.New()
	pendingJob(f)

	f.speech.TextToSpeechFn = func(_ context.Context, text string) ([]byte, generation.SampleFormat, error) {
		assert.Equal(t, "Hola mundo", text)
		return []byte{1, 0, 2, 0}, speechFormat, nil
	}
	f.blobs.UploadBlobFn = func(_ context.Context, filename string, data []byte, contentType string) (string, error) {
		assert.Equal(t, "tts/"+jobID.String()+".wav", filename)
		assert.Equal(t, audio.WAVContentType, contentType)
		require.Len(t, data, 48)
		assert.Equal(t, "RIFF", string(data[:4]))
		assert.Equal(t, []byte{1, 0, 2, 0}, data[44:])
		return "https://cdn.test/tts/" + jobID.String() + ".wav", nil
	}
	var completedURL string
	f.jobs.MarkCompletedFn = func(_ context.Context, id uuid.UUID, url string) error {
		assert.Equal(t, jobID, id)
		completedURL = url
		return nil
	}
	f.jobs.MarkFailedFn = func(context.Context, uuid.UUID, string) error {
		t.Fatal("job must not be failed")
		return nil
	}

	err := f.service(t).HandleTTS(context.Background(), task.TTSTask{Text: "Hola mundo", JobID: jobID})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/tts/"+jobID.String()+".wav", completedURL)
}

func TestHandleTTS_SkipsTerminalJob(t *testing.T) {
	f := newFixture(t)
	f.jobs.GetByIDFn = func(_ context.Context, id uuid.UUID) (*domain.TTSJob, error) {
		return &domain.TTSJob{ID: id, Status: domain.TTSJobStatusCompleted}, nil
	}
	f.speech.TextToSpeechFn = func(context.Context, string) ([]byte, generation.SampleFormat, error) {
		t.Fatal("speech must not be synthesized for a finished job")
		return nil, generation.SampleFormat{}, nil
	}

	assert.NoError(t, f.service(t).HandleTTS(context.Background(), task.TTSTask{Text: "x", JobID: uuid.New()}))
}

func TestHandleTTS_Failures(t *testing.T) {
	uploadErr := errors.New("bucket unreachable")

	t.Run("missing job", func(t *testing.T) {
		f := newFixture(t)
		err := f.service(t).HandleTTS(context.Background(), task.TTSTask{Text: "x", JobID: uuid.New()})
		assert.ErrorIs(t, err, store.ErrTTSJobNotFound)
		assert.Equal(t, task.Crashed, task.Classify(err))
	})

	t.Run("upload failure is recorded", func(t *testing.T) {
		f := newFixture(t)
		pendingJob(f)
		f.speech.TextToSpeechFn = func(context.Context, string) ([]byte, generation.SampleFormat, error) {
			return []byte{0, 0}, speechFormat, nil
		}
		f.blobs.UploadBlobFn = func(context.Context, string, []byte, string) (string, error) {
			return "", uploadErr
		}
		var message string
		f.jobs.MarkFailedFn = func(_ context.Context, _ uuid.UUID, m string) error {
			message = m
			return nil
		}

		err := f.service(t).HandleTTS(context.Background(), task.TTSTask{Text: "x", JobID: uuid.New()})
		assert.ErrorIs(t, err, uploadErr)
		assert.Equal(t, task.HandledTerminal, task.Classify(err))
		assert.Equal(t, "failed to upload audio: bucket unreachable", message)
	})

	t.Run("invalid audio format is recorded", func(t *testing.T) {
		f := newFixture(t)
		pendingJob(f)
		f.speech.TextToSpeechFn = func(context.Context, string) ([]byte, generation.SampleFormat, error) {
			return []byte{0, 0}, generation.SampleFormat{}, nil
		}

		err := f.service(t).HandleTTS(context.Background(), task.TTSTask{Text: "x", JobID: uuid.New()})
		assert.ErrorIs(t, err, audio.ErrInvalidFormat)
		assert.Equal(t, task.HandledTerminal, task.Classify(err))
	})

	t.Run("completion failure is recorded", func(t *testing.T) {
		f := newFixture(t)
		pendingJob(f)
		f.speech.TextToSpeechFn = func(context.Context, string) ([]byte, generation.SampleFormat, error) {
			return []byte{0, 0}, speechFormat, nil
		}
		f.jobs.MarkCompletedFn = func(context.Context, uuid.UUID, string) error {
			return store.ErrPersistence
		}
		failed := false
		f.jobs.MarkFailedFn = func(context.Context, uuid.UUID, string) error {
			failed = true
			return nil
		}

		err := f.service(t).HandleTTS(context.Background(), task.TTSTask{Text: "x", JobID: uuid.New()})
		assert.ErrorIs(t, err, store.ErrPersistence)
		assert.True(t, failed)
	})

	t.Run("unrecorded failure returns the original error", func(t *testing.T) {
		f := newFixture(t)
		pendingJob(f)
		f.speech.TextToSpeechFn = func(context.Context, string) ([]byte, generation.SampleFormat, error) {
			return nil, generation.SampleFormat{}, generation.ErrTransientFailure
		}
		f.jobs.MarkFailedFn = func(context.Context, uuid.UUID, string) error {
			return store.ErrUpdateFailed
		}

		err := f.service(t).HandleTTS(context.Background(), task.TTSTask{Text: "x", JobID: uuid.New()})
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
		assert.NotErrorIs(t, err, store.ErrUpdateFailed)
		assert.Equal(t, task.HandledRetryable, task.Classify(err))
	})
}
