package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/redact"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/task"
)

// MaxListedJobs caps the number of jobs ListJobs returns.
const MaxListedJobs = 50

// TTSService accepts speech synthesis jobs and serves their status.
type TTSService interface {
	// RequestSpeech records a pending job for text and enqueues it. If the
	// task cannot be published the job is marked failed and ErrEnqueueFailed
	// is returned.
	RequestSpeech(ctx context.Context, text string, userID, moduleID *int64) (*domain.TTSJob, error)

	// GetJob returns the job; its audio URL is only set once completed.
	GetJob(ctx context.Context, id uuid.UUID) (*domain.TTSJob, error)

	// ListJobs returns up to MaxListedJobs jobs matching filter, newest first.
	ListJobs(ctx context.Context, filter store.TTSJobFilter) ([]domain.TTSJob, error)
}

type ttsService struct {
	jobs     store.TTSJobStore
	enqueuer TaskEnqueuer
	logger   *slog.Logger
}

// NewTTSService returns a TTSService.
func NewTTSService(jobs store.TTSJobStore, enqueuer TaskEnqueuer, logger *slog.Logger) (TTSService, error) {
	if jobs == nil || enqueuer == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "tts service dependencies cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ttsService{
		jobs:     jobs,
		enqueuer: enqueuer,
		logger:   logger.With("component", "tts_service"),
	}, nil
}

func (s *ttsService) RequestSpeech(
	ctx context.Context,
	text string,
	userID, moduleID *int64,
) (*domain.TTSJob, error) {
	job, err := domain.NewTTSJob(text, userID, moduleID)
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, NewServiceError("request_speech", "failed to save job", err)
	}

	t := task.TTSTask{Text: job.TextContent, JobID: job.ID, UserID: userID, ModuleID: moduleID}
	if err := s.enqueuer.Enqueue(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue tts job",
			"job_id", job.ID.String(),
			"error", err)
		msg := redact.Message(fmt.Errorf("%w: %w", ErrEnqueueFailed, err))
		if markErr := s.jobs.MarkFailed(ctx, job.ID, msg); markErr != nil {
			s.logger.ErrorContext(ctx, "failed to mark unqueued job failed",
				"job_id", job.ID.String(),
				"error", markErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrEnqueueFailed, err)
	}

	s.logger.InfoContext(ctx, "tts job requested", "job_id", job.ID.String(), "chars", len(job.TextContent))
	return job, nil
}

func (s *ttsService) GetJob(ctx context.Context, id uuid.UUID) (*domain.TTSJob, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := job.PublicView()
	return &view, nil
}

func (s *ttsService) ListJobs(ctx context.Context, filter store.TTSJobFilter) ([]domain.TTSJob, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, filter.Status)
	}
	if filter.Limit <= 0 || filter.Limit > MaxListedJobs {
		filter.Limit = MaxListedJobs
	}

	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, NewServiceError("list_jobs", "failed to list jobs", err)
	}
	views := make([]domain.TTSJob, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, j.PublicView())
	}
	return views, nil
}
