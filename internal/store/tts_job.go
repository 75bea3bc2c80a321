package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lumenlearn/lumen/internal/domain"
)

// TTSJobFilter narrows ListTTSJobs. Zero values are ignored.
type TTSJobFilter struct {
	UserID   *int64
	ModuleID *int64
	Status   domain.TTSJobStatus
	Limit    int
}

// TTSJobStore persists text-to-speech jobs. Completion and failure are
// conditional on the job still being pending.
type TTSJobStore interface {
	Create(ctx context.Context, job *domain.TTSJob) error

	// GetByID returns ErrTTSJobNotFound if the job does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TTSJob, error)

	// MarkCompleted records audioURL. Returns ErrUpdateFailed if the job is
	// missing or already terminal.
	MarkCompleted(ctx context.Context, id uuid.UUID, audioURL string) error

	// MarkFailed records message. Returns ErrUpdateFailed if the job is
	// missing or already terminal.
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error

	// List returns jobs newest first.
	List(ctx context.Context, filter TTSJobFilter) ([]domain.TTSJob, error)
}
