package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lumenlearn/lumen/internal/domain"
)

// StudyPathRequestStore persists the durable records clients poll while a
// study path is generated. Every transition is conditional on the record not
// being terminal; a transition that matches no row returns ErrUpdateFailed.
type StudyPathRequestStore interface {
	Create(ctx context.Context, req *domain.StudyPathRequest) error

	// GetByID returns ErrRequestNotFound if the request does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyPathRequest, error)

	// MarkProcessing moves a pending request to processing. A request that is
	// already processing is left unchanged without error.
	MarkProcessing(ctx context.Context, id uuid.UUID) error

	// MarkCompleted records studyPathID and the completion time.
	MarkCompleted(ctx context.Context, id uuid.UUID, studyPathID int64) error

	// MarkFailed records message and the completion time.
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error

	WithTx(tx *sql.Tx) StudyPathRequestStore
}
