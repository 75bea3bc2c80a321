package store

import (
	"context"

	"github.com/lumenlearn/lumen/internal/domain"
)

// ProgressStore persists module completions.
type ProgressStore interface {
	// CompleteModule records the completion once per user and module. It
	// sets CompletedAt to the first completion time and reports whether this
	// call created the record.
	CompleteModule(ctx context.Context, completion *domain.ModuleCompletion) (bool, error)

	// ListStudyPathProgress returns, for every path the user completed at
	// least one module of, the completed and total module counts. Paths are
	// ordered by most recent completion.
	ListStudyPathProgress(ctx context.Context, userID int64) ([]domain.StudyPathProgress, error)
}
