package service

import (
	"context"
	"log/slog"

	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/store"
)

// ProgressService tracks which modules learners have completed.
type ProgressService interface {
	// CompleteModule records that the user finished the module. Repeated
	// calls keep the first completion and report created as false.
	CompleteModule(ctx context.Context, userID, moduleID int64) (completion *domain.ModuleCompletion, created bool, err error)

	// GetUserProgress returns per-path completion for the user.
	GetUserProgress(ctx context.Context, userID int64) (*domain.UserProgress, error)
}

type progressService struct {
	studyPaths store.StudyPathStore
	progress   store.ProgressStore
	logger     *slog.Logger
}

// NewProgressService returns a ProgressService.
func NewProgressService(
	studyPaths store.StudyPathStore,
	progress store.ProgressStore,
	logger *slog.Logger,
) (ProgressService, error) {
	if studyPaths == nil || progress == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "progress service dependencies cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &progressService{
		studyPaths: studyPaths,
		progress:   progress,
		logger:     logger.With("component", "progress_service"),
	}, nil
}

func (s *progressService) CompleteModule(
	ctx context.Context,
	userID, moduleID int64,
) (*domain.ModuleCompletion, bool, error) {
	if _, err := s.studyPaths.GetModule(ctx, moduleID); err != nil {
		return nil, false, err
	}

	completion := &domain.ModuleCompletion{UserID: userID, ModuleID: moduleID}
	created, err := s.progress.CompleteModule(ctx, completion)
	if err != nil {
		return nil, false, NewServiceError("complete_module", "failed to record completion", err)
	}
	if created {
		s.logger.InfoContext(ctx, "module completed",
			"user_id", userID,
			"module_id", moduleID)
	}
	return completion, created, nil
}

func (s *progressService) GetUserProgress(ctx context.Context, userID int64) (*domain.UserProgress, error) {
	paths, err := s.progress.ListStudyPathProgress(ctx, userID)
	if err != nil {
		return nil, NewServiceError("get_user_progress", "failed to load progress", err)
	}
	return domain.NewUserProgress(userID, paths), nil
}
