package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/task"
)

// QuizService requests quizzes, serves them without answer keys and grades
// learners' submissions.
type QuizService interface {
	// RequestQuiz enqueues quiz generation for an existing module.
	RequestQuiz(ctx context.Context, moduleID int64) error

	// GetLatestQuiz returns the newest quiz of the module as a learner view.
	GetLatestQuiz(ctx context.Context, moduleID int64) (*domain.QuizView, error)

	// SubmitQuiz grades answers against the quiz's answer key and records
	// the attempt. Incomplete or malformed answers return
	// domain.ErrInvalidAnswer and record nothing.
	SubmitQuiz(ctx context.Context, quizID, userID int64, answers []domain.Answer) (*domain.QuizAttempt, error)

	// GetUserPerformance summarizes the user's attempts across quizzes.
	GetUserPerformance(ctx context.Context, userID int64) (*domain.UserPerformance, error)
}

type quizService struct {
	studyPaths store.StudyPathStore
	quizzes    store.QuizStore
	enqueuer   TaskEnqueuer
	logger     *slog.Logger
}

// NewQuizService returns a QuizService.
func NewQuizService(
	studyPaths store.StudyPathStore,
	quizzes store.QuizStore,
	enqueuer TaskEnqueuer,
	logger *slog.Logger,
) (QuizService, error) {
	if studyPaths == nil || quizzes == nil || enqueuer == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "quiz service dependencies cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &quizService{
		studyPaths: studyPaths,
		quizzes:    quizzes,
		enqueuer:   enqueuer,
		logger:     logger.With("component", "quiz_service"),
	}, nil
}

func (s *quizService) RequestQuiz(ctx context.Context, moduleID int64) error {
	if _, err := s.studyPaths.GetModule(ctx, moduleID); err != nil {
		return err
	}
	if err := s.enqueuer.Enqueue(ctx, task.QuizTask{ModuleID: moduleID}); err != nil {
		return fmt.Errorf("%w: %w", ErrEnqueueFailed, err)
	}
	s.logger.InfoContext(ctx, "quiz requested", "module_id", moduleID)
	return nil
}

func (s *quizService) GetLatestQuiz(ctx context.Context, moduleID int64) (*domain.QuizView, error) {
	quiz, err := s.quizzes.GetLatestForModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	return quiz.LearnerView(), nil
}

func (s *quizService) SubmitQuiz(
	ctx context.Context,
	quizID, userID int64,
	answers []domain.Answer,
) (*domain.QuizAttempt, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	attempt, err := domain.Grade(quiz, userID, answers)
	if err != nil {
		return nil, err
	}
	if err := s.quizzes.CreateAttempt(ctx, attempt); err != nil {
		return nil, NewServiceError("submit_quiz", "failed to save attempt", err)
	}

	s.logger.InfoContext(ctx, "quiz submitted",
		"quiz_id", quizID,
		"user_id", userID,
		"score", attempt.Score,
		"total", attempt.Total)
	return attempt, nil
}

func (s *quizService) GetUserPerformance(ctx context.Context, userID int64) (*domain.UserPerformance, error) {
	quizzes, err := s.quizzes.ListPerformance(ctx, userID)
	if err != nil {
		return nil, NewServiceError("get_user_performance", "failed to load attempts", err)
	}
	return domain.NewUserPerformance(userID, quizzes), nil
}
