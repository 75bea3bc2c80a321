package task

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/generation"
	"github.com/lumenlearn/lumen/internal/store"
)

// HandleQuiz generates and stores a quiz for t.ModuleID.
func (s *Service) HandleQuiz(ctx context.Context, t QuizTask) error {
	view, err := s.GenerateQuiz(ctx, t.ModuleID)
	if err != nil {
		return err
	}
	s.log(ctx).InfoContext(ctx, "quiz created",
		"module_id", t.ModuleID,
		"quiz_id", view.ID,
		"questions", len(view.Questions))
	return nil
}

// GenerateQuiz generates a quiz for the module, stores it with its answer
// keys in one transaction and returns the learner view. Failures are not
// recorded anywhere; they propagate to the caller.
func (s *Service) GenerateQuiz(ctx context.Context, moduleID int64) (*domain.QuizView, error) {
	module, err := s.studyPaths.GetModule(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load module: %w", err)
	}

	raw, err := s.text.GenerateStructuredText(ctx,
		generation.QuizPrompt(module, s.language),
		generation.QuizSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to generate quiz: %w", err)
	}
	draft, err := generation.ParseQuiz(raw)
	if err != nil {
		return nil, err
	}

	quiz := &domain.Quiz{
		ModuleID:  module.ID,
		Title:     strings.TrimSpace(draft.Title),
		Questions: make([]domain.Question, 0, len(draft.Questions)),
	}
	if quiz.Title == "" {
		quiz.Title = module.Title
	}
	for i, q := range draft.Questions {
		quiz.Questions = append(quiz.Questions, domain.Question{
			Position:           i,
			Text:               q.Text,
			Options:            q.Options,
			CorrectOptionIndex: q.CorrectOptionIndex,
		})
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.quizzes.WithTx(tx).CreateQuiz(ctx, quiz)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store quiz: %w", err)
	}
	return quiz.LearnerView(), nil
}
