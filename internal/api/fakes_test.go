package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/platform/search"
	"github.com/lumenlearn/lumen/internal/store"
)

type fakeStudyPathService struct {
	requestStudyPathFn func(ctx context.Context, userID *int64, topic string) (*domain.StudyPathRequest, error)
	getRequestFn       func(ctx context.Context, id uuid.UUID) (*domain.StudyPathRequest, error)
	getStudyPathFn     func(ctx context.Context, id int64) (*domain.StudyPath, []domain.Module, error)
	requestImagesFn    func(ctx context.Context, id int64) error
	searchModulesFn    func(ctx context.Context, query string, limit int) ([]search.ModuleDocument, error)
	listStudyPathsFn   func(ctx context.Context, filter store.StudyPathFilter) ([]domain.StudyPathSummary, error)
	semanticSearchFn   func(ctx context.Context, query string, limit int) ([]domain.ModuleMatch, error)
}

func (f *fakeStudyPathService) RequestStudyPath(ctx context.Context, userID *int64, topic string) (*domain.StudyPathRequest, error) {
	return f.requestStudyPathFn(ctx, userID, topic)
}

func (f *fakeStudyPathService) GetRequest(ctx context.Context, id uuid.UUID) (*domain.StudyPathRequest, error) {
	return f.getRequestFn(ctx, id)
}

func (f *fakeStudyPathService) GetStudyPath(ctx context.Context, id int64) (*domain.StudyPath, []domain.Module, error) {
	return f.getStudyPathFn(ctx, id)
}

func (f *fakeStudyPathService) RequestImages(ctx context.Context, id int64) error {
	return f.requestImagesFn(ctx, id)
}

func (f *fakeStudyPathService) SearchModules(ctx context.Context, query string, limit int) ([]search.ModuleDocument, error) {
	return f.searchModulesFn(ctx, query, limit)
}

func (f *fakeStudyPathService) ListStudyPaths(ctx context.Context, filter store.StudyPathFilter) ([]domain.StudyPathSummary, error) {
	return f.listStudyPathsFn(ctx, filter)
}

func (f *fakeStudyPathService) SemanticSearch(ctx context.Context, query string, limit int) ([]domain.ModuleMatch, error) {
	return f.semanticSearchFn(ctx, query, limit)
}

type fakeQuizService struct {
	requestQuizFn        func(ctx context.Context, moduleID int64) error
	getLatestQuizFn      func(ctx context.Context, moduleID int64) (*domain.QuizView, error)
	submitQuizFn         func(ctx context.Context, quizID, userID int64, answers []domain.Answer) (*domain.QuizAttempt, error)
	getUserPerformanceFn func(ctx context.Context, userID int64) (*domain.UserPerformance, error)
}

func (f *fakeQuizService) RequestQuiz(ctx context.Context, moduleID int64) error {
	return f.requestQuizFn(ctx, moduleID)
}

func (f *fakeQuizService) GetLatestQuiz(ctx context.Context, moduleID int64) (*domain.QuizView, error) {
	return f.getLatestQuizFn(ctx, moduleID)
}

func (f *fakeQuizService) SubmitQuiz(ctx context.Context, quizID, userID int64, answers []domain.Answer) (*domain.QuizAttempt, error) {
	return f.submitQuizFn(ctx, quizID, userID, answers)
}

func (f *fakeQuizService) GetUserPerformance(ctx context.Context, userID int64) (*domain.UserPerformance, error) {
	return f.getUserPerformanceFn(ctx, userID)
}

type fakeProgressService struct {
	completeModuleFn  func(ctx context.Context, userID, moduleID int64) (*domain.ModuleCompletion, bool, error)
	getUserProgressFn func(ctx context.Context, userID int64) (*domain.UserProgress, error)
}

func (f *fakeProgressService) CompleteModule(ctx context.Context, userID, moduleID int64) (*domain.ModuleCompletion, bool, error) {
	return f.completeModuleFn(ctx, userID, moduleID)
}

func (f *fakeProgressService) GetUserProgress(ctx context.Context, userID int64) (*domain.UserProgress, error) {
	return f.getUserProgressFn(ctx, userID)
}

type fakeTTSService struct {
	requestSpeechFn func(ctx context.Context, text string, userID, moduleID *int64) (*domain.TTSJob, error)
	getJobFn        func(ctx context.Context, id uuid.UUID) (*domain.TTSJob, error)
	listJobsFn      func(ctx context.Context, filter store.TTSJobFilter) ([]domain.TTSJob, error)
}

func (f *fakeTTSService) RequestSpeech(ctx context.Context, text string, userID, moduleID *int64) (*domain.TTSJob, error) {
	return f.requestSpeechFn(ctx, text, userID, moduleID)
}

func (f *fakeTTSService) GetJob(ctx context.Context, id uuid.UUID) (*domain.TTSJob, error) {
	return f.getJobFn(ctx, id)
}

func (f *fakeTTSService) ListJobs(ctx context.Context, filter store.TTSJobFilter) ([]domain.TTSJob, error) {
	return f.listJobsFn(ctx, filter)
}
