// Package mocks provides function-field fakes of the stores, providers and
// task plumbing shared by package tests. An unset function returns a zero
// value or the not-found error of its store.
package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/store"
)

// StudyPathStore is a mock implementation of store.StudyPathStore.
type StudyPathStore struct {
	CreateStudyPathFn         func(ctx context.Context, path *domain.StudyPath) error
	CreateModuleFn            func(ctx context.Context, module *domain.Module) error
	GetStudyPathFn            func(ctx context.Context, id int64) (*domain.StudyPath, error)
	GetModuleFn               func(ctx context.Context, id int64) (*domain.Module, error)
	ListModulesFn             func(ctx context.Context, studyPathID int64) ([]domain.Module, error)
	ListModulesWithoutImageFn func(ctx context.Context, studyPathID int64) ([]domain.Module, error)
	SetModuleImageFn          func(ctx context.Context, moduleID int64, url string) (bool, error)
	ListStudyPathsFn          func(ctx context.Context, filter store.StudyPathFilter) ([]domain.StudyPathSummary, error)
	SearchModulesFn           func(ctx context.Context, embedding []float32, limit int) ([]domain.ModuleMatch, error)
}

func (m *StudyPathStore) CreateStudyPath(ctx context.Context, path *domain.StudyPath) error {
	if m.CreateStudyPathFn != nil {
		return m.CreateStudyPathFn(ctx, path)
	}
	return nil
}

func (m *StudyPathStore) CreateModule(ctx context.Context, module *domain.Module) error {
	if m.CreateModuleFn != nil {
		return m.CreateModuleFn(ctx, module)
	}
	return nil
}

func (m *StudyPathStore) GetStudyPath(ctx context.Context, id int64) (*domain.StudyPath, error) {
	if m.GetStudyPathFn != nil {
		return m.GetStudyPathFn(ctx, id)
	}
	return nil, store.ErrStudyPathNotFound
}

func (m *StudyPathStore) GetModule(ctx context.Context, id int64) (*domain.Module, error) {
	if m.GetModuleFn != nil {
		return m.GetModuleFn(ctx, id)
	}
	return nil, store.ErrModuleNotFound
}

func (m *StudyPathStore) ListModules(ctx context.Context, studyPathID int64) ([]domain.Module, error) {
	if m.ListModulesFn != nil {
		return m.ListModulesFn(ctx, studyPathID)
	}
	return nil, nil
}

func (m *StudyPathStore) ListModulesWithoutImage(ctx context.Context, studyPathID int64) ([]domain.Module, error) {
	if m.ListModulesWithoutImageFn != nil {
		return m.ListModulesWithoutImageFn(ctx, studyPathID)
	}
	return nil, nil
}

func (m *StudyPathStore) SetModuleImage(ctx context.Context, moduleID int64, url string) (bool, error) {
	if m.SetModuleImageFn != nil {
		return m.SetModuleImageFn(ctx, moduleID, url)
	}
	return true, nil
}

func (m *StudyPathStore) ListStudyPaths(ctx context.Context, filter store.StudyPathFilter) ([]domain.StudyPathSummary, error) {
	if m.ListStudyPathsFn != nil {
		return m.ListStudyPathsFn(ctx, filter)
	}
	return nil, nil
}

func (m *StudyPathStore) SearchModulesByEmbedding(ctx context.Context, embedding []float32, limit int) ([]domain.ModuleMatch, error) {
	if m.SearchModulesFn != nil {
		return m.SearchModulesFn(ctx, embedding, limit)
	}
	return nil, nil
}

// WithTx returns the same mock.
func (m *StudyPathStore) WithTx(*sql.Tx) store.StudyPathStore {
	return m
}

// RequestStore is a mock implementation of store.StudyPathRequestStore.
type RequestStore struct {
	CreateFn         func(ctx context.Context, req *domain.StudyPathRequest) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.StudyPathRequest, error)
	MarkProcessingFn func(ctx context.Context, id uuid.UUID) error
	MarkCompletedFn  func(ctx context.Context, id uuid.UUID, studyPathID int64) error
	MarkFailedFn     func(ctx context.Context, id uuid.UUID, message string) error
}

func (m *RequestStore) Create(ctx context.Context, req *domain.StudyPathRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, req)
	}
	return nil
}

func (m *RequestStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyPathRequest, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrRequestNotFound
}

func (m *RequestStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	if m.MarkProcessingFn != nil {
		return m.MarkProcessingFn(ctx, id)
	}
	return nil
}

func (m *RequestStore) MarkCompleted(ctx context.Context, id uuid.UUID, studyPathID int64) error {
	if m.MarkCompletedFn != nil {
		return m.MarkCompletedFn(ctx, id, studyPathID)
	}
	return nil
}

func (m *RequestStore) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	if m.MarkFailedFn != nil {
		return m.MarkFailedFn(ctx, id, message)
	}
	return nil
}

// WithTx returns the same mock.
func (m *RequestStore) WithTx(*sql.Tx) store.StudyPathRequestStore {
	return m
}

// QuizStore is a mock implementation of store.QuizStore.
type QuizStore struct {
	CreateQuizFn         func(ctx context.Context, quiz *domain.Quiz) error
	GetLatestForModuleFn func(ctx context.Context, moduleID int64) (*domain.Quiz, error)
	GetQuizFn            func(ctx context.Context, id int64) (*domain.Quiz, error)
	CreateAttemptFn      func(ctx context.Context, attempt *domain.QuizAttempt) error
	ListPerformanceFn    func(ctx context.Context, userID int64) ([]domain.QuizPerformance, error)
}

func (m *QuizStore) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if m.CreateQuizFn != nil {
		return m.CreateQuizFn(ctx, quiz)
	}
	return nil
}

func (m *QuizStore) GetLatestForModule(ctx context.Context, moduleID int64) (*domain.Quiz, error) {
	if m.GetLatestForModuleFn != nil {
		return m.GetLatestForModuleFn(ctx, moduleID)
	}
	return nil, store.ErrQuizNotFound
}

func (m *QuizStore) GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error) {
	if m.GetQuizFn != nil {
		return m.GetQuizFn(ctx, id)
	}
	return nil, store.ErrQuizNotFound
}

func (m *QuizStore) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	if m.CreateAttemptFn != nil {
		return m.CreateAttemptFn(ctx, attempt)
	}
	return nil
}

func (m *QuizStore) ListPerformance(ctx context.Context, userID int64) ([]domain.QuizPerformance, error) {
	if m.ListPerformanceFn != nil {
		return m.ListPerformanceFn(ctx, userID)
	}
	return nil, nil
}

// WithTx returns the same mock.
func (m *QuizStore) WithTx(*sql.Tx) store.QuizStore {
	return m
}

// ProgressStore is a mock implementation of store.ProgressStore.
type ProgressStore struct {
	CompleteModuleFn        func(ctx context.Context, completion *domain.ModuleCompletion) (bool, error)
	ListStudyPathProgressFn func(ctx context.Context, userID int64) ([]domain.StudyPathProgress, error)
}

func (m *ProgressStore) CompleteModule(ctx context.Context, completion *domain.ModuleCompletion) (bool, error) {
	if m.CompleteModuleFn != nil {
		return m.CompleteModuleFn(ctx, completion)
	}
	return true, nil
}

func (m *ProgressStore) ListStudyPathProgress(ctx context.Context, userID int64) ([]domain.StudyPathProgress, error) {
	if m.ListStudyPathProgressFn != nil {
		return m.ListStudyPathProgressFn(ctx, userID)
	}
	return nil, nil
}

// TTSJobStore is a mock implementation of store.TTSJobStore.
type TTSJobStore struct {
	CreateFn        func(ctx context.Context, job *domain.TTSJob) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.TTSJob, error)
	MarkCompletedFn func(ctx context.Context, id uuid.UUID, audioURL string) error
	MarkFailedFn    func(ctx context.Context, id uuid.UUID, message string) error
	ListFn          func(ctx context.Context, filter store.TTSJobFilter) ([]domain.TTSJob, error)
}

func (m *TTSJobStore) Create(ctx context.Context, job *domain.TTSJob) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, job)
	}
	return nil
}

func (m *TTSJobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TTSJob, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrTTSJobNotFound
}

func (m *TTSJobStore) MarkCompleted(ctx context.Context, id uuid.UUID, audioURL string) error {
	if m.MarkCompletedFn != nil {
		return m.MarkCompletedFn(ctx, id, audioURL)
	}
	return nil
}

func (m *TTSJobStore) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	if m.MarkFailedFn != nil {
		return m.MarkFailedFn(ctx, id, message)
	}
	return nil
}

func (m *TTSJobStore) List(ctx context.Context, filter store.TTSJobFilter) ([]domain.TTSJob, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return nil, nil
}
