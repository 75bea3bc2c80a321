package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/platform/search"
	"github.com/lumenlearn/lumen/internal/redact"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/task"
)

// TaskEnqueuer publishes tasks on the task queue.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, t task.Task) error
}

// ModuleSearcher answers keyword queries over indexed modules.
type ModuleSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.ModuleDocument, error)
}

// QueryEmbedder embeds free-text queries for semantic search.
type QueryEmbedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// SemanticSearch configures embedding-based module search. A nil Embedder
// disables it.
type SemanticSearch struct {
	Embedder   QueryEmbedder
	Dimensions int
}

const (
	defaultSemanticLimit = 10
	maxSemanticLimit     = 50
)

// StudyPathService accepts study path requests and serves their results.
type StudyPathService interface {
	// RequestStudyPath records a pending request for topic and enqueues its
	// generation. If the task cannot be published the request is marked
	// failed and ErrEnqueueFailed is returned.
	RequestStudyPath(ctx context.Context, userID *int64, topic string) (*domain.StudyPathRequest, error)

	// GetRequest returns the request for polling.
	GetRequest(ctx context.Context, id uuid.UUID) (*domain.StudyPathRequest, error)

	// GetStudyPath returns the study path and its modules in order.
	GetStudyPath(ctx context.Context, id int64) (*domain.StudyPath, []domain.Module, error)

	// RequestImages enqueues icon generation for the path's modules.
	RequestImages(ctx context.Context, studyPathID int64) error

	// SearchModules runs a keyword query over generated modules.
	SearchModules(ctx context.Context, query string, limit int) ([]search.ModuleDocument, error)

	// ListStudyPaths lists study paths newest first with their module counts.
	ListStudyPaths(ctx context.Context, filter store.StudyPathFilter) ([]domain.StudyPathSummary, error)

	// SemanticSearch embeds query and returns the closest modules by cosine
	// distance. limit defaults to 10 and is capped at 50.
	SemanticSearch(ctx context.Context, query string, limit int) ([]domain.ModuleMatch, error)
}

type studyPathService struct {
	requests   store.StudyPathRequestStore
	studyPaths store.StudyPathStore
	enqueuer   TaskEnqueuer
	searcher   ModuleSearcher
	semantic   SemanticSearch
	logger     *slog.Logger
}

// NewStudyPathService returns a StudyPathService. searcher may be nil, in
// which case SearchModules returns ErrSearchUnavailable. Without a
// semantic.Embedder SemanticSearch returns ErrSemanticSearchUnavailable.
func NewStudyPathService(
	requests store.StudyPathRequestStore,
	studyPaths store.StudyPathStore,
	enqueuer TaskEnqueuer,
	searcher ModuleSearcher,
	semantic SemanticSearch,
	logger *slog.Logger,
) (StudyPathService, error) {
	if requests == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "requests cannot be nil"}
	}
	if studyPaths == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "studyPaths cannot be nil"}
	}
	if enqueuer == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "enqueuer cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &studyPathService{
		requests:   requests,
		studyPaths: studyPaths,
		enqueuer:   enqueuer,
		searcher:   searcher,
		semantic:   semantic,
		logger:     logger.With("component", "study_path_service"),
	}, nil
}

func (s *studyPathService) RequestStudyPath(
	ctx context.Context,
	userID *int64,
	topic string,
) (*domain.StudyPathRequest, error) {
	req, err := domain.NewStudyPathRequest(userID, topic)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, NewServiceError("request_study_path", "failed to save request", err)
	}

	t := task.StudyPathTask{Topic: req.Topic, UserID: userID, RequestID: &req.ID}
	if err := s.enqueuer.Enqueue(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue study path generation",
			"request_id", req.ID.String(),
			"error", err)
		msg := redact.Message(fmt.Errorf("%w: %w", ErrEnqueueFailed, err))
		if markErr := s.requests.MarkFailed(ctx, req.ID, msg); markErr != nil {
			s.logger.ErrorContext(ctx, "failed to mark unqueued request failed",
				"request_id", req.ID.String(),
				"error", markErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrEnqueueFailed, err)
	}

	s.logger.InfoContext(ctx, "study path requested",
		"request_id", req.ID.String(),
		"topic", req.Topic)
	return req, nil
}

func (s *studyPathService) GetRequest(ctx context.Context, id uuid.UUID) (*domain.StudyPathRequest, error) {
	return s.requests.GetByID(ctx, id)
}

func (s *studyPathService) GetStudyPath(ctx context.Context, id int64) (*domain.StudyPath, []domain.Module, error) {
	path, err := s.studyPaths.GetStudyPath(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	modules, err := s.studyPaths.ListModules(ctx, id)
	if err != nil {
		return nil, nil, NewServiceError("get_study_path", "failed to list modules", err)
	}
	return path, modules, nil
}

func (s *studyPathService) RequestImages(ctx context.Context, studyPathID int64) error {
	if _, err := s.studyPaths.GetStudyPath(ctx, studyPathID); err != nil {
		return err
	}
	if err := s.enqueuer.Enqueue(ctx, task.ImagesTask{StudyPathID: studyPathID}); err != nil {
		return fmt.Errorf("%w: %w", ErrEnqueueFailed, err)
	}
	return nil
}

func (s *studyPathService) SearchModules(
	ctx context.Context,
	query string,
	limit int,
) ([]search.ModuleDocument, error) {
	if s.searcher == nil {
		return nil, ErrSearchUnavailable
	}
	docs, err := s.searcher.Search(ctx, query, limit)
	if err != nil {
		return nil, NewServiceError("search_modules", "search failed", err)
	}
	return docs, nil
}

func (s *studyPathService) ListStudyPaths(
	ctx context.Context,
	filter store.StudyPathFilter,
) ([]domain.StudyPathSummary, error) {
	paths, err := s.studyPaths.ListStudyPaths(ctx, filter)
	if err != nil {
		return nil, NewServiceError("list_study_paths", "failed to list study paths", err)
	}
	return paths, nil
}

func (s *studyPathService) SemanticSearch(
	ctx context.Context,
	query string,
	limit int,
) ([]domain.ModuleMatch, error) {
	if s.semantic.Embedder == nil {
		return nil, ErrSemanticSearchUnavailable
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultSemanticLimit
	}
	if limit > maxSemanticLimit {
		limit = maxSemanticLimit
	}

	vec, err := s.semantic.Embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, NewServiceError("semantic_search", "failed to embed query", err)
	}
	if err := domain.ValidateEmbedding(vec, s.semantic.Dimensions); err != nil {
		return nil, NewServiceError("semantic_search", "unexpected query embedding", err)
	}

	matches, err := s.studyPaths.SearchModulesByEmbedding(ctx, vec, limit)
	if err != nil {
		return nil, NewServiceError("semantic_search", "search failed", err)
	}
	s.logger.DebugContext(ctx, "semantic search",
		"limit", limit,
		"matches", len(matches))
	return matches, nil
}
