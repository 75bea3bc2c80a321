package task

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumenlearn/lumen/internal/generation"
	"github.com/lumenlearn/lumen/internal/platform/logger"
	"github.com/lumenlearn/lumen/internal/platform/search"
	"github.com/lumenlearn/lumen/internal/store"
)

// recordTimeout bounds writes of a failure onto a durable record. Those writes
// run on a context detached from the handler's so an expired handler can
// still record why it failed.
const recordTimeout = 15 * time.Second

// Enqueuer publishes follow-up tasks.
type Enqueuer interface {
	Enqueue(ctx context.Context, t Task) error
}

// ModuleIndexer makes modules searchable.
type ModuleIndexer interface {
	IndexModule(ctx context.Context, doc search.ModuleDocument) error
}

// Deps are the collaborators of Service. Index is optional.
type Deps struct {
	DB         *sql.DB
	Requests   store.StudyPathRequestStore
	StudyPaths store.StudyPathStore
	Quizzes    store.QuizStore
	TTSJobs    store.TTSJobStore

	Text     generation.StructuredTextGenerator
	Embedder generation.Embedder
	Images   generation.ImageGenerator
	Speech   generation.SpeechSynthesizer
	Blobs    generation.BlobUploader

	Enqueuer Enqueuer
	Index    ModuleIndexer
	Logger   *slog.Logger

	// ContentLanguage is the language generated content is written in.
	ContentLanguage string
	// EmbeddingDimensions is the required length of module embeddings.
	EmbeddingDimensions int
}

// Service implements Handlers over the stores and providers in Deps.
type Service struct {
	db         *sql.DB
	requests   store.StudyPathRequestStore
	studyPaths store.StudyPathStore
	quizzes    store.QuizStore
	ttsJobs    store.TTSJobStore

	text     generation.StructuredTextGenerator
	embedder generation.Embedder
	images   generation.ImageGenerator
	speech   generation.SpeechSynthesizer
	blobs    generation.BlobUploader

	enqueuer Enqueuer
	index    ModuleIndexer
	logger   *slog.Logger

	language   string
	dimensions int
}

var _ Handlers = (*Service)(nil)

// NewService validates deps and returns the task handlers.
func NewService(deps Deps) (*Service, error) {
	required := []struct {
		name    string
		missing bool
	}{
		{"db", deps.DB == nil},
		{"request store", deps.Requests == nil},
		{"study path store", deps.StudyPaths == nil},
		{"quiz store", deps.Quizzes == nil},
		{"tts job store", deps.TTSJobs == nil},
		{"text generator", deps.Text == nil},
		{"embedder", deps.Embedder == nil},
		{"image generator", deps.Images == nil},
		{"speech synthesizer", deps.Speech == nil},
		{"blob uploader", deps.Blobs == nil},
		{"enqueuer", deps.Enqueuer == nil},
	}
	for _, r := range required {
		if r.missing {
			return nil, fmt.Errorf("%w: %s", ErrMissingDependency, r.name)
		}
	}
	if deps.EmbeddingDimensions <= 0 {
		return nil, fmt.Errorf("%w: embedding dimensions must be positive", ErrMissingDependency)
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	language := deps.ContentLanguage
	if language == "" {
		language = "English"
	}

	return &Service{
		db:         deps.DB,
		requests:   deps.Requests,
		studyPaths: deps.StudyPaths,
		quizzes:    deps.Quizzes,
		ttsJobs:    deps.TTSJobs,
		text:       deps.Text,
		embedder:   deps.Embedder,
		images:     deps.Images,
		speech:     deps.Speech,
		blobs:      deps.Blobs,
		enqueuer:   deps.Enqueuer,
		index:      deps.Index,
		logger:     log,
		language:   language,
		dimensions: deps.EmbeddingDimensions,
	}, nil
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// recordContext returns a context for writing a failure record that survives
// the cancellation of ctx.
func recordContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
}
