package task_test

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lumenlearn/lumen/internal/mocks"
	"github.com/lumenlearn/lumen/internal/platform/logger"
	"github.com/lumenlearn/lumen/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimensions = 3

type fixture struct {
	db  *sql.DB
	sql sqlmock.Sqlmock

	requests *mocks.RequestStore
	paths    *mocks.StudyPathStore
	quizzes  *mocks.QuizStore
	jobs     *mocks.TTSJobStore

	text     *mocks.TextGenerator
	embedder *mocks.Embedder
	images   *mocks.ImageGenerator
	speech   *mocks.SpeechSynthesizer
	blobs    *mocks.BlobUploader
	enqueuer *mocks.Enqueuer
	index    *mocks.Indexer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &fixture{
		db:       db,
		sql:      mock,
		requests: &mocks.RequestStore{},
		paths:    &mocks.StudyPathStore{},
		quizzes:  &mocks.QuizStore{},
		jobs:     &mocks.TTSJobStore{},
		text:     &mocks.TextGenerator{},
		embedder: &mocks.Embedder{},
		images:   &mocks.ImageGenerator{},
		speech:   &mocks.SpeechSynthesizer{},
		blobs:    &mocks.BlobUploader{},
		enqueuer: &mocks.Enqueuer{},
		index:    &mocks.Indexer{},
	}
}

func (f *fixture) deps(t *testing.T) task.Deps {
	log, _ := logger.NewTestLogger(t)
	return task.Deps{
		DB:                  f.db,
		Requests:            f.requests,
		StudyPaths:          f.paths,
		Quizzes:             f.quizzes,
		TTSJobs:             f.jobs,
		Text:                f.text,
		Embedder:            f.embedder,
		Images:              f.images,
		Speech:              f.speech,
		Blobs:               f.blobs,
		Enqueuer:            f.enqueuer,
		Index:               f.index,
		Logger:              log,
		ContentLanguage:     "Spanish",
		EmbeddingDimensions: testDimensions,
	}
}

func (f *fixture) service(t *testing.T) *task.Service {
	t.Helper()
	s, err := task.NewService(f.deps(t))
	require.NoError(t, err)
	return s
}

func TestNewService(t *testing.T) {
	f := newFixture(t)

	deps := f.deps(t)
	deps.Speech = nil
	_, err := task.NewService(deps)
	assert.ErrorIs(t, err, task.ErrMissingDependency)
	assert.Contains(t, err.Error(), "speech synthesizer")

	deps = f.deps(t)
	deps.EmbeddingDimensions = 0
	_, err = task.NewService(deps)
	assert.ErrorIs(t, err, task.ErrMissingDependency)

	deps = f.deps(t)
	deps.Index = nil
	deps.Logger = nil
	s, err := task.NewService(deps)
	require.NoError(t, err)
	assert.NotNil(t, s)
}
