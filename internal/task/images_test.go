package task_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/generation"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleImages(t *testing.T) {
	f := newFixture(t)
	f.paths.GetStudyPathFn = func(_ context.Context, id int64) (*domain.StudyPath, error) {
		return &domain.StudyPath{ID: id, Topic: "Cultura general"}, nil
	}
	f.paths.ListModulesWithoutImageFn = func(context.Context, int64) ([]domain.Module, error) {
		return []domain.Module{
			{ID: 1, StudyPathID: 11, Title: "Introducción a Python"},
			{ID: 2, StudyPathID: 11, Title: "Historia del Arte"},
			{ID: 3, StudyPathID: 11, Title: "Música barroca"},
			{ID: 4, StudyPathID: 11, Title: "Pintura flamenca"},
		}, nil
	}

	var prefixes []string
	f.images.GenerateImageFn = func(_ context.Context, prompt, prefix string) (string, error) {
		prefixes = append(prefixes, prefix)
		if prefix == "Historia del Arte" {
			return "", fmt.Errorf("%w: all image models failed", generation.ErrProviderFailure)
		}
		assert.NotEmpty(t, prompt)
		return "https://cdn.test/" + prefix + ".png", nil
	}
	stored := map[int64]string{}
	f.paths.SetModuleImageFn = func(_ context.Context, id int64, url string) (bool, error) {
		switch id {
		case 3:
			return false, nil
		case 4:
			return false, store.ErrPersistence
		}
		stored[id] = url
		return true, nil
	}

	err := f.service(t).HandleImages(context.Background(), task.ImagesTask{StudyPathID: 11})
	require.NoError(t, err)

	assert.Equal(t, []string{"Python", "Historia del Arte", "Música barroca", "Pintura flamenca"}, prefixes)
	assert.Equal(t, map[int64]string{1: "https://cdn.test/Python.png"}, stored)

	require.Len(t, f.index.Indexed, 1)
	assert.Equal(t, int64(1), f.index.Indexed[0].ID)
	assert.Equal(t, "https://cdn.test/Python.png", f.index.Indexed[0].ImageURL)
	assert.Equal(t, "Cultura general", f.index.Indexed[0].Topic)
}

func TestHandleImages_NothingToDo(t *testing.T) {
	f := newFixture(t)
	f.paths.GetStudyPathFn = func(_ context.Context, id int64) (*domain.StudyPath, error) {
		return &domain.StudyPath{ID: id, Topic: "Rust"}, nil
	}
	f.images.GenerateImageFn = func(context.Context, string, string) (string, error) {
		t.Fatal("no image should be generated")
		return "", nil
	}

	assert.NoError(t, f.service(t).HandleImages(context.Background(), task.ImagesTask{StudyPathID: 11}))
}

func TestHandleImages_Failures(t *testing.T) {
	t.Run("missing study path", func(t *testing.T) {
		f := newFixture(t)
		err := f.service(t).HandleImages(context.Background(), task.ImagesTask{StudyPathID: 11})
		assert.ErrorIs(t, err, store.ErrStudyPathNotFound)
	})

	t.Run("list failure", func(t *testing.T) {
		f := newFixture(t)
		f.paths.GetStudyPathFn = func(_ context.Context, id int64) (*domain.StudyPath, error) {
			return &domain.StudyPath{ID: id}, nil
		}
		f.paths.ListModulesWithoutImageFn = func(context.Context, int64) ([]domain.Module, error) {
			return nil, errors.New("connection reset")
		}
		err := f.service(t).HandleImages(context.Background(), task.ImagesTask{StudyPathID: 11})
		assert.Error(t, err)
		assert.Equal(t, task.Crashed, task.Classify(err))
	})

	t.Run("deadline stops the loop", func(t *testing.T) {
		f := newFixture(t)
		f.paths.GetStudyPathFn = func(_ context.Context, id int64) (*domain.StudyPath, error) {
			return &domain.StudyPath{ID: id}, nil
		}
		f.paths.ListModulesWithoutImageFn = func(context.Context, int64) ([]domain.Module, error) {
			return []domain.Module{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}, nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		f.images.GenerateImageFn = func(context.Context, string, string) (string, error) {
			calls++
			cancel()
			return "", context.Canceled
		}

		err := f.service(t).HandleImages(ctx, task.ImagesTask{StudyPathID: 11})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
