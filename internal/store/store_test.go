package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lumenlearn/lumen/internal/store"
	"github.com/stretchr/testify/assert"
)

// TestErrorDefinitions ensures that entity-specific errors wrap their generic
// counterparts and can be matched with errors.Is.
func TestErrorDefinitions(t *testing.T) {
	t.Parallel()

	notFound := []error{
		store.ErrRequestNotFound,
		store.ErrStudyPathNotFound,
		store.ErrModuleNotFound,
		store.ErrQuizNotFound,
		store.ErrTTSJobNotFound,
	}
	for _, err := range notFound {
		assert.True(t, errors.Is(err, store.ErrNotFound), "%v should wrap ErrNotFound", err)
		assert.True(t, store.IsNotFoundError(fmt.Errorf("lookup: %w", err)))
	}

	assert.False(t, errors.Is(store.ErrModuleNotFound, store.ErrRequestNotFound))
	assert.True(t, errors.Is(store.ErrTransactionFailed, store.ErrPersistence))
	assert.False(t, store.IsNotFoundError(store.ErrPersistence))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := store.NewStoreError("tts_job", "mark_failed", "could not record failure", cause)

	assert.Equal(t, "mark_failed operation on tts_job failed: could not record failure: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := store.NewStoreError("module", "set_image", "no row", nil)
	assert.Equal(t, "set_image operation on module failed: no row", bare.Error())
}
