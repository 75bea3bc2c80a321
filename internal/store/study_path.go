package store

import (
	"context"
	"database/sql"

	"github.com/lumenlearn/lumen/internal/domain"
)

// StudyPathFilter narrows ListStudyPaths. Zero values are ignored.
type StudyPathFilter struct {
	UserID *int64
	Limit  int
}

// StudyPathStore persists study paths and their modules.
type StudyPathStore interface {
	// CreateStudyPath inserts path and sets its ID and CreatedAt.
	CreateStudyPath(ctx context.Context, path *domain.StudyPath) error

	// CreateModule inserts module with its embedding and sets its ID.
	CreateModule(ctx context.Context, module *domain.Module) error

	// GetStudyPath returns ErrStudyPathNotFound if the path does not exist.
	GetStudyPath(ctx context.Context, id int64) (*domain.StudyPath, error)

	// GetModule returns ErrModuleNotFound if the module does not exist.
	// The embedding is not loaded.
	GetModule(ctx context.Context, id int64) (*domain.Module, error)

	// ListModules returns the path's modules in position order.
	ListModules(ctx context.Context, studyPathID int64) ([]domain.Module, error)

	// ListModulesWithoutImage returns the path's modules whose image URL is
	// still null, in position order.
	ListModulesWithoutImage(ctx context.Context, studyPathID int64) ([]domain.Module, error)

	// SetModuleImage stores url only if the module has no image yet.
	// It reports whether the row was updated.
	SetModuleImage(ctx context.Context, moduleID int64, url string) (bool, error)

	// ListStudyPaths returns paths newest first with their module counts.
	ListStudyPaths(ctx context.Context, filter StudyPathFilter) ([]domain.StudyPathSummary, error)

	// SearchModulesByEmbedding returns up to limit modules ordered by cosine
	// distance to embedding, closest first.
	SearchModulesByEmbedding(ctx context.Context, embedding []float32, limit int) ([]domain.ModuleMatch, error)

	// WithTx returns a StudyPathStore bound to tx.
	WithTx(tx *sql.Tx) StudyPathStore
}
