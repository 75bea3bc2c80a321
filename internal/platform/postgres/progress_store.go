package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/platform/logger"
	"github.com/lumenlearn/lumen/internal/store"
)

// PostgresProgressStore implements store.ProgressStore.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a progress store on db.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// CompleteModule implements store.ProgressStore.CompleteModule.
func (s *PostgresProgressStore) CompleteModule(ctx context.Context, completion *domain.ModuleCompletion) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	insert := `
		INSERT INTO module_progress (user_id, module_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, module_id) DO NOTHING
		RETURNING completed_at
	`
	err := s.db.QueryRowContext(ctx, insert, completion.UserID, completion.ModuleID).Scan(&completion.CompletedAt)
	if err == nil {
		log.Info("module completed",
			slog.Int64("user_id", completion.UserID),
			slog.Int64("module_id", completion.ModuleID))
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to record module completion",
			slog.String("error", err.Error()),
			slog.Int64("user_id", completion.UserID),
			slog.Int64("module_id", completion.ModuleID))
		return false, MapError(err)
	}

	// The row already existed; report the first completion time.
	existing := `SELECT completed_at FROM module_progress WHERE user_id = $1 AND module_id = $2`
	if err := s.db.QueryRowContext(ctx, existing, completion.UserID, completion.ModuleID).Scan(&completion.CompletedAt); err != nil {
		return false, MapError(err)
	}
	return false, nil
}

// ListStudyPathProgress implements store.ProgressStore.ListStudyPathProgress.
func (s *PostgresProgressStore) ListStudyPathProgress(ctx context.Context, userID int64) ([]domain.StudyPathProgress, error) {
	query := `
		SELECT p.id, p.topic,
			count(mp.module_id),
			(SELECT count(*) FROM study_path_modules WHERE study_path_id = p.id),
			max(mp.completed_at)
		FROM module_progress mp
		JOIN study_path_modules m ON m.id = mp.module_id
		JOIN study_paths p ON p.id = m.study_path_id
		WHERE mp.user_id = $1
		GROUP BY p.id
		ORDER BY max(mp.completed_at) DESC, p.id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	paths := make([]domain.StudyPathProgress, 0)
	for rows.Next() {
		var p domain.StudyPathProgress
		if err := rows.Scan(&p.StudyPathID, &p.Topic, &p.CompletedModules, &p.TotalModules, &p.LastCompletedAt); err != nil {
			return nil, MapError(err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return paths, nil
}
