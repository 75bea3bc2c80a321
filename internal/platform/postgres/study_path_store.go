package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/platform/logger"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/pgvector/pgvector-go"
)

// PostgresStudyPathStore implements store.StudyPathStore.
type PostgresStudyPathStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudyPathStore creates a study path store on db, which may be a
// pool or a transaction. If logger is nil, the default logger is used.
func NewPostgresStudyPathStore(db store.DBTX, logger *slog.Logger) *PostgresStudyPathStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStudyPathStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_path_store")),
	}
}

var _ store.StudyPathStore = (*PostgresStudyPathStore)(nil)

// WithTx implements store.StudyPathStore.WithTx.
func (s *PostgresStudyPathStore) WithTx(tx *sql.Tx) store.StudyPathStore {
	return &PostgresStudyPathStore{db: tx, logger: s.logger}
}

// CreateStudyPath implements store.StudyPathStore.CreateStudyPath.
func (s *PostgresStudyPathStore) CreateStudyPath(ctx context.Context, path *domain.StudyPath) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO study_paths (user_id, topic)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	if err := s.db.QueryRowContext(ctx, query, path.UserID, path.Topic).Scan(&path.ID, &path.CreatedAt); err != nil {
		log.Error("failed to create study path", slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Debug("study path created", slog.Int64("study_path_id", path.ID))
	return nil
}

// CreateModule implements store.StudyPathStore.CreateModule.
// Subtopics travel as a JSON array and are expanded into text[] by the query.
func (s *PostgresStudyPathStore) CreateModule(ctx context.Context, module *domain.Module) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	subtopics, err := encodeStrings(module.Subtopics)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO study_path_modules
			(study_path_id, position, title, description, subtopics, embedding)
		VALUES ($1, $2, $3, $4, ARRAY(SELECT jsonb_array_elements_text($5::jsonb)), $6)
		RETURNING id
	`
	err = s.db.QueryRowContext(ctx, query,
		module.StudyPathID,
		module.Position,
		module.Title,
		module.Description,
		subtopics,
		pgvector.NewVector(module.Embedding),
	).Scan(&module.ID)
	if err != nil {
		log.Error("failed to create module",
			slog.String("error", err.Error()),
			slog.Int64("study_path_id", module.StudyPathID),
			slog.Int("position", module.Position))
		return MapError(err)
	}

	return nil
}

// GetStudyPath implements store.StudyPathStore.GetStudyPath.
func (s *PostgresStudyPathStore) GetStudyPath(ctx context.Context, id int64) (*domain.StudyPath, error) {
	query := `SELECT id, user_id, topic, created_at FROM study_paths WHERE id = $1`

	var (
		path   domain.StudyPath
		userID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&path.ID, &userID, &path.Topic, &path.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStudyPathNotFound
		}
		return nil, MapError(err)
	}
	path.UserID = nullableInt64(userID)
	return &path, nil
}

const moduleColumns = `id, study_path_id, position, title, description, to_jsonb(subtopics), image_url`

// GetModule implements store.StudyPathStore.GetModule.
func (s *PostgresStudyPathStore) GetModule(ctx context.Context, id int64) (*domain.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM study_path_modules WHERE id = $1`

	module, err := scanModule(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrModuleNotFound
		}
		return nil, MapError(err)
	}
	return module, nil
}

// ListModules implements store.StudyPathStore.ListModules.
func (s *PostgresStudyPathStore) ListModules(ctx context.Context, studyPathID int64) ([]domain.Module, error) {
	query := `SELECT ` + moduleColumns + `
		FROM study_path_modules
		WHERE study_path_id = $1
		ORDER BY position`
	return s.queryModules(ctx, query, studyPathID)
}

// ListModulesWithoutImage implements store.StudyPathStore.ListModulesWithoutImage.
func (s *PostgresStudyPathStore) ListModulesWithoutImage(ctx context.Context, studyPathID int64) ([]domain.Module, error) {
	query := `SELECT ` + moduleColumns + `
		FROM study_path_modules
		WHERE study_path_id = $1 AND image_url IS NULL
		ORDER BY position`
	return s.queryModules(ctx, query, studyPathID)
}

// SetModuleImage implements store.StudyPathStore.SetModuleImage.
func (s *PostgresStudyPathStore) SetModuleImage(ctx context.Context, moduleID int64, url string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE study_path_modules SET image_url = $1 WHERE id = $2 AND image_url IS NULL`
	result, err := s.db.ExecContext(ctx, query, url, moduleID)
	if err != nil {
		log.Error("failed to set module image",
			slog.String("error", err.Error()),
			slog.Int64("module_id", moduleID))
		return false, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}
	return rows > 0, nil
}

const (
	defaultStudyPathListLimit = 20
	maxStudyPathListLimit     = 100
)

// ListStudyPaths implements store.StudyPathStore.ListStudyPaths.
func (s *PostgresStudyPathStore) ListStudyPaths(ctx context.Context, filter store.StudyPathFilter) ([]domain.StudyPathSummary, error) {
	var args []any
	query := `
		SELECT p.id, p.user_id, p.topic, p.created_at, count(m.id)
		FROM study_paths p
		LEFT JOIN study_path_modules m ON m.study_path_id = p.id`
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += ` WHERE p.user_id = $1`
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultStudyPathListLimit
	}
	if limit > maxStudyPathListLimit {
		limit = maxStudyPathListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(`
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d`, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	paths := make([]domain.StudyPathSummary, 0)
	for rows.Next() {
		var (
			p      domain.StudyPathSummary
			userID sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &userID, &p.Topic, &p.CreatedAt, &p.ModuleCount); err != nil {
			return nil, MapError(err)
		}
		p.UserID = nullableInt64(userID)
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return paths, nil
}

// SearchModulesByEmbedding implements store.StudyPathStore.SearchModulesByEmbedding.
// <=> is pgvector's cosine distance operator.
func (s *PostgresStudyPathStore) SearchModulesByEmbedding(ctx context.Context, embedding []float32, limit int) ([]domain.ModuleMatch, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + moduleColumns + `, embedding <=> $1 AS distance
		FROM study_path_modules
		ORDER BY distance ASC
		LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		log.Error("semantic module search failed", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	matches := make([]domain.ModuleMatch, 0, limit)
	for rows.Next() {
		var distance float64
		module, err := scanModule(rows, &distance)
		if err != nil {
			return nil, MapError(err)
		}
		matches = append(matches, domain.ModuleMatch{Module: *module, Distance: distance})
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return matches, nil
}

func (s *PostgresStudyPathStore) queryModules(ctx context.Context, query string, args ...any) ([]domain.Module, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	modules := make([]domain.Module, 0)
	for rows.Next() {
		module, err := scanModule(rows)
		if err != nil {
			return nil, MapError(err)
		}
		modules = append(modules, *module)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return modules, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanModule reads moduleColumns followed by any extra selected columns.
func scanModule(row rowScanner, extra ...any) (*domain.Module, error) {
	var (
		m         domain.Module
		subtopics []byte
		imageURL  sql.NullString
	)
	dest := append([]any{&m.ID, &m.StudyPathID, &m.Position, &m.Title, &m.Description, &subtopics, &imageURL}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(subtopics, &m.Subtopics); err != nil {
		return nil, fmt.Errorf("failed to decode subtopics: %w", err)
	}
	if imageURL.Valid {
		m.ImageURL = &imageURL.String
	}
	return &m, nil
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(data), nil
}

func nullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
