package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/platform/logger"
	"github.com/lumenlearn/lumen/internal/store"
)

// PostgresRequestStore implements store.StudyPathRequestStore.
type PostgresRequestStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRequestStore creates a request store on db.
func NewPostgresRequestStore(db store.DBTX, logger *slog.Logger) *PostgresRequestStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRequestStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_path_request_store")),
	}
}

var _ store.StudyPathRequestStore = (*PostgresRequestStore)(nil)

// WithTx implements store.StudyPathRequestStore.WithTx.
func (s *PostgresRequestStore) WithTx(tx *sql.Tx) store.StudyPathRequestStore {
	return &PostgresRequestStore{db: tx, logger: s.logger}
}

// Create implements store.StudyPathRequestStore.Create.
func (s *PostgresRequestStore) Create(ctx context.Context, req *domain.StudyPathRequest) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := req.Validate(); err != nil {
		log.Warn("request validation failed during create",
			slog.String("error", err.Error()),
			slog.String("request_id", req.ID.String()))
		return err
	}

	query := `
		INSERT INTO study_path_requests (id, user_id, topic, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, query, req.ID, req.UserID, req.Topic, req.Status, req.CreatedAt); err != nil {
		log.Error("failed to create study path request",
			slog.String("error", err.Error()),
			slog.String("request_id", req.ID.String()))
		return MapError(err)
	}

	log.Info("study path request created",
		slog.String("request_id", req.ID.String()),
		slog.String("topic", req.Topic))
	return nil
}

// GetByID implements store.StudyPathRequestStore.GetByID.
func (s *PostgresRequestStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyPathRequest, error) {
	query := `
		SELECT id, user_id, topic, status, study_path_id, error_message, created_at, completed_at
		FROM study_path_requests
		WHERE id = $1
	`

	var (
		req          domain.StudyPathRequest
		status       string
		userID       sql.NullInt64
		studyPathID  sql.NullInt64
		errorMessage sql.NullString
		completedAt  sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&userID,
		&req.Topic,
		&status,
		&studyPathID,
		&errorMessage,
		&req.CreatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRequestNotFound
		}
		return nil, MapError(err)
	}

	req.Status = domain.RequestStatus(status)
	req.UserID = nullableInt64(userID)
	req.StudyPathID = nullableInt64(studyPathID)
	if errorMessage.Valid {
		req.ErrorMessage = &errorMessage.String
	}
	if completedAt.Valid {
		req.CompletedAt = &completedAt.Time
	}
	return &req, nil
}

// MarkProcessing implements store.StudyPathRequestStore.MarkProcessing.
func (s *PostgresRequestStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE study_path_requests
		SET status = 'processing'
		WHERE id = $1 AND status IN ('pending', 'processing')
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "study path request")
}

// MarkCompleted implements store.StudyPathRequestStore.MarkCompleted.
func (s *PostgresRequestStore) MarkCompleted(ctx context.Context, id uuid.UUID, studyPathID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE study_path_requests
		SET status = 'completed', study_path_id = $2, completed_at = now()
		WHERE id = $1 AND status IN ('pending', 'processing')
	`
	result, err := s.db.ExecContext(ctx, query, id, studyPathID)
	if err != nil {
		log.Error("failed to mark request completed",
			slog.String("error", err.Error()),
			slog.String("request_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, "study path request")
}

// MarkFailed implements store.StudyPathRequestStore.MarkFailed.
func (s *PostgresRequestStore) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE study_path_requests
		SET status = 'failed', error_message = $2, completed_at = now()
		WHERE id = $1 AND status IN ('pending', 'processing')
	`
	result, err := s.db.ExecContext(ctx, query, id, message)
	if err != nil {
		log.Error("failed to mark request failed",
			slog.String("error", err.Error()),
			slog.String("request_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, "study path request")
}
