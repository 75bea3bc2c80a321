package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/platform/logger"
	"github.com/lumenlearn/lumen/internal/store"
)

const (
	defaultTTSListLimit = 50
	maxTTSListLimit     = 200
)

// PostgresTTSJobStore implements store.TTSJobStore.
type PostgresTTSJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTTSJobStore creates a TTS job store on db.
func NewPostgresTTSJobStore(db store.DBTX, logger *slog.Logger) *PostgresTTSJobStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTTSJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "tts_job_store")),
	}
}

var _ store.TTSJobStore = (*PostgresTTSJobStore)(nil)

// Create implements store.TTSJobStore.Create.
func (s *PostgresTTSJobStore) Create(ctx context.Context, job *domain.TTSJob) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := job.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tts_jobs (id, status, text_content, user_id, module_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query, job.ID, job.Status, job.TextContent, job.UserID, job.ModuleID, job.CreatedAt)
	if err != nil {
		log.Error("failed to create tts job",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return MapError(err)
	}

	log.Info("tts job created", slog.String("job_id", job.ID.String()))
	return nil
}

const ttsJobColumns = `id, status, text_content, user_id, module_id, audio_url, error_message, created_at, completed_at`

// GetByID implements store.TTSJobStore.GetByID.
func (s *PostgresTTSJobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TTSJob, error) {
	query := `SELECT ` + ttsJobColumns + ` FROM tts_jobs WHERE id = $1`

	job, err := scanTTSJob(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTTSJobNotFound
		}
		return nil, MapError(err)
	}
	return job, nil
}

// MarkCompleted implements store.TTSJobStore.MarkCompleted.
func (s *PostgresTTSJobStore) MarkCompleted(ctx context.Context, id uuid.UUID, audioURL string) error {
	query := `
		UPDATE tts_jobs
		SET status = 'completed', audio_url = $2, completed_at = now()
		WHERE id = $1 AND status = 'pending'
	`
	result, err := s.db.ExecContext(ctx, query, id, audioURL)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "tts job")
}

// MarkFailed implements store.TTSJobStore.MarkFailed.
func (s *PostgresTTSJobStore) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	query := `
		UPDATE tts_jobs
		SET status = 'failed', error_message = $2, completed_at = now()
		WHERE id = $1 AND status = 'pending'
	`
	result, err := s.db.ExecContext(ctx, query, id, message)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "tts job")
}

// List implements store.TTSJobStore.List.
func (s *PostgresTTSJobStore) List(ctx context.Context, filter store.TTSJobFilter) ([]domain.TTSJob, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.ModuleID != nil {
		args = append(args, *filter.ModuleID)
		conditions = append(conditions, fmt.Sprintf("module_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTTSListLimit
	}
	if limit > maxTTSListLimit {
		limit = maxTTSListLimit
	}
	args = append(args, limit)

	query := `SELECT ` + ttsJobColumns + ` FROM tts_jobs`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	jobs := make([]domain.TTSJob, 0)
	for rows.Next() {
		job, err := scanTTSJob(rows)
		if err != nil {
			return nil, MapError(err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return jobs, nil
}

func scanTTSJob(row rowScanner) (*domain.TTSJob, error) {
	var (
		job          domain.TTSJob
		status       string
		userID       sql.NullInt64
		moduleID     sql.NullInt64
		audioURL     sql.NullString
		errorMessage sql.NullString
		completedAt  sql.NullTime
	)
	err := row.Scan(
		&job.ID,
		&status,
		&job.TextContent,
		&userID,
		&moduleID,
		&audioURL,
		&errorMessage,
		&job.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Status = domain.TTSJobStatus(status)
	job.UserID = nullableInt64(userID)
	job.ModuleID = nullableInt64(moduleID)
	if audioURL.Valid {
		job.AudioURL = &audioURL.String
	}
	if errorMessage.Valid {
		job.ErrorMessage = &errorMessage.String
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	return &job, nil
}
