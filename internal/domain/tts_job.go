package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TTSJobStatus represents the processing state of a text-to-speech job.
type TTSJobStatus string

// Possible TTS job status values
const (
	TTSJobStatusPending   TTSJobStatus = "pending"
	TTSJobStatusCompleted TTSJobStatus = "completed"
	TTSJobStatusFailed    TTSJobStatus = "failed"
)

// IsTerminal reports whether no further transitions are allowed.
func (s TTSJobStatus) IsTerminal() bool {
	return s == TTSJobStatusCompleted || s == TTSJobStatusFailed
}

// IsValid reports whether s is a known status.
func (s TTSJobStatus) IsValid() bool {
	switch s {
	case TTSJobStatusPending, TTSJobStatusCompleted, TTSJobStatusFailed:
		return true
	default:
		return false
	}
}

// TTSJob tracks the synthesis of TextContent into an audio file.
type TTSJob struct {
	ID           uuid.UUID    `json:"id"`
	TextContent  string       `json:"text_content"`
	Status       TTSJobStatus `json:"status"`
	UserID       *int64       `json:"user_id,omitempty"`
	ModuleID     *int64       `json:"module_id,omitempty"`
	AudioURL     *string      `json:"audio_url,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// NewTTSJob creates a pending job for text.
func NewTTSJob(text string, userID, moduleID *int64) (*TTSJob, error) {
	job := &TTSJob{
		ID:          uuid.New(),
		TextContent: text,
		Status:      TTSJobStatusPending,
		UserID:      userID,
		ModuleID:    moduleID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the job has valid data.
func (j *TTSJob) Validate() error {
	if j.ID == uuid.Nil {
		return ErrValidation
	}
	if strings.TrimSpace(j.TextContent) == "" {
		return ErrEmptyText
	}
	if !j.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// PublicView returns a copy safe to show a polling client: the audio URL is
// only exposed once the job has completed.
func (j TTSJob) PublicView() TTSJob {
	if j.Status != TTSJobStatusCompleted {
		j.AudioURL = nil
	}
	return j
}
