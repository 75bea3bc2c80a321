package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestStatus represents the processing state of a study path request.
type RequestStatus string

// Possible request status values
const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusProcessing RequestStatus = "processing"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusFailed     RequestStatus = "failed"
)

// IsTerminal reports whether no further transitions are allowed.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusFailed
}

// IsValid reports whether s is a known status.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusProcessing, RequestStatusCompleted, RequestStatusFailed:
		return true
	default:
		return false
	}
}

// StudyPathRequest is the durable record a client polls while a study path
// is being generated. Once terminal it is never written again, and
// StudyPathID is set at most once.
type StudyPathRequest struct {
	ID           uuid.UUID     `json:"id"`
	UserID       *int64        `json:"user_id,omitempty"`
	Topic        string        `json:"topic"`
	Status       RequestStatus `json:"status"`
	StudyPathID  *int64        `json:"study_path_id,omitempty"`
	ErrorMessage *string       `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
}

// NewStudyPathRequest creates a pending request for topic.
func NewStudyPathRequest(userID *int64, topic string) (*StudyPathRequest, error) {
	req := &StudyPathRequest{
		ID:        uuid.New(),
		UserID:    userID,
		Topic:     strings.TrimSpace(topic),
		Status:    RequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// Validate checks if the request has valid data.
func (r *StudyPathRequest) Validate() error {
	if r.ID == uuid.Nil {
		return ErrValidation
	}
	if r.Topic == "" {
		return ErrEmptyTopic
	}
	if !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}
