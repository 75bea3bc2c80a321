package task

import (
	"context"

	"github.com/google/uuid"
)

// Type identifies a task variant on the wire.
type Type string

const (
	TypeGenerateStudyPath Type = "generateStudyPath"
	TypeGenerateQuiz      Type = "generateQuiz"
	TypeGenerateImages    Type = "generateImages"
	TypeGenerateTTS       Type = "generateTTS"
)

// Task is one unit of background work. The set of variants is closed; each
// one dispatches itself to the matching Handlers method.
type Task interface {
	Type() Type
	Dispatch(ctx context.Context, h Handlers) error

	sealed()
}

// Handlers runs each task variant.
type Handlers interface {
	HandleStudyPath(ctx context.Context, t StudyPathTask) error
	HandleQuiz(ctx context.Context, t QuizTask) error
	HandleImages(ctx context.Context, t ImagesTask) error
	HandleTTS(ctx context.Context, t TTSTask) error
}

// StudyPathTask generates a study path for Topic. When RequestID is set the
// outcome is recorded on that study path request.
type StudyPathTask struct {
	Topic     string     `json:"topic" validate:"required"`
	UserID    *int64     `json:"userId,omitempty" validate:"omitempty,gt=0"`
	RequestID *uuid.UUID `json:"requestId,omitempty"`
}

// QuizTask generates a quiz for a module.
type QuizTask struct {
	ModuleID int64 `json:"moduleId" validate:"required,gt=0"`
}

// ImagesTask generates icons for the modules of a study path that have none.
type ImagesTask struct {
	StudyPathID int64 `json:"studyPathId" validate:"required,gt=0"`
}

// TTSTask synthesizes Text into audio for the TTS job JobID.
type TTSTask struct {
	Text     string    `json:"text" validate:"required"`
	JobID    uuid.UUID `json:"jobId" validate:"required"`
	UserID   *int64    `json:"userId,omitempty" validate:"omitempty,gt=0"`
	ModuleID *int64    `json:"moduleId,omitempty" validate:"omitempty,gt=0"`
}

func (StudyPathTask) Type() Type { return TypeGenerateStudyPath }
func (QuizTask) Type() Type      { return TypeGenerateQuiz }
func (ImagesTask) Type() Type    { return TypeGenerateImages }
func (TTSTask) Type() Type       { return TypeGenerateTTS }

func (t StudyPathTask) Dispatch(ctx context.Context, h Handlers) error {
	return h.HandleStudyPath(ctx, t)
}

func (t QuizTask) Dispatch(ctx context.Context, h Handlers) error {
	return h.HandleQuiz(ctx, t)
}

func (t ImagesTask) Dispatch(ctx context.Context, h Handlers) error {
	return h.HandleImages(ctx, t)
}

func (t TTSTask) Dispatch(ctx context.Context, h Handlers) error {
	return h.HandleTTS(ctx, t)
}

func (StudyPathTask) sealed() {}
func (QuizTask) sealed()      {}
func (ImagesTask) sealed()    {}
func (TTSTask) sealed()       {}
