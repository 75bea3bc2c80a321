package domain

import (
	"fmt"
	"strings"
	"time"
)

// StudyPath is an ordered curriculum generated for a topic.
type StudyPath struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
}

// Module is one unit of a study path. Embedding is stored but never
// serialized to clients.
type Module struct {
	ID          int64     `json:"id"`
	StudyPathID int64     `json:"study_path_id"`
	Position    int       `json:"position"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Subtopics   []string  `json:"subtopics"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Embedding   []float32 `json:"-"`
}

// ModuleDraft is a module as produced by the text provider, before it has
// an id or an embedding.
type ModuleDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Subtopics   []string `json:"subtopics"`
}

// Validate checks that the draft has a title.
func (d ModuleDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: module title is empty", ErrValidation)
	}
	return nil
}

// EmbeddingText is the text whose embedding is stored with the module.
func (d ModuleDraft) EmbeddingText() string {
	return fmt.Sprintf("Title: %s\nDescription: %s\nSubtopics: %s",
		d.Title, d.Description, strings.Join(d.Subtopics, ", "))
}

// StudyPathDraft is the structured provider output for a topic.
type StudyPathDraft struct {
	Modules []ModuleDraft `json:"studyPath"`
}

// Validate checks that the draft has at least one valid module.
func (d StudyPathDraft) Validate() error {
	if len(d.Modules) == 0 {
		return ErrNoModules
	}
	for i, m := range d.Modules {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("module %d: %w", i, err)
		}
	}
	return nil
}

// ValidateEmbedding checks that vec has exactly dims components.
func ValidateEmbedding(vec []float32, dims int) error {
	if len(vec) != dims {
		return fmt.Errorf("%w: expected %d dimensions, got %d", ErrInvalidEmbedding, dims, len(vec))
	}
	return nil
}

// StudyPathSummary is a study path with the number of modules it has.
type StudyPathSummary struct {
	StudyPath
	ModuleCount int `json:"module_count"`
}

// ModuleMatch is a module ranked by cosine distance to a query embedding.
// Smaller distances are closer.
type ModuleMatch struct {
	Module
	Distance float64 `json:"distance"`
}
