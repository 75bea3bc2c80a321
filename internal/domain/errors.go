// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTopic is returned when a study path is requested without a topic.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrEmptyText is returned when speech is requested for empty text.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidStatus is returned when a status value is not one of the
	// known states for its entity.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrTerminalStatus is returned when a transition is attempted on a record
	// that is already completed or failed.
	ErrTerminalStatus = errors.New("record is already in a terminal status")

	// ErrNoModules is returned when a generated study path contains no modules.
	ErrNoModules = errors.New("study path has no modules")

	// ErrNoQuestions is returned when a generated quiz contains no questions.
	ErrNoQuestions = errors.New("quiz has no questions")

	// ErrInvalidQuestion is returned when a question is incomplete or its
	// correct option index does not address one of its options.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrInvalidEmbedding is returned when an embedding does not have the
	// configured dimensionality.
	ErrInvalidEmbedding = errors.New("invalid embedding")

	// ErrInvalidAnswer is returned when a quiz submission leaves a question
	// unanswered, answers one twice, names a question outside the quiz or
	// selects an option that does not exist.
	ErrInvalidAnswer = errors.New("invalid answer")
)
