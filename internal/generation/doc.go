// Package generation declares the contracts between the task handlers and
// the external AI services: structured text, embeddings, images, speech and
// blob upload. It also owns the prompts and response schemas for study paths
// and quizzes, and the parsing of provider output into domain drafts.
// Provider implementations live under internal/platform.
package generation
