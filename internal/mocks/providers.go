package mocks

import (
	"context"

	"github.com/lumenlearn/lumen/internal/generation"
	"github.com/lumenlearn/lumen/internal/platform/search"
	"github.com/lumenlearn/lumen/internal/task"
)

// TextGenerator is a mock implementation of generation.StructuredTextGenerator.
type TextGenerator struct {
	GenerateStructuredTextFn func(ctx context.Context, prompt string, schema *generation.Schema) (string, error)
}

func (m *TextGenerator) GenerateStructuredText(
	ctx context.Context,
	prompt string,
	schema *generation.Schema,
) (string, error) {
	if m.GenerateStructuredTextFn != nil {
		return m.GenerateStructuredTextFn(ctx, prompt, schema)
	}
	return "", nil
}

// Embedder is a mock implementation of generation.Embedder.
type Embedder struct {
	GenerateEmbeddingFn func(ctx context.Context, text string) ([]float32, error)
}

func (m *Embedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.GenerateEmbeddingFn != nil {
		return m.GenerateEmbeddingFn(ctx, text)
	}
	return nil, nil
}

// ImageGenerator is a mock implementation of generation.ImageGenerator.
type ImageGenerator struct {
	GenerateImageFn func(ctx context.Context, prompt, namePrefix string) (string, error)
}

func (m *ImageGenerator) GenerateImage(ctx context.Context, prompt, namePrefix string) (string, error) {
	if m.GenerateImageFn != nil {
		return m.GenerateImageFn(ctx, prompt, namePrefix)
	}
	return "", nil
}

// SpeechSynthesizer is a mock implementation of generation.SpeechSynthesizer.
type SpeechSynthesizer struct {
	TextToSpeechFn func(ctx context.Context, text string) ([]byte, generation.SampleFormat, error)
}

func (m *SpeechSynthesizer) TextToSpeech(ctx context.Context, text string) ([]byte, generation.SampleFormat, error) {
	if m.TextToSpeechFn != nil {
		return m.TextToSpeechFn(ctx, text)
	}
	return nil, generation.SampleFormat{}, nil
}

// BlobUploader is a mock implementation of generation.BlobUploader.
type BlobUploader struct {
	UploadBlobFn func(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}

func (m *BlobUploader) UploadBlob(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if m.UploadBlobFn != nil {
		return m.UploadBlobFn(ctx, filename, data, contentType)
	}
	return "", nil
}

// Enqueuer records enqueued tasks.
type Enqueuer struct {
	EnqueueFn func(ctx context.Context, t task.Task) error
	Enqueued  []task.Task
}

func (m *Enqueuer) Enqueue(ctx context.Context, t task.Task) error {
	m.Enqueued = append(m.Enqueued, t)
	if m.EnqueueFn != nil {
		return m.EnqueueFn(ctx, t)
	}
	return nil
}

// Indexer records indexed module documents.
type Indexer struct {
	IndexModuleFn func(ctx context.Context, doc search.ModuleDocument) error
	Indexed       []search.ModuleDocument
}

func (m *Indexer) IndexModule(ctx context.Context, doc search.ModuleDocument) error {
	m.Indexed = append(m.Indexed, doc)
	if m.IndexModuleFn != nil {
		return m.IndexModuleFn(ctx, doc)
	}
	return nil
}

// Searcher is a mock module search index.
type Searcher struct {
	SearchFn func(ctx context.Context, query string, limit int) ([]search.ModuleDocument, error)
}

func (m *Searcher) Search(ctx context.Context, query string, limit int) ([]search.ModuleDocument, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, limit)
	}
	return []search.ModuleDocument{}, nil
}
