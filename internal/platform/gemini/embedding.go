package gemini

import (
	"context"
	"fmt"

	"github.com/lumenlearn/lumen/internal/generation"
	"google.golang.org/genai"
)

// GenerateEmbedding implements generation.Embedder. The vector must have the
// configured dimensionality; anything else is a provider failure.
func (p *Provider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	var values []float32
	err := p.callWithRetry(ctx, "generate_embedding", func(ctx context.Context) error {
		resp, err := p.models.EmbedContent(ctx, p.cfg.EmbeddingModel, genai.Text(text), nil)
		if err != nil {
			return err
		}
		if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
			return fmt.Errorf("%w: no embeddings", errEmptyResponse)
		}
		values = resp.Embeddings[0].Values
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(values) != p.cfg.EmbeddingDimensions {
		return nil, fmt.Errorf("%w: embedding has %d dimensions, expected %d",
			generation.ErrProviderFailure, len(values), p.cfg.EmbeddingDimensions)
	}
	return values, nil
}
