package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lumenlearn/lumen/internal/config"
	"github.com/lumenlearn/lumen/internal/generation"
)

// validateConfig checks the settings the provider cannot run without.
// Retry settings out of range fall back to defaults with a warning.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		logger.ErrorContext(ctx, "missing Gemini API key")
		return fmt.Errorf("%w: GeminiAPIKey cannot be empty", generation.ErrInvalidConfig)
	}

	for name, value := range map[string]string{
		"TextModel":      cfg.TextModel,
		"EmbeddingModel": cfg.EmbeddingModel,
		"TTSModel":       cfg.TTSModel,
		"TTSVoice":       cfg.TTSVoice,
	} {
		if value == "" {
			logger.ErrorContext(ctx, "missing model setting", "setting", name)
			return fmt.Errorf("%w: %s cannot be empty", generation.ErrInvalidConfig, name)
		}
	}

	if len(cfg.ImageModels) == 0 {
		return fmt.Errorf("%w: at least one image model is required", generation.ErrInvalidConfig)
	}

	if cfg.EmbeddingDimensions <= 0 {
		return fmt.Errorf("%w: EmbeddingDimensions must be positive", generation.ErrInvalidConfig)
	}

	if cfg.MaxRetries < 0 {
		logger.WarnContext(ctx, "invalid MaxRetries value",
			"value", cfg.MaxRetries,
			"action", "using default value")
	}

	if cfg.RetryDelay <= 0 {
		logger.WarnContext(ctx, "invalid RetryDelay value",
			"value", cfg.RetryDelay,
			"action", "using default value")
	}

	return nil
}
