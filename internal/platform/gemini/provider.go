package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/lumenlearn/lumen/internal/config"
	"github.com/lumenlearn/lumen/internal/generation"
	"google.golang.org/genai"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
)

// modelsAPI is the subset of genai.Models the provider calls.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Provider implements the generation provider interfaces with Gemini models.
type Provider struct {
	models   modelsAPI
	uploader generation.BlobUploader
	cfg      config.LLMConfig
	logger   *slog.Logger

	maxRetries int
	retryDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error

	rngMu sync.Mutex
	rng   *rand.Rand
}

var (
	_ generation.StructuredTextGenerator = (*Provider)(nil)
	_ generation.Embedder                = (*Provider)(nil)
	_ generation.ImageGenerator          = (*Provider)(nil)
	_ generation.SpeechSynthesizer       = (*Provider)(nil)
)

// NewProvider creates a Gemini client from cfg. Generated images are stored
// through uploader.
func NewProvider(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig, uploader generation.BlobUploader) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "gemini_provider")

	if err := validateConfig(ctx, logger, cfg); err != nil {
		return nil, err
	}
	if uploader == nil {
		return nil, fmt.Errorf("%w: blob uploader is required", generation.ErrInvalidConfig)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create genai client: %v", generation.ErrInvalidConfig, err)
	}

	return newProvider(client.Models, uploader, cfg, logger), nil
}

func newProvider(models modelsAPI, uploader generation.BlobUploader, cfg config.LLMConfig, logger *slog.Logger) *Provider {
	p := &Provider{
		models:     models,
		uploader:   uploader,
		cfg:        cfg,
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		sleep:      sleepContext,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if p.maxRetries < 0 {
		p.maxRetries = defaultMaxRetries
	}
	if p.retryDelay <= 0 {
		p.retryDelay = defaultRetryDelay
	}
	return p
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
