package gemini

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumenlearn/lumen/internal/generation"
	"google.golang.org/genai"
)

const (
	imageContentType  = "image/png"
	maxImagePrefixLen = 48
)

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9]+`)

// imageFilename builds "<prefix>-<unix seconds>-<8 hex chars>.png".
func imageFilename(prefix string, now time.Time) string {
	clean := strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(prefix), "-"), "-")
	if len(clean) > maxImagePrefixLen {
		clean = strings.TrimRight(clean[:maxImagePrefixLen], "-")
	}
	if clean == "" {
		clean = "image"
	}
	return fmt.Sprintf("%s-%d-%s.png", clean, now.Unix(), uuid.NewString()[:8])
}

// GenerateImage implements generation.ImageGenerator. Each configured image
// model is tried in order until one returns image bytes; the first image is
// uploaded and its URL returned.
func (p *Provider) GenerateImage(ctx context.Context, prompt, namePrefix string) (string, error) {
	var errs []error
	for _, model := range p.cfg.ImageModels {
		data, err := p.generateImageBytes(ctx, model, prompt)
		if err != nil {
			p.logger.WarnContext(ctx, "image model failed, trying next",
				"model", model,
				"error", err)
			errs = append(errs, fmt.Errorf("%s: %w", model, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		url, err := p.uploader.UploadBlob(ctx, imageFilename(namePrefix, time.Now()), data, imageContentType)
		if err != nil {
			return "", fmt.Errorf("%w: failed to upload image: %w", generation.ErrProviderFailure, err)
		}
		p.logger.DebugContext(ctx, "image generated", "model", model, "url", url)
		return url, nil
	}

	return "", fmt.Errorf("%w: no image model produced an image: %w",
		generation.ErrProviderFailure, errors.Join(errs...))
}

func (p *Provider) generateImageBytes(ctx context.Context, model, prompt string) ([]byte, error) {
	var data []byte
	err := p.callWithRetry(ctx, "generate_image", func(ctx context.Context) error {
		var err error
		if strings.HasPrefix(model, "imagen") {
			data, err = p.generateWithImagen(ctx, model, prompt)
		} else {
			data, err = p.generateWithGemini(ctx, model, prompt)
		}
		return err
	})
	return data, err
}

func (p *Provider) generateWithImagen(ctx context.Context, model, prompt string) ([]byte, error) {
	resp, err := p.models.GenerateImages(ctx, model, prompt, &genai.GenerateImagesConfig{
		AspectRatio: "1:1",
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("%w: no generated images", errEmptyResponse)
	}
	img := resp.GeneratedImages[0]
	if img == nil || img.Image == nil || len(img.Image.ImageBytes) == 0 {
		return nil, fmt.Errorf("%w: generated image has no bytes", errEmptyResponse)
	}
	return img.Image.ImageBytes, nil
}

func (p *Provider) generateWithGemini(ctx context.Context, model, prompt string) ([]byte, error) {
	resp, err := p.models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, err
	}
	content, err := firstCandidate(resp)
	if err != nil {
		return nil, err
	}
	for _, part := range content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, fmt.Errorf("%w: response has no inline image", errEmptyResponse)
}
