package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumenlearn/lumen/internal/generation"
	"google.golang.org/genai"
)

func toGenaiSchema(s *generation.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{Required: s.Required}
	switch s.Type {
	case generation.TypeObject:
		out.Type = genai.TypeObject
	case generation.TypeArray:
		out.Type = genai.TypeArray
	case generation.TypeInteger:
		out.Type = genai.TypeInteger
	default:
		out.Type = genai.TypeString
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	out.Items = toGenaiSchema(s.Items)
	return out
}

// firstCandidate returns the first candidate's content, or an error
// describing why the response has none.
func firstCandidate(resp *genai.GenerateContentResponse) (*genai.Content, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, fmt.Errorf("%w: no candidates", errEmptyResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, generation.ErrContentBlocked
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: candidate has no content", errEmptyResponse)
	}
	return candidate.Content, nil
}

// GenerateStructuredText implements generation.StructuredTextGenerator.
func (p *Provider) GenerateStructuredText(ctx context.Context, prompt string, schema *generation.Schema) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(schema),
	}

	var text string
	err := p.callWithRetry(ctx, "generate_structured_text", func(ctx context.Context) error {
		resp, err := p.models.GenerateContent(ctx, p.cfg.TextModel, genai.Text(prompt), cfg)
		if err != nil {
			return err
		}
		content, err := firstCandidate(resp)
		if err != nil {
			return err
		}

		var b strings.Builder
		for _, part := range content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		if strings.TrimSpace(b.String()) == "" {
			return fmt.Errorf("%w: no text parts", errEmptyResponse)
		}
		text = b.String()
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
