package gemini

import (
	"context"
	"fmt"

	"github.com/lumenlearn/lumen/internal/generation"
	"google.golang.org/genai"
)

// speechFormat is the PCM layout Gemini TTS models return.
var speechFormat = generation.SampleFormat{
	SampleRate:    24000,
	Channels:      1,
	BitsPerSample: 16,
	MIMEType:      "audio/L16;codec=pcm;rate=24000",
}

// TextToSpeech implements generation.SpeechSynthesizer using the configured
// prebuilt voice.
func (p *Provider) TextToSpeech(ctx context.Context, text string) ([]byte, generation.SampleFormat, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: p.cfg.TTSVoice},
			},
		},
	}

	var pcm []byte
	err := p.callWithRetry(ctx, "text_to_speech", func(ctx context.Context) error {
		resp, err := p.models.GenerateContent(ctx, p.cfg.TTSModel, genai.Text(text), cfg)
		if err != nil {
			return err
		}
		content, err := firstCandidate(resp)
		if err != nil {
			return err
		}
		part := content.Parts[0]
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			return fmt.Errorf("%w: response has no audio data", errEmptyResponse)
		}
		pcm = part.InlineData.Data
		return nil
	})
	if err != nil {
		return nil, generation.SampleFormat{}, err
	}
	return pcm, speechFormat, nil
}
