package task

import (
	"context"
	"fmt"

	"github.com/lumenlearn/lumen/internal/audio"
	"github.com/lumenlearn/lumen/internal/redact"
)

// HandleTTS synthesizes the job's text, wraps the PCM samples in a WAV
// container, uploads it and completes the job with the public URL. Any
// failure is recorded on the job; if that write fails too the original error
// is returned unrecorded. A job that is already terminal is skipped.
func (s *Service) HandleTTS(ctx context.Context, t TTSTask) error {
	log := s.log(ctx).With("job_id", t.JobID.String())

	job, err := s.ttsJobs.GetByID(ctx, t.JobID)
	if err != nil {
		return fmt.Errorf("failed to load tts job: %w", err)
	}
	if job.Status.IsTerminal() {
		log.InfoContext(ctx, "tts job already finished, skipping", "status", string(job.Status))
		return nil
	}

	url, err := s.synthesize(ctx, t)
	if err == nil {
		err = s.ttsJobs.MarkCompleted(ctx, t.JobID, url)
		if err == nil {
			log.InfoContext(ctx, "tts job completed", "audio_url", url)
			return nil
		}
		err = fmt.Errorf("failed to complete tts job: %w", err)
	}

	log.ErrorContext(ctx, "tts job failed", "error", redact.Error(err))
	rctx, cancel := recordContext(ctx)
	defer cancel()
	if markErr := s.ttsJobs.MarkFailed(rctx, t.JobID, redact.Message(err)); markErr != nil {
		log.ErrorContext(ctx, "failed to record tts job failure", "error", markErr)
		return err
	}
	return &RecordedFailure{Err: err}
}

func (s *Service) synthesize(ctx context.Context, t TTSTask) (string, error) {
	pcm, format, err := s.speech.TextToSpeech(ctx, t.Text)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize speech: %w", err)
	}
	wav, err := audio.EncodeWAV(pcm, format)
	if err != nil {
		return "", fmt.Errorf("failed to encode audio: %w", err)
	}
	url, err := s.blobs.UploadBlob(ctx, fmt.Sprintf("tts/%s.wav", t.JobID), wav, audio.WAVContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}
	return url, nil
}
