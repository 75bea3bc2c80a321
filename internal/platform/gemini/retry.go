package gemini

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lumenlearn/lumen/internal/generation"
)

// errEmptyResponse marks a response without usable content. Retrying the
// same request rarely helps, so it is treated as permanent.
var errEmptyResponse = fmt.Errorf("%w: empty response", generation.ErrProviderFailure)

func isPermanent(err error) bool {
	return errors.Is(err, generation.ErrContentBlocked) ||
		errors.Is(err, generation.ErrMalformedOutput) ||
		errors.Is(err, errEmptyResponse)
}

// backoff returns baseDelay * 2^attempt scaled by a jitter factor in [0.5, 1.0).
func (p *Provider) backoff(attempt int) time.Duration {
	p.rngMu.Lock()
	jitter := 0.5 + p.rng.Float64()*0.5
	p.rngMu.Unlock()

	delay := float64(p.retryDelay) * math.Pow(2, float64(attempt)) * jitter
	return time.Duration(delay)
}

// callWithRetry runs fn up to maxRetries+1 times. API errors are assumed
// transient; permanent errors and context cancellation end the loop early.
func (p *Provider) callWithRetry(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				p.logger.InfoContext(ctx, "gemini call succeeded after retry",
					"operation", operation,
					"attempt", attempt+1)
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s cancelled: %w", generation.ErrTransientFailure, operation, ctxErr)
		}

		if isPermanent(err) {
			p.logger.WarnContext(ctx, "permanent gemini error, not retrying",
				"operation", operation,
				"error", err)
			return err
		}

		if attempt >= p.maxRetries {
			p.logger.ErrorContext(ctx, "gemini call failed after maximum retries",
				"operation", operation,
				"attempts", attempt+1,
				"error", err)
			return fmt.Errorf("%w: %s failed after %d attempts: %v",
				generation.ErrTransientFailure, operation, attempt+1, err)
		}

		delay := p.backoff(attempt)
		p.logger.WarnContext(ctx, "gemini call failed, retrying",
			"operation", operation,
			"attempt", attempt+1,
			"delay_ms", delay.Milliseconds(),
			"error", err)

		if err := p.sleep(ctx, delay); err != nil {
			return fmt.Errorf("%w: %s cancelled during backoff: %w", generation.ErrTransientFailure, operation, err)
		}
	}
}
