package listing

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for retry operations.
var (
	listingRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	listingRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "listing_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"error_class"})

	listingRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// maxBackoff caps exponential backoff growth.
const maxBackoff = 30 * time.Second

// backoffMultiplier is the exponential backoff factor between attempts.
const backoffMultiplier = 2.0

// withRetry executes fn with exponential backoff retry logic. fn reports the
// error class of its failure so retriability can be decided per attempt.
// Respects context cancellation and adds jitter to prevent thundering herd.
func (c *Client) withRetry(ctx context.Context, fn func() (ErrorClass, error)) error {
	maxAttempts := c.config.MaxRetries
	backoff := c.config.InitialBackoff

	var lastErr error
	var lastClass ErrorClass

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		class, err := fn()
		if err == nil {
			if attempt > 1 {
				c.logger.Info().
					Str("error_class", string(lastClass)).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return nil
		}

		lastErr = err
		lastClass = class

		if !shouldRetry(class) {
			return lastErr
		}

		if attempt >= maxAttempts {
			break
		}

		listingRetriesTotal.WithLabelValues(string(class)).Inc()

		// Add jitter (±20% randomness)
		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		listingRetryBackoffSeconds.WithLabelValues(string(class)).Observe(jitter.Seconds())

		c.logger.Debug().
			Str("error_class", string(class)).
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Msg("Retrying request after backoff")

		select {
		case <-ctx.Done():
			c.logger.Warn().
				Str("error_class", string(class)).
				Int("attempt", attempt).
				Msg("Context cancelled during retry backoff")
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(jitter):
			// Continue to next attempt
		}

		backoff = time.Duration(float64(backoff) * backoffMultiplier)
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	listingRetryExhaustedTotal.WithLabelValues(string(lastClass)).Inc()
	c.logger.Warn().
		Str("error_class", string(lastClass)).
		Int("max_attempts", maxAttempts).
		Msg("Retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, maxAttempts, lastErr)
}
