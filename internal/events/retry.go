package events

import (
	"context"
	"log/slog"

	"github.com/inonjs/ignite/internal/retry"
)

// RetryingPublisher republishes events that fail with a retryable error.
type RetryingPublisher struct {
	next   Publisher
	policy retry.Policy
	logger *slog.Logger
}

// WithRetry wraps next so that each Publish follows policy.
func WithRetry(next Publisher, policy retry.Policy, logger *slog.Logger) *RetryingPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryingPublisher{next: next, policy: policy, logger: logger}
}

// Publish implements Publisher.
func (p *RetryingPublisher) Publish(ctx context.Context, e Event) error {
	attempt := 0
	return p.policy.Do(ctx, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			p.logger.Debug("Retrying event publish", "attempt", attempt, "event_id", e.ID)
		}
		return p.next.Publish(ctx, e)
	})
}

// Close closes the wrapped publisher.
func (p *RetryingPublisher) Close() error { return p.next.Close() }
