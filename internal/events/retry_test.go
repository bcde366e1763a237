package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/retry"
)

type flakyPublisher struct {
	failures int
	calls    int
	closed   bool
}

func (f *flakyPublisher) Publish(context.Context, Event) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.EventsError("stream unavailable").Build()
	}
	return nil
}

func (f *flakyPublisher) Close() error {
	f.closed = true
	return nil
}

func TestRetryingPublisher(t *testing.T) {
	policy := retry.Policy{Mode: retry.ModeFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: 2}

	t.Run("recovers", func(t *testing.T) {
		next := &flakyPublisher{failures: 2}
		pub := WithRetry(next, policy, nil)
		require.NoError(t, pub.Publish(context.Background(), New(BuildCompleted, "b-1")))
		assert.Equal(t, 3, next.calls)
	})

	t.Run("gives up", func(t *testing.T) {
		next := &flakyPublisher{failures: 5}
		pub := WithRetry(next, policy, nil)
		err := pub.Publish(context.Background(), New(BuildFailed, "b-2"))
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryEvents))
		assert.Equal(t, 3, next.calls)
	})

	t.Run("close", func(t *testing.T) {
		next := &flakyPublisher{}
		require.NoError(t, WithRetry(next, policy, nil).Close())
		assert.True(t, next.closed)
	})
}
