package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inonjs/ignite/internal/foundation/errors"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, ModeExponential, p.Mode)
	assert.Equal(t, 200*time.Millisecond, p.Initial)
	assert.Equal(t, 5*time.Second, p.Max)
	assert.Equal(t, 3, p.MaxRetries)
	require.NoError(t, p.Validate())
}

// initial > max is clamped.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(ModeFixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial)
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, ModeFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)
}

func TestNewPolicy_UnknownModeKeepsDefault(t *testing.T) {
	p := NewPolicy(Mode("random"), 0, 0, 0)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestDelayModes(t *testing.T) {
	fixed := NewPolicy(ModeFixed, 100*time.Millisecond, 500*time.Millisecond, 3)
	for i := 1; i <= 3; i++ {
		assert.Equal(t, 100*time.Millisecond, fixed.Delay(i), "attempt %d", i)
	}

	linear := NewPolicy(ModeLinear, 100*time.Millisecond, 250*time.Millisecond, 5)
	assert.Equal(t, 100*time.Millisecond, linear.Delay(1))
	assert.Equal(t, 200*time.Millisecond, linear.Delay(2))
	assert.Equal(t, 250*time.Millisecond, linear.Delay(3))
	assert.Equal(t, 250*time.Millisecond, linear.Delay(4))

	exp := NewPolicy(ModeExponential, 50*time.Millisecond, 300*time.Millisecond, 5)
	assert.Equal(t, 50*time.Millisecond, exp.Delay(1))
	assert.Equal(t, 100*time.Millisecond, exp.Delay(2))
	assert.Equal(t, 200*time.Millisecond, exp.Delay(3))
	assert.Equal(t, 300*time.Millisecond, exp.Delay(4))

	assert.Zero(t, exp.Delay(0))
}

func TestValidate(t *testing.T) {
	assert.Error(t, Policy{Initial: 0, Max: time.Second}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: 0}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
}

func fastPolicy(retries int) Policy {
	return Policy{Mode: ModeFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: retries}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := fastPolicy(3).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.EventsError("unavailable").Build()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsAfterBudget(t *testing.T) {
	calls := 0
	boom := stderrors.New("boom")
	err := fastPolicy(2).Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDo_DoesNotRetryPermanentErrors(t *testing.T) {
	calls := 0
	err := fastPolicy(5).Do(context.Background(), func(context.Context) error {
		calls++
		return errors.ConfigError("bad subject").Build()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{Mode: ModeFixed, Initial: time.Hour, Max: time.Hour, MaxRetries: 3}
	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return stderrors.New("transient")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
