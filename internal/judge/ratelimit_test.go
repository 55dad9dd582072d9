package judge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterSpacesCalls(t *testing.T) {
	const interval = 20 * time.Millisecond
	const calls = 4

	l := NewLimiter(interval)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < calls; i++ {
		require.NoError(t, l.Wait(ctx))
	}
	elapsed := time.Since(start)

	// N calls through the limiter take at least (N-1) intervals.
	assert.GreaterOrEqual(t, elapsed, (calls-1)*interval)
}

func TestLimiterFirstCallIsImmediate(t *testing.T) {
	l := NewLimiter(time.Second)

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestLimiterHonorsCancellation(t *testing.T) {
	l := NewLimiter(time.Minute)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
