package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateCounter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	counter := NewMemoryRateCounter()
	counter.now = func() time.Time { return now }

	count, reset, err := counter.Hit(ctx, "ip:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, time.Minute, reset)

	now = now.Add(20 * time.Second)
	count, reset, _ = counter.Hit(ctx, "ip:10.0.0.1", time.Minute)
	assert.EqualValues(t, 2, count)
	assert.Equal(t, 40*time.Second, reset)

	count, _, _ = counter.Hit(ctx, "ip:10.0.0.2", time.Minute)
	assert.EqualValues(t, 1, count)

	now = now.Add(time.Minute)
	count, reset, _ = counter.Hit(ctx, "ip:10.0.0.1", time.Minute)
	assert.EqualValues(t, 1, count, "a new window starts from zero")
	assert.Equal(t, time.Minute, reset)
	assert.Equal(t, 1, counter.Len(), "expired windows are swept")
}
