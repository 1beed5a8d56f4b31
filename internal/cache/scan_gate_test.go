package cache_test

import (
	"context"
	"testing"
	"time"

	"go-gin-ticket-scanner/internal/cache"
	"go-gin-ticket-scanner/internal/clock"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryScanGate_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - SuppressedWithinWindow", func(t *testing.T) {
		clk := clock.NewManual(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC))
		gate := cache.NewMemoryScanGate(3*time.Second, clk)

		ok, err := gate.Acquire(ctx, "door-1")
		require.NoError(t, err)
		assert.True(t, ok)

		clk.Advance(2 * time.Second)
		ok, err = gate.Acquire(ctx, "door-1")
		require.NoError(t, err)
		assert.False(t, ok)

		clk.Advance(time.Second)
		ok, err = gate.Acquire(ctx, "door-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Success - DevicesIndependent", func(t *testing.T) {
		clk := clock.NewManual(time.Now())
		gate := cache.NewMemoryScanGate(3*time.Second, clk)

		ok, _ := gate.Acquire(ctx, "door-1")
		assert.True(t, ok)
		ok, _ = gate.Acquire(ctx, "door-2")
		assert.True(t, ok)
		ok, _ = gate.Acquire(ctx, "door-1")
		assert.False(t, ok)
	})

	t.Run("Success - ZeroWindowDisablesGate", func(t *testing.T) {
		gate := cache.NewMemoryScanGate(0, nil)
		for i := 0; i < 3; i++ {
			ok, err := gate.Acquire(ctx, "door-1")
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("Failed - CancelledContext", func(t *testing.T) {
		gate := cache.NewMemoryScanGate(time.Second, nil)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		ok, err := gate.Acquire(cctx, "door-1")
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, ok)
	})
}

func TestRedisScanGate_Acquire(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	gate := cache.NewRedisScanGate(client, 3*time.Second)
	assert.Equal(t, 3*time.Second, gate.Window())

	ok, err := gate.Acquire(ctx, "door-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("scan:gate:door-1"))

	ok, err = gate.Acquire(ctx, "door-1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = gate.Acquire(ctx, "door-2")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(3 * time.Second)
	ok, err = gate.Acquire(ctx, "door-1")
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("Failed - RedisDown", func(t *testing.T) {
		mr.Close()
		_, err := gate.Acquire(ctx, "door-3")
		assert.Error(t, err)
	})
}
