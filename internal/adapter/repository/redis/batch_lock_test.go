package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchLock_AcquireIsExclusive(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	first := NewBatchLock(client)
	second := NewBatchLock(client)
	ctx := context.Background()

	ok, err := first.Acquire(ctx, "deductions", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Acquire(ctx, "deductions", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be refused")

	require.NoError(t, first.Release(ctx, "deductions"))

	ok, err = second.Acquire(ctx, "deductions", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBatchLock_ExpiresAfterTTL(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	lock := NewBatchLock(client)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "deductions", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	ok, err = NewBatchLock(client).Acquire(ctx, "deductions", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBatchLock_ReleaseKeepsForeignLock(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	stale := NewBatchLock(client)
	current := NewBatchLock(client)
	ctx := context.Background()

	ok, err := stale.Acquire(ctx, "deductions", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	ok, err = current.Acquire(ctx, "deductions", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// The stale holder's release must not drop the current holder's lock.
	require.NoError(t, stale.Release(ctx, "deductions"))
	assert.True(t, mr.Exists("lock:deductions"))

	require.NoError(t, current.Release(ctx, "deductions"))
	assert.False(t, mr.Exists("lock:deductions"))
}

func TestBatchLock_ReleaseWithoutAcquire(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	assert.NoError(t, NewBatchLock(client).Release(context.Background(), "deductions"))
}
