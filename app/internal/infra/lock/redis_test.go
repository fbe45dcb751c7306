package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client), mr
}

func TestTryLock_AcquireAndContend(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	release, ok, err := locker.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, mr.Exists("sweep"))
	require.Equal(t, time.Minute, mr.TTL("sweep"))

	_, ok, err = locker.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, release(ctx))
	require.False(t, mr.Exists("sweep"))

	_, ok, err = locker.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTryLock_ExpiredHolderCannotReleaseNewOwner(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	staleRelease, ok, err := locker.TryLock(ctx, "sweep", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = locker.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	owner, err := mr.Get("sweep")
	require.NoError(t, err)

	require.NoError(t, staleRelease(ctx))

	got, err := mr.Get("sweep")
	require.NoError(t, err)
	require.Equal(t, owner, got)
}

func TestTryLock_ConnectionError(t *testing.T) {
	locker, mr := newTestLocker(t)
	mr.Close()

	release, ok, err := locker.TryLock(context.Background(), "sweep", time.Minute)

	require.Error(t, err)
	require.False(t, ok)
	require.NoError(t, release(context.Background()))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient("redis://"+mr.Addr()+"/0", "", "")
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()).Err())

	client, err = NewRedisClient("", mr.Addr(), "")
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()).Err())

	_, err = NewRedisClient("http://not-redis", "", "")
	require.Error(t, err)
}
