package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still carries our token, so
// a lock that expired and was taken by another replica is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a best-effort mutual exclusion across replicas built on
// SET NX with expiry.
type RedisLocker struct {
	client redis.UniversalClient
}

func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: client}
}

// TryLock takes key for ttl. ok is false when another holder has it. The
// returned release func is a no-op when ok is false.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error) {
	token := uuid.NewString()
	ok, err = l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return func(context.Context) error { return nil }, false, err
	}
	return func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}, true, nil
}

// NewRedisClient builds a client from REDIS_URL when set, else from addr.
func NewRedisClient(url, addr, password string) (*redis.Client, error) {
	if url != "" {
		opt, err := redis.ParseURL(url)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	}), nil
}
