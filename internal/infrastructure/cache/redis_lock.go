package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/roundbuy/backend-sub000/internal/domain"
)

// Both scripts act only while the key still holds our token, so a holder
// whose TTL ran out cannot touch the next holder's lock.
var (
	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)
	refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)
)

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (domain.Lease, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &redisLease{client: l.client, key: key, token: token}, true, nil
}

type redisLease struct {
	client *redis.Client
	key    string
	token  string
}

func (r *redisLease) Refresh(ctx context.Context, ttl time.Duration) error {
	n, err := refreshScript.Run(ctx, r.client, []string{r.key}, r.token, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis refresh %s: %w", r.key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrLockLost, r.key)
	}
	return nil
}

func (r *redisLease) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, r.client, []string{r.key}, r.token).Err()
}

// LocalLocker is the single-process stand-in used with the memory driver
// and in tests.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]*localLease
	now  func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: map[string]*localLease{}, now: time.Now}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (domain.Lease, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if cur, ok := l.held[key]; ok && now.Before(cur.until) {
		return nil, false, nil
	}
	lease := &localLease{locker: l, key: key, until: now.Add(ttl)}
	l.held[key] = lease
	return lease, true, nil
}

type localLease struct {
	locker *LocalLocker
	key    string
	until  time.Time
}

func (ll *localLease) Refresh(_ context.Context, ttl time.Duration) error {
	l := ll.locker
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if l.held[ll.key] != ll || !now.Before(ll.until) {
		return fmt.Errorf("%w: %s", domain.ErrLockLost, ll.key)
	}
	ll.until = now.Add(ttl)
	return nil
}

func (ll *localLease) Release(context.Context) error {
	l := ll.locker
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[ll.key] == ll {
		delete(l.held, ll.key)
	}
	return nil
}
