package receipts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// implements LockStore in process memory
type MemoryLockStore struct {
	mu    sync.Mutex
	locks map[string]memoryLock
}

type memoryLock struct {
	token     string
	expiresAt time.Time
}

// creates a new in-memory lock store
func NewMemoryLockStore() *MemoryLockStore {
	return &MemoryLockStore{locks: make(map[string]memoryLock)}
}

func (s *MemoryLockStore) Acquire(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	if lock, exists := s.locks[key]; exists && now.Before(lock.expiresAt) {
		return "", false, nil
	}

	token := uuid.NewString()
	s.locks[key] = memoryLock{token: token, expiresAt: now.Add(ttl)}

	return token, true, nil
}

func (s *MemoryLockStore) Release(_ context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lock, exists := s.locks[key]; exists && lock.token == token {
		delete(s.locks, key)
	}

	return nil
}

// deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// implements LockStore using Redis
type RedisLockStore struct {
	client *redis.Client
}

// creates a new Redis-backed lock store
func NewRedisLockStore(client *redis.Client) *RedisLockStore {
	return &RedisLockStore{client: client}
}

func (s *RedisLockStore) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to set lock %s: %w", key, err)
	}

	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

func (s *RedisLockStore) Release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, s.client, []string{key}, token).Err()
}
