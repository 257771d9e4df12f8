package lock

//go:generate go run go.uber.org/mock/mockgen -source=./lock.go -destination=./mocks/lock_mock.go -package=mocks

import (
	"barber/infras/otel"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName        = "lock"
	otelLockKeyAttribute = "lock.key"
	keyPrefix            = "lock:"
)

// ErrLocked is returned by Acquire when another holder owns the key.
var ErrLocked = errors.New("lock is held by another request")

// Release gives the lock back. It is safe to call after the ttl has expired.
type Release func(ctx context.Context) error

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// releaseScript deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *redis.Client
	otel   otel.Otel
}

// New returns a redis backed locker shared by every instance, or a
// process-local one when redis is not configured.
func New(client *redis.Client, ot otel.Otel) Locker {
	if client == nil {
		log.Info().Msg("Redis disabled, slot locks are process-local")

		return NewMemory(time.Now)
	}

	return &redisLocker{
		client: client,
		otel:   ot,
	}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (release Release, err error) {
	ctx, scope := l.otel.NewScope(ctx, otelScopeName, otelScopeName+".Acquire")
	defer scope.End()

	scope.SetAttribute(otelLockKeyAttribute, key)

	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to acquire lock")

		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !ok {
		return nil, ErrLocked
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{keyPrefix + key}, token).Err(); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to release lock")

			return fmt.Errorf("failed to release lock: %w", err)
		}

		return nil
	}, nil
}

type entry struct {
	token     string
	expiresAt time.Time
}

type memoryLocker struct {
	mu   sync.Mutex
	held map[string]entry
	now  func() time.Time
}

// NewMemory returns a locker that only coordinates goroutines of this process.
func NewMemory(now func() time.Time) Locker {
	return &memoryLocker{
		held: make(map[string]entry),
		now:  now,
	}
}

func (l *memoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if current, ok := l.held[key]; ok && now.Before(current.expiresAt) {
		return nil, ErrLocked
	}

	token := uuid.NewString()
	l.held[key] = entry{token: token, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()

		if current, ok := l.held[key]; ok && current.token == token {
			delete(l.held, key)
		}

		return nil
	}, nil
}
