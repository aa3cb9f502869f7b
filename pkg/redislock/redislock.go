package redislock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonBooking/pkg/keylock"
)

const (
	defaultTTL           = 10 * time.Second
	defaultRetryInterval = 25 * time.Millisecond
	defaultPrefix        = "salon:lock"
)

// ErrLockFailed возвращается, когда блокировку не удалось взять из-за ошибки Redis
var ErrLockFailed = errors.New("redislock: failed to acquire lock")

// Удаляем ключ, только если он всё ещё принадлежит нам
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Config настройки распределённой блокировки
type Config struct {
	TTL           time.Duration
	RetryInterval time.Duration
	Prefix        string
}

// Locker распределённая блокировка по ключу на основе SET NX PX
// Используется, когда несколько инстансов сервиса принимают бронирования одновременно
type Locker struct {
	rdb           redis.Cmdable
	ttl           time.Duration
	retryInterval time.Duration
	prefix        string
}

// New создает Locker
func New(rdb redis.Cmdable, cfg Config) *Locker {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultRetryInterval
	}
	cfg.Prefix = strings.TrimSpace(cfg.Prefix)
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	return &Locker{
		rdb:           rdb,
		ttl:           cfg.TTL,
		retryInterval: cfg.RetryInterval,
		prefix:        cfg.Prefix,
	}
}

// Lock захватывает все ключи в отсортированном порядке
// Ожидание ограничено контекстом вызова
func (l *Locker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = keylock.Normalize(keys)
	token := uuid.NewString()
	acquired := make([]string, 0, len(keys))

	release := func() {
		// Освобождаем даже если исходный контекст уже отменён
		releaseCtx, cancel := context.WithTimeout(context.Background(), l.ttl)
		defer cancel()
		for i := len(acquired) - 1; i >= 0; i-- {
			_ = releaseScript.Run(releaseCtx, l.rdb, []string{acquired[i]}, token).Err()
		}
	}

	for _, key := range keys {
		redisKey := l.redisKey(key)
		if err := l.acquire(ctx, redisKey, token); err != nil {
			release()
			return nil, err
		}
		acquired = append(acquired, redisKey)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		release()
	}, nil
}

func (l *Locker) acquire(ctx context.Context, key, token string) error {
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("%w: key=%s: %v", ErrLockFailed, key, err)
		}
		if ok {
			return nil
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Locker) redisKey(key string) string {
	return l.prefix + ":" + key
}
