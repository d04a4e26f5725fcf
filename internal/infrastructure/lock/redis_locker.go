// Package lock implementa ports.Locker: bloqueo exclusivo por (tienda, destino de stock).
package lock

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/bsm/redislock"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const retryInterval = 25 * time.Millisecond

// RedisLocker bloqueo distribuido sobre Redis, para varias instancias de la API.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	log    *logger.Logger
}

// NewRedisLocker crea el locker a partir de un cliente go-redis ya conectado.
func NewRedisLocker(rdb redis.UniversalClient, ttl, wait time.Duration, log *logger.Logger) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl, wait: wait, log: log}
}

// Acquire obtiene todas las claves en orden ascendente. Si alguna no se obtiene dentro de
// la espera configurada se liberan las ya tomadas y se devuelve OperationFailed.
func (l *RedisLocker) Acquire(ctx context.Context, keys []string) (func(), error) {
	keys = sortedUnique(keys)
	held := make([]*redislock.Lock, 0, len(keys))
	release := func() {
		// el ctx de la petición puede estar cancelado; liberar igual
		rctx, cancel := context.WithTimeout(context.Background(), l.wait)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			if err := held[i].Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				l.log.Warn().Err(err).Str("key", held[i].Key()).Msg("no se pudo liberar el bloqueo")
			}
		}
	}

	wctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()
	opts := &redislock.Options{RetryStrategy: redislock.LinearBackoff(retryInterval)}
	for _, key := range keys {
		lk, err := l.client.Obtain(wctx, key, l.ttl, opts)
		if err != nil {
			release()
			if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
				return nil, domain.OperationFailed(fmt.Errorf("bloqueo %s no obtenido: %w", key, err))
			}
			return nil, domain.OperationFailed(fmt.Errorf("obtener bloqueo %s: %w", key, err))
		}
		held = append(held, lk)
	}
	return release, nil
}

func sortedUnique(keys []string) []string {
	out := slices.Clone(keys)
	slices.Sort(out)
	return slices.Compact(out)
}
