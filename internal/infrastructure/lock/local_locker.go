package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain"
)

// LocalLocker bloqueo en proceso por clave. Válido con una sola instancia de la API.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

// NewLocalLocker crea un locker en memoria con la espera máxima indicada.
func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{slots: map[string]chan struct{}{}, wait: wait}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

// Acquire toma las claves en orden ascendente; mismo contrato que RedisLocker.
func (l *LocalLocker) Acquire(ctx context.Context, keys []string) (func(), error) {
	keys = sortedUnique(keys)
	held := make([]chan struct{}, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	timer := time.NewTimer(l.wait)
	defer timer.Stop()
	for _, key := range keys {
		ch := l.slot(key)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-timer.C:
			release()
			return nil, domain.OperationFailed(fmt.Errorf("bloqueo %s no obtenido en %s", key, l.wait))
		case <-ctx.Done():
			release()
			return nil, domain.OperationFailed(fmt.Errorf("bloqueo %s: %w", key, ctx.Err()))
		}
	}
	return release, nil
}
