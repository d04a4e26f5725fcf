package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_ExclusionMutua(t *testing.T) {
	l := NewLocalLocker(time.Second)
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), []string{"stock:s1:product:b", "stock:s1:product:a"})
			require.NoError(t, err)
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestLocalLocker_TimeoutDevuelveOperationFailed(t *testing.T) {
	l := NewLocalLocker(20 * time.Millisecond)
	release, err := l.Acquire(context.Background(), []string{"k1"})
	require.NoError(t, err)
	defer release()

	_, err = l.Acquire(context.Background(), []string{"k0", "k1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOperationFailed)

	// k0 quedó liberada tras el fallo
	r2, err := l.Acquire(context.Background(), []string{"k0"})
	require.NoError(t, err)
	r2()
}

func TestLocalLocker_ClavesIndependientes(t *testing.T) {
	l := NewLocalLocker(20 * time.Millisecond)
	r1, err := l.Acquire(context.Background(), []string{"stock:s1:product:a"})
	require.NoError(t, err)
	defer r1()

	r2, err := l.Acquire(context.Background(), []string{"stock:s2:product:a"})
	require.NoError(t, err)
	r2()
}
