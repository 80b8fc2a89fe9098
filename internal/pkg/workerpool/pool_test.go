package workerpool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubmit(t *testing.T) {
	pool, err := New(&Config{Workers: 4}, zap.NewNop())
	require.NoError(t, err)
	defer pool.Shutdown()

	var mu sync.Mutex
	count := 0
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			mu.Lock()
			count++
			mu.Unlock()
		}))
	}

	wg.Wait()
	assert.Equal(t, 20, count)

	stats := pool.Stats()
	assert.Equal(t, int64(20), stats.Submitted)
}

func TestSubmitWithTimeout(t *testing.T) {
	pool, err := New(nil, zap.NewNop())
	require.NoError(t, err)
	defer pool.Shutdown()

	done := make(chan struct{})
	require.NoError(t, pool.SubmitWithTimeout(10*time.Millisecond, func(ctx context.Context) {
		<-ctx.Done()
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task context was not cancelled")
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool, err := New(nil, zap.NewNop())
	require.NoError(t, err)

	pool.Shutdown()
	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolClosed)
}
