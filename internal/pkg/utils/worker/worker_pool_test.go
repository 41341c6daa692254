package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	pool := NewWorkerPool(4, 8)
	var count int64

	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&count, 1)
		})
	}
	pool.Close()

	assert.Equal(t, int64(100), atomic.LoadInt64(&count))
}

func TestWorkerPool_UsesAllWorkers(t *testing.T) {
	pool := NewWorkerPool(3, 0)
	var running int64
	var peak int64
	var mu sync.Mutex
	release := make(chan struct{})

	for i := 0; i < 3; i++ {
		pool.Submit(func() {
			n := atomic.AddInt64(&running, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			<-release
			atomic.AddInt64(&running, -1)
		})
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt64(&running) == 3 }, time.Second, 5*time.Millisecond)
	close(release)
	pool.Close()

	assert.Equal(t, int64(3), peak)
}

func TestWorkerPool_Defaults(t *testing.T) {
	pool := NewWorkerPool(0, -1)
	defer pool.Close()

	assert.Equal(t, 1, pool.Size())
}

func TestWorkerPool_StopIsIdempotentWithClose(t *testing.T) {
	pool := NewWorkerPool(2, 1)

	assert.NotPanics(t, func() {
		pool.Stop()
		pool.Close()
	})
}
