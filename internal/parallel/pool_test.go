package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	assert.Equal(t, 4, pool.Workers())
	assert.True(t, pool.IsRunning())
}

func TestWorkerPool_CreateDefaultsToGOMAXPROCS(t *testing.T) {
	for _, n := range []int{0, -3} {
		pool := NewWorkerPool(n)
		assert.Equal(t, runtime.GOMAXPROCS(0), pool.Workers())
		pool.Close()
	}
}

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}
	pool.ExecuteAll(work)

	assert.Equal(t, int64(100), counter.Load())
}

func TestWorkerPool_ExecuteAllAfterCloseRunsInline(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	ran := 0
	pool.ExecuteAll([]func(){func() { ran++ }, func() { ran++ }})
	assert.Equal(t, 2, ran)
	assert.False(t, pool.IsRunning())
}

func TestWorkerPool_RowsCoversEveryRowOnce(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	for _, height := range []int{1, 15, 16, 100, 257} {
		var mu sync.Mutex
		seen := make([]int, height)
		pool.Rows(height, func(y0, y1 int) {
			mu.Lock()
			defer mu.Unlock()
			for y := y0; y < y1; y++ {
				seen[y]++
			}
		})
		for y, n := range seen {
			require.Equal(t, 1, n, "height %d row %d", height, y)
		}
	}
}

func TestWorkerPool_RowsNilPoolRunsInline(t *testing.T) {
	var pool *WorkerPool
	var calls, rows int
	pool.Rows(40, func(y0, y1 int) {
		calls++
		rows += y1 - y0
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 40, rows)
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func BenchmarkRows(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()
	buf := make([]float32, 1024*1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Rows(1024, func(y0, y1 int) {
			for j := y0 * 1024; j < y1*1024; j++ {
				buf[j] += 1
			}
		})
	}
}
