package hardware

import (
	"sync"
	"testing"
	"time"
)

func TestFrameBufferPool(t *testing.T) {
	pool := NewFrameBufferPool(8192, true)

	t.Run("Basic Buffer Operations", func(t *testing.T) {
		buffer := pool.Get(1024)
		if buffer == nil {
			t.Fatal("expected non-nil buffer")
		}
		if len(buffer.Data) != 1024 {
			t.Errorf("expected buffer size 1024, got %d", len(buffer.Data))
		}
		if cap(buffer.Data) < 1024 {
			t.Errorf("expected buffer capacity >= 1024, got %d", cap(buffer.Data))
		}

		pool.Put(buffer)

		buffer2 := pool.Get(1024)
		if buffer2 == nil {
			t.Fatal("expected non-nil buffer")
		}
		if len(buffer2.Data) != 1024 {
			t.Errorf("expected recycled buffer size 1024, got %d", len(buffer2.Data))
		}
	})

	t.Run("Different Buffer Sizes", func(t *testing.T) {
		small := pool.Get(512)
		if len(small.Data) != 512 {
			t.Errorf("expected small buffer size 512, got %d", len(small.Data))
		}
		medium := pool.Get(2048)
		if len(medium.Data) != 2048 {
			t.Errorf("expected medium buffer size 2048, got %d", len(medium.Data))
		}
		large := pool.Get(8192)
		if len(large.Data) != 8192 {
			t.Errorf("expected large buffer size 8192, got %d", len(large.Data))
		}

		pool.Put(small)
		pool.Put(medium)
		pool.Put(large)
	})

	t.Run("Buffer Reset", func(t *testing.T) {
		buffer := pool.Get(100)
		for i := range buffer.Data {
			buffer.Data[i] = float32(i + 1000)
		}

		buffer.Reset()
		for i := range buffer.Data {
			if buffer.Data[i] != 0 {
				t.Errorf("expected buffer[%d] to be 0 after reset, got %v", i, buffer.Data[i])
			}
		}

		pool.Put(buffer)
	})

	t.Run("Oversized Buffer", func(t *testing.T) {
		oversized := pool.Get(20000)
		if oversized == nil {
			t.Fatal("expected non-nil buffer even for oversized request")
		}
		if len(oversized.Data) != 20000 {
			t.Errorf("expected oversized buffer size 20000, got %d", len(oversized.Data))
		}
		pool.Put(oversized)
	})

	t.Run("Invalid Size", func(t *testing.T) {
		buffer := pool.Get(0)
		if buffer == nil {
			t.Fatal("expected non-nil buffer even for zero size")
		}
		buffer2 := pool.Get(-100)
		if buffer2 == nil {
			t.Fatal("expected non-nil buffer even for negative size")
		}
	})
}

func TestGlobalFramePool(t *testing.T) {
	t.Run("Singleton Behavior", func(t *testing.T) {
		pool1 := GetGlobalFramePool()
		pool2 := GetGlobalFramePool()
		if pool1 != pool2 {
			t.Error("expected same pool instance from GetGlobalFramePool()")
		}
	})

	t.Run("Convenience Functions", func(t *testing.T) {
		buffer := GetFrameBuffer(1024)
		if buffer == nil {
			t.Fatal("expected non-nil buffer from GetFrameBuffer")
		}
		if len(buffer.Data) != 1024 {
			t.Errorf("expected buffer size 1024, got %d", len(buffer.Data))
		}
		buffer.Release()
	})
}

func TestFrameBufferPoolConcurrency(t *testing.T) {
	pool := NewFrameBufferPool(8192, true)

	t.Run("Concurrent Access", func(t *testing.T) {
		const numWorkers = 50
		const buffersPerWorker = 100

		var wg sync.WaitGroup
		wg.Add(numWorkers)

		for i := 0; i < numWorkers; i++ {
			go func(workerID int) {
				defer wg.Done()

				for j := 0; j < buffersPerWorker; j++ {
					size := 500 + (workerID * 10) + j
					if size > 8000 {
						size = 1000
					}

					buffer := pool.Get(size)
					if buffer == nil {
						t.Errorf("worker %d: got nil buffer for size %d", workerID, size)
						continue
					}
					if len(buffer.Data) != size {
						t.Errorf("worker %d: expected size %d, got %d", workerID, size, len(buffer.Data))
					}

					for k := range buffer.Data {
						buffer.Data[k] = float32(workerID*1000 + j*10 + k)
					}

					time.Sleep(time.Microsecond)
					pool.Put(buffer)
				}
			}(i)
		}

		wg.Wait()
	})
}

func TestFrameBufferPoolStatistics(t *testing.T) {
	pool := NewFrameBufferPool(8192, true)

	t.Run("Statistics Tracking", func(t *testing.T) {
		buffers := make([]*FrameBuffer, 10)
		for i := 0; i < 10; i++ {
			buffers[i] = pool.Get(256)
		}
		for _, buffer := range buffers {
			pool.Put(buffer)
		}

		for i := 0; i < 5; i++ {
			buffer := pool.Get(256)
			pool.Put(buffer)
		}

		stats := pool.GetStatistics()
		if stats["small_hits"] < 5 {
			t.Errorf("expected at least 5 small hits, got %d", stats["small_hits"])
		}
		if stats["small_miss"] < 10 {
			t.Errorf("expected at least 10 small misses, got %d", stats["small_miss"])
		}
	})
}

func BenchmarkFrameBufferPool(b *testing.B) {
	pool := NewFrameBufferPool(8192, false)

	b.Run("Get1024", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			buffer := pool.Get(1024)
			pool.Put(buffer)
		}
	})

	b.Run("Traditional1024", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			buffer := make([]float32, 1024)
			_ = buffer
		}
	})

	b.Run("GetMixed", func(b *testing.B) {
		sizes := []int{512, 1024, 2048, 4096}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			size := sizes[i%len(sizes)]
			buffer := pool.Get(size)
			pool.Put(buffer)
		}
	})
}
