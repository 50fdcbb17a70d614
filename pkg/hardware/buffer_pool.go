// Package hardware provides low-level, allocation-sensitive support code
// for the audio hot path: pooled scratch buffers that the capture callback
// copies each incoming block into, so that copy reuses memory instead of
// allocating on every callback.
package hardware

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// FrameBuffer is a reusable float32 scratch buffer with pool metadata.
type FrameBuffer struct {
	Data []float32
	Size int
	pool *FrameBufferPool
}

// Reset clears the buffer data and resets size for reuse.
func (fb *FrameBuffer) Reset() {
	for i := range fb.Data {
		fb.Data[i] = 0
	}
	fb.Size = 0
}

// Release returns the buffer to its pool for reuse.
func (fb *FrameBuffer) Release() {
	if fb.pool != nil {
		fb.pool.Put(fb)
	}
}

// FrameBufferPool manages pools of analysis-frame buffers for different size
// ranges. The tiers are sized around the capture callback's actual working
// set (interleaved hop-sized blocks of up to a handful of channels) rather
// than an arbitrary power-of-two ladder: a mono hop at the default
// hop_size (480) lands in "small", a stereo hop (960 interleaved samples)
// or a hop sized up to the default buffer_size lands in "medium", and
// "large" covers the high FFT-resolution/many-channel configurations the
// pipeline still validates.
type FrameBufferPool struct {
	smallPool  *sync.Pool // <= 512 samples: one mono hop
	mediumPool *sync.Pool // <= 2048 samples: one stereo hop, or one hop at buffer_size
	largePool  *sync.Pool // <= 8192 samples: large fft_size / many-channel configurations

	smallHits  int64
	mediumHits int64
	largeHits  int64
	smallMiss  int64
	mediumMiss int64
	largeMiss  int64

	maxBufferSize    int
	enableStatistics bool
}

// Global frame buffer pool instance
var globalFramePool *FrameBufferPool
var poolOnce sync.Once

// GetGlobalFramePool returns the singleton frame buffer pool.
func GetGlobalFramePool() *FrameBufferPool {
	poolOnce.Do(func() {
		globalFramePool = NewFrameBufferPool(8192, true)
		go globalFramePool.statisticsReporter()
	})
	return globalFramePool
}

// NewFrameBufferPool creates a new frame buffer pool with size-based sub-pools.
func NewFrameBufferPool(maxBufferSize int, enableStats bool) *FrameBufferPool {
	pool := &FrameBufferPool{
		maxBufferSize:    maxBufferSize,
		enableStatistics: enableStats,
	}

	pool.smallPool = &sync.Pool{
		New: func() interface{} {
			if enableStats {
				atomic.AddInt64(&pool.smallMiss, 1)
			}
			return &FrameBuffer{Data: make([]float32, 512), pool: pool}
		},
	}
	pool.mediumPool = &sync.Pool{
		New: func() interface{} {
			if enableStats {
				atomic.AddInt64(&pool.mediumMiss, 1)
			}
			return &FrameBuffer{Data: make([]float32, 2048), pool: pool}
		},
	}
	pool.largePool = &sync.Pool{
		New: func() interface{} {
			if enableStats {
				atomic.AddInt64(&pool.largeMiss, 1)
			}
			return &FrameBuffer{Data: make([]float32, 8192), pool: pool}
		},
	}

	return pool
}

// Get retrieves a buffer of at least the requested size from the appropriate pool.
func (p *FrameBufferPool) Get(size int) *FrameBuffer {
	if size <= 0 {
		log.Printf("FrameBufferPool: invalid buffer size requested: %d", size)
		return &FrameBuffer{Data: make([]float32, 512), Size: size, pool: p}
	}

	if size > p.maxBufferSize {
		log.Printf("FrameBufferPool: requested size %d exceeds max %d, allocating directly", size, p.maxBufferSize)
		return &FrameBuffer{Data: make([]float32, size), Size: size, pool: p}
	}

	var buffer *FrameBuffer
	switch {
	case size <= 512:
		buffer = p.smallPool.Get().(*FrameBuffer)
		if p.enableStatistics {
			atomic.AddInt64(&p.smallHits, 1)
		}
	case size <= 2048:
		buffer = p.mediumPool.Get().(*FrameBuffer)
		if p.enableStatistics {
			atomic.AddInt64(&p.mediumHits, 1)
		}
	default:
		buffer = p.largePool.Get().(*FrameBuffer)
		if p.enableStatistics {
			atomic.AddInt64(&p.largeHits, 1)
		}
	}

	if cap(buffer.Data) < size {
		buffer.Data = make([]float32, size)
	}
	buffer.Data = buffer.Data[:size]
	buffer.Size = size
	return buffer
}

// Put returns a buffer to the appropriate pool for reuse.
func (p *FrameBufferPool) Put(buffer *FrameBuffer) {
	if buffer == nil || buffer.Data == nil {
		return
	}
	buffer.Reset()

	switch capacity := cap(buffer.Data); {
	case capacity <= 512:
		p.smallPool.Put(buffer)
	case capacity <= 2048:
		p.mediumPool.Put(buffer)
	case capacity <= 8192:
		p.largePool.Put(buffer)
	default:
		// Oversized buffers are left for the garbage collector.
	}
}

// GetStatistics returns current pool utilization statistics.
func (p *FrameBufferPool) GetStatistics() map[string]int64 {
	if !p.enableStatistics {
		return map[string]int64{}
	}
	return map[string]int64{
		"small_hits":  atomic.LoadInt64(&p.smallHits),
		"medium_hits": atomic.LoadInt64(&p.mediumHits),
		"large_hits":  atomic.LoadInt64(&p.largeHits),
		"small_miss":  atomic.LoadInt64(&p.smallMiss),
		"medium_miss": atomic.LoadInt64(&p.mediumMiss),
		"large_miss":  atomic.LoadInt64(&p.largeMiss),
	}
}

func (p *FrameBufferPool) statisticsReporter() {
	if !p.enableStatistics {
		return
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		stats := p.GetStatistics()
		totalHits := stats["small_hits"] + stats["medium_hits"] + stats["large_hits"]
		totalMiss := stats["small_miss"] + stats["medium_miss"] + stats["large_miss"]
		totalRequests := totalHits + totalMiss

		if totalRequests > 0 {
			hitRate := float64(totalHits) / float64(totalRequests) * 100
			log.Printf("FrameBufferPool stats: %d requests, %.1f%% hit rate (S:%d/%d M:%d/%d L:%d/%d)",
				totalRequests, hitRate,
				stats["small_hits"], stats["small_miss"],
				stats["medium_hits"], stats["medium_miss"],
				stats["large_hits"], stats["large_miss"])
		}
	}
}

// GetFrameBuffer gets a buffer from the global pool.
func GetFrameBuffer(size int) *FrameBuffer {
	return GetGlobalFramePool().Get(size)
}
