package pipeline

// Assembler is C1: it turns an arbitrary stream of interleaved sample
// blocks, delivered whenever the capture device has them ready, into a
// steady sequence of fixed-size, overlapping analysis frames advanced by
// HopSize samples each. The capture callback must never block, so Push
// only ever appends and slices a growable queue — no allocation beyond
// occasional queue growth, no I/O, no locking.
type Assembler struct {
	channels     int
	frameSamples int // BufferSize * channels
	hopSamples   int // HopSize * channels

	queue []float32
}

// NewAssembler builds an Assembler for the given settings.
func NewAssembler(s Settings) *Assembler {
	return &Assembler{
		channels:     s.Channels,
		frameSamples: s.BufferSize * s.Channels,
		hopSamples:   s.HopSize * s.Channels,
		queue:        make([]float32, 0, s.BufferSize*s.Channels*2),
	}
}

// Push appends one block of interleaved samples and returns every
// complete, hop-aligned frame it can now extract, in arrival order. The
// returned slices alias the assembler's internal queue and are only valid
// until the next call to Push; callers that need to retain a frame past
// that point must copy it.
//
// Invariant: len(result[i]) == BufferSize*Channels for every returned frame.
func (a *Assembler) Push(block []float32) [][]float32 {
	a.queue = append(a.queue, block...)

	var frames [][]float32
	for len(a.queue) >= a.frameSamples {
		frames = append(frames, a.queue[:a.frameSamples:a.frameSamples])
		a.queue = a.queue[a.hopSamples:]
	}

	// Compact so the backing array doesn't grow without bound across the
	// lifetime of a long-running capture session.
	if cap(a.queue)-len(a.queue) > 4*a.frameSamples {
		compacted := make([]float32, len(a.queue), a.frameSamples*2)
		copy(compacted, a.queue)
		a.queue = compacted
	}

	return frames
}

// Pending reports how many interleaved samples are buffered but not yet
// part of a complete frame.
func (a *Assembler) Pending() int {
	return len(a.queue)
}

// Reset discards any buffered, incomplete frame. Used when the capture
// device restarts after an underrun or device-switch.
func (a *Assembler) Reset() {
	a.queue = a.queue[:0]
}
