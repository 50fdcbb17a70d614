package lights

import (
	"io"
	"time"

	"github.com/dougsko/musicsyncd/pkg/logging"
)

// Pollable produces one outbound datagram from a snapshot of sink state,
// serialised under the sink's own lock.
type Pollable interface {
	Poll() []byte
}

// PollingHelper is C9: a background goroutine that, at a fixed rate,
// snapshots a sink's state and writes it to a network stream. It is the
// only place in a sink that performs I/O, keeping the audio thread
// suspension-free.
type PollingHelper struct {
	stream   io.WriteCloser
	state    Pollable
	done     chan struct{}
	finished chan struct{}
	name     string

	// onTick, if set, is called after every write attempt (err is nil on
	// success) so a caller can surface datagram counts / last-error state
	// through its own status reporting without the helper knowing about it.
	onTick func(err error)
}

// NewPollingHelper starts a goroutine immediately, ticking at `frequency`
// Hz, writing state.Poll() to stream on every tick until Close is called.
// onTick, if non-nil, is called after every write attempt (nil error on
// success) so a caller can surface datagram counts / last-error state
// through its own status reporting without the helper knowing about it.
func NewPollingHelper(name string, stream io.WriteCloser, state Pollable, frequency float64, onTick func(err error)) *PollingHelper {
	h := &PollingHelper{
		stream:   stream,
		state:    state,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		name:     name,
		onTick:   onTick,
	}
	go h.run(frequency)
	return h
}

func (h *PollingHelper) run(frequency float64) {
	defer close(h.finished)

	if frequency <= 0 {
		frequency = 1
	}
	interval := time.Duration(float64(time.Second) / frequency)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			h.stream.Close()
			return
		case <-ticker.C:
			datagram := h.state.Poll()
			_, err := h.stream.Write(datagram)
			if err != nil {
				logging.Warnf("lights", "%s: poll write failed: %v", h.name, err)
			}
			if h.onTick != nil {
				h.onTick(err)
			}
		}
	}
}

// Close signals the polling goroutine to stop and blocks until it has
// actually exited, guaranteeing no further datagram is written once
// Close returns.
func (h *PollingHelper) Close() error {
	close(h.done)
	<-h.finished
	return nil
}
