package engine

import (
	"fmt"

	"github.com/dougsko/musicsyncd/pkg/config"
	"github.com/dougsko/musicsyncd/pkg/hue"
	"github.com/dougsko/musicsyncd/pkg/lights"
	"github.com/dougsko/musicsyncd/pkg/pipeline"
	"github.com/dougsko/musicsyncd/pkg/storage"
	"github.com/dougsko/musicsyncd/pkg/wled"
)

// pollFrequencyHz is the nominal datagram rate for every light sink. It is
// well inside the sub-100ms end-to-end latency budget the spec sets for
// onset-to-light dispatch while staying far below the hop rate, since a
// sink only needs to be as fast as human colour perception, not as fast
// as the audio analysis itself.
const pollFrequencyHz = 30.0

// credentialStore lazily opens the bridge credential database on first use.
func (e *Engine) credentialStore() (*storage.BridgeCredentialStore, error) {
	if e.credentials != nil {
		return e.credentials, nil
	}
	store, err := storage.NewBridgeCredentialStore(e.cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}
	e.credentials = store
	return store, nil
}

func (e *Engine) buildHueSink(h config.HueConfig) (*sinkHandle, error) {
	store, err := e.credentialStore()
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	cred, found, err := store.Get(h.IP)
	if err != nil {
		return nil, fmt.Errorf("look up credential: %w", err)
	}
	if !found {
		cred, err = hue.AuthenticateAndStore(h.IP, store)
		if err != nil {
			return nil, fmt.Errorf("push-link authentication: %w", err)
		}
	}

	conn, err := hue.Dial(cred)
	if err != nil {
		return nil, fmt.Errorf("dial entertainment stream: %w", err)
	}

	channels := make([]byte, h.Channels)
	for i := range channels {
		channels[i] = byte(i)
	}

	sink := lights.NewHueSink(h.Area, channels, h.ColorEnvelope)
	handle := &sinkHandle{name: h.IP, kind: "hue", sink: sink}
	handle.helper = lights.NewPollingHelper(h.IP, conn, sink, pollFrequencyHz, handle.recordTick)
	return handle, nil
}

func (e *Engine) buildWLEDSink(w config.WLEDConfig, settings pipeline.Settings) (*sinkHandle, error) {
	ledCount, err := wled.LEDCount(w.IP)
	if err != nil {
		return nil, err
	}

	conn, err := wled.Dial(w.IP)
	if err != nil {
		return nil, err
	}

	var sink lights.Sink
	switch w.Effect {
	case "spectrum":
		sink = lights.NewSpectrumLEDSink(ledCount, float64(settings.SampleRate), w.LEDsPerSecond, w.Centered, byte(w.TimeoutSec))
	default:
		sink = lights.NewOnsetLEDSink(ledCount, w.RGBW, byte(w.TimeoutSec))
	}

	pollable, ok := sink.(lights.Pollable)
	if !ok {
		return nil, fmt.Errorf("wled sink %q does not implement Pollable", w.Effect)
	}

	handle := &sinkHandle{name: w.IP, kind: "wled-" + w.Effect, sink: sink}
	handle.helper = lights.NewPollingHelper(w.IP, conn, pollable, pollFrequencyHz, handle.recordTick)
	return handle, nil
}
