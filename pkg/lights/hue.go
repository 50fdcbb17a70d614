package lights

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/dougsko/musicsyncd/pkg/onset"
)

const (
	hueStreamMagic = "HueStream"
	hueAreaIDLen   = 36
)

// HueSink is the Entertainment-protocol bridge sink (over an already
// established DTLS stream). The handshake itself (push-link, credential
// retrieval/storage, DTLS session setup) is a one-off startup concern
// owned by pkg/hue, not by this sink: HueSink only ever sees an open
// io.WriteCloser and a pre-shared key it never touches directly.
type HueSink struct {
	BaseSink

	mu sync.Mutex

	channels []byte // per-area light channel ids
	prefix   []byte // cached "HueStream" + version/reserved + area id

	colorEnvelope bool // render every channel from full's interpolated colour instead of the drum/hihat/note composite

	kick  *DynamicDecayEnvelope
	hihat *FixedDecayEnvelope
	note  *FixedDecayEnvelope
	full  *ColorEnvelope
}

// NewHueSink builds a bridge sink for the given entertainment area and its
// light channel ids. When colorEnvelope is true every channel is rendered
// straight from the fullband colour envelope's interpolated HSV value on
// every Full onset, rather than the drum/hihat/note composite.
func NewHueSink(areaID string, channelIDs []byte, colorEnvelope bool) *HueSink {
	prefix := make([]byte, 0, len(hueStreamMagic)+7+hueAreaIDLen)
	prefix = append(prefix, hueStreamMagic...)
	prefix = append(prefix, 0x02, 0, 0, 0, 0, 0, 0)

	areaBytes := make([]byte, hueAreaIDLen)
	copy(areaBytes, areaID)
	prefix = append(prefix, areaBytes...)

	return &HueSink{
		channels:      append([]byte(nil), channelIDs...),
		prefix:        prefix,
		colorEnvelope: colorEnvelope,
		kick:          NewDynamicDecayEnvelope(2.0),
		hihat:         NewFixedDecayEnvelope(80 * time.Millisecond),
		note:          NewFixedDecayEnvelope(100 * time.Millisecond),
		full:          NewColorEnvelope(250*time.Millisecond, RGB16{}, RGB16{R: 65535, G: 65535, B: 65535}),
	}
}

func (h *HueSink) ProcessOnset(o onset.Onset) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch o.Kind {
	case onset.Drum:
		h.kick.TriggerIfLouder(o.Strength)
	case onset.Hihat:
		h.hihat.TriggerIfLouder(o.Strength)
	case onset.Note:
		h.note.TriggerIfLouder(o.Strength)
	case onset.Full:
		h.full.TriggerIfLouder(o.Strength)
	}
}

func (h *HueSink) ProcessOnsets(list []onset.Onset) {
	for _, o := range list {
		h.ProcessOnset(o)
	}
}

func saturate16(v int32) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}

// Poll implements Pollable: it snapshots the four envelopes under the
// sink's lock and renders the datagram bytes outside it.
func (h *HueSink) Poll() []byte {
	h.mu.Lock()
	var r, g, b uint16
	if h.colorEnvelope {
		c := h.full.Color()
		r, g, b = c.R, c.G, c.B
	} else {
		kick := uint16(h.kick.Value() * 65535)
		hihat := uint16(h.hihat.Value() * 65535)
		note := uint16(h.note.Value() * 65535)

		white := hihat >> 3
		r = saturate16(int32(kick) + int32(white))
		g = white
		b = saturate16(int32(note>>1) + int32(white))
	}
	h.mu.Unlock()

	out := make([]byte, len(h.prefix)+len(h.channels)*7)
	n := copy(out, h.prefix)
	for _, ch := range h.channels {
		out[n] = ch
		binary.BigEndian.PutUint16(out[n+1:], r)
		binary.BigEndian.PutUint16(out[n+3:], uint16(g))
		binary.BigEndian.PutUint16(out[n+5:], b)
		n += 7
	}
	return out
}

// Close is provided so HueSink satisfies Sink; the polling helper owns the
// actual stream lifetime and is closed separately by the orchestrator.
func (h *HueSink) Close() error {
	return nil
}
