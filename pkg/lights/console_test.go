package lights

import (
	"testing"

	"github.com/dougsko/musicsyncd/pkg/onset"
)

func TestConsoleSinkIgnoresRawOnsets(t *testing.T) {
	c := NewConsoleSink()
	c.ProcessOnset(onset.Onset{Kind: onset.Raw, Strength: 1.0})
	c.mu.Lock()
	n := len(c.bars)
	c.mu.Unlock()
	if n != 0 {
		t.Errorf("expected Raw onsets to be ignored, got %d tracked kinds", n)
	}
}

func TestConsoleSinkTracksLoudestBarPerHop(t *testing.T) {
	c := NewConsoleSink()
	c.ProcessOnset(onset.Onset{Kind: onset.Drum, Strength: 0.2})
	c.ProcessOnset(onset.Onset{Kind: onset.Drum, Strength: 0.9})

	c.mu.Lock()
	bar := c.bars[onset.Drum]
	c.mu.Unlock()

	if bar < 8 {
		t.Errorf("expected the louder of two same-hop onsets to set the bar length, got %d", bar)
	}
}

func TestConsoleSinkUpdateResetsBars(t *testing.T) {
	c := NewConsoleSink()
	c.ProcessOnset(onset.Onset{Kind: onset.Note, Strength: 1.0})
	c.Update()

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.bars {
		if v != 0 {
			t.Errorf("expected Update to reset bar for %s, got %d", k, v)
		}
	}
}
