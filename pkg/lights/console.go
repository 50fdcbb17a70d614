package lights

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/dougsko/musicsyncd/pkg/onset"
)

// ConsoleSink renders one line per hop: each onset kind maps to a coloured
// bar whose length is proportional to its strength, with no colour
// blending across frames.
type ConsoleSink struct {
	BaseSink

	mu   sync.Mutex
	bars map[onset.Kind]int
}

var kindColor = map[onset.Kind]string{
	onset.Full:       "\x1b[37m",
	onset.Atmosphere: "\x1b[36m",
	onset.Drum:       "\x1b[31m",
	onset.Note:       "\x1b[33m",
	onset.Hihat:      "\x1b[35m",
}

const resetColor = "\x1b[0m"

// NewConsoleSink builds a console renderer.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{bars: make(map[onset.Kind]int)}
}

func (c *ConsoleSink) ProcessOnset(o onset.Onset) {
	if o.Kind == onset.Raw {
		return
	}
	bar := int(math.Ceil(o.Strength * 9))
	if bar < 0 {
		bar = 0
	}
	c.mu.Lock()
	if bar > c.bars[o.Kind] {
		c.bars[o.Kind] = bar
	}
	c.mu.Unlock()
}

func (c *ConsoleSink) ProcessOnsets(list []onset.Onset) {
	for _, o := range list {
		c.ProcessOnset(o)
	}
}

// Update prints the accumulated bars for this hop and resets them.
func (c *ConsoleSink) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	for _, k := range []onset.Kind{onset.Full, onset.Atmosphere, onset.Drum, onset.Note, onset.Hihat} {
		length := c.bars[k]
		b.WriteString(kindColor[k])
		b.WriteString(fmt.Sprintf("%-10s", k.String()))
		b.WriteString(strings.Repeat("#", length))
		b.WriteString(strings.Repeat(" ", 9-length))
		b.WriteString(resetColor)
		b.WriteString(" ")
	}
	fmt.Println(b.String())

	for k := range c.bars {
		c.bars[k] = 0
	}
}
