package lights

import (
	"testing"

	"github.com/dougsko/musicsyncd/pkg/onset"
)

func TestBaseSinkIsAllNoOp(t *testing.T) {
	var s BaseSink
	s.ProcessOnset(onset.Onset{Kind: onset.Drum, Strength: 1})
	s.ProcessOnsets([]onset.Onset{{Kind: onset.Note, Strength: 1}})
	s.ProcessSpectrum([]float64{1, 2, 3})
	s.ProcessSamples([]float64{1, 2, 3})
	s.Update()
	if err := s.Close(); err != nil {
		t.Errorf("expected BaseSink.Close to always return nil, got %v", err)
	}
}
