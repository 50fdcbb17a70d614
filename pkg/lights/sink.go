package lights

import "github.com/dougsko/musicsyncd/pkg/onset"

// Sink is an onset consumer (C7): the orchestrator calls ProcessOnsets,
// ProcessSpectrum and ProcessSamples synchronously on the audio thread for
// every complete frame, then Update once per hop after all of them.
//
// Implemented as an interface with an embeddable no-op base (BaseSink)
// rather than a class hierarchy, since Go has no closed sum types and
// sink kinds are meant to be user-extensible.
type Sink interface {
	ProcessOnset(o onset.Onset)
	ProcessOnsets(list []onset.Onset)
	ProcessSpectrum(spectrum []float64)
	ProcessSamples(mono []float64)
	Update()
	Close() error
}

// BaseSink supplies the spec's defaults (no-op, or forward-each for
// ProcessOnsets) for embedding into concrete sinks that only care about a
// subset of the contract. Because Go embedding does not dispatch
// virtually, a concrete sink that needs ProcessOnsets to route through its
// own ProcessOnset override must implement ProcessOnsets itself rather
// than relying on this default.
type BaseSink struct{}

func (BaseSink) ProcessOnset(onset.Onset)      {}
func (b BaseSink) ProcessOnsets(list []onset.Onset) {
	for _, o := range list {
		b.ProcessOnset(o)
	}
}
func (BaseSink) ProcessSpectrum([]float64)     {}
func (BaseSink) ProcessSamples([]float64)      {}
func (BaseSink) Update()                       {}
func (BaseSink) Close() error                  { return nil }
