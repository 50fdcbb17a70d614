// Package onset implements the two onset-detection algorithms (HFC and
// SpecFlux) and the adaptive thresholds that feed them, per the shared
// detect(spectrum, peak, rms) contract every consumer depends on.
package onset

// Kind tags the musical role an Onset event represents. The vocabulary is
// the HFC detector's own naming; an earlier revision of the bridge sink
// used Kick/Snare for the same roles, but this module standardises on
// Drum/Note everywhere.
type Kind int

const (
	Full Kind = iota
	Atmosphere
	Drum
	Note
	Hihat
	Raw
)

func (k Kind) String() string {
	switch k {
	case Full:
		return "full"
	case Atmosphere:
		return "atmosphere"
	case Drum:
		return "drum"
	case Note:
		return "note"
	case Hihat:
		return "hihat"
	case Raw:
		return "raw"
	default:
		return "unknown"
	}
}

// Onset is a single detected event. Strength is in [0, 1] for every kind
// except Raw, which carries the detector's raw diagnostic score. Bin is
// only meaningful for Atmosphere and Note (the dominant-frequency bin);
// it is -1 otherwise.
type Onset struct {
	Kind     Kind
	Strength float64
	Bin      int
}

func event(k Kind, strength float64) Onset {
	return Onset{Kind: k, Strength: strength, Bin: -1}
}

func eventWithBin(k Kind, strength float64, bin int) Onset {
	return Onset{Kind: k, Strength: strength, Bin: bin}
}

// Detector is the shared contract both HFC and SpecFlux implement; the
// orchestrator holds a value of this interface type and never branches on
// which concrete algorithm is configured.
type Detector interface {
	Detect(spectrum []float64, peak, rms float64) []Onset
}
