package lights

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/dougsko/musicsyncd/pkg/onset"
)

func TestFileSerializerWritesCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "onsets.cbor")
	f := NewFileSerializer(path, 10)

	f.ProcessOnset(onset.Onset{Kind: onset.Raw, Strength: 0.42})
	f.ProcessOnset(onset.Onset{Kind: onset.Drum, Strength: 0.9, Bin: -1})
	f.Update()
	f.ProcessOnset(onset.Onset{Kind: onset.Note, Strength: 0.5, Bin: 7})

	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected the serializer to have written a file: %v", err)
	}

	var out onsetContainer
	if err := cbor.Unmarshal(data, &out); err != nil {
		t.Fatalf("expected valid CBOR output: %v", err)
	}

	if out.TimeIntervalMs != 10 {
		t.Errorf("expected time_interval 10, got %d", out.TimeIntervalMs)
	}
	if len(out.Raw) != 1 || out.Raw[0] != 0.42 {
		t.Errorf("expected one raw sample of 0.42, got %v", out.Raw)
	}
	drums := out.Events["drum"]
	if len(drums) != 1 || drums[0].Strength != 0.9 {
		t.Errorf("expected one drum event with strength 0.9, got %v", drums)
	}
	notes := out.Events["note"]
	if len(notes) != 1 || notes[0].TimestampMs != 10 || notes[0].Bin != 7 {
		t.Errorf("expected one note event timestamped after Update, got %v", notes)
	}
}

func TestFileSerializerDefaultsPath(t *testing.T) {
	f := NewFileSerializer("", 10)
	if f.path != "onsets.cbor" {
		t.Errorf("expected default path onsets.cbor, got %q", f.path)
	}
}
