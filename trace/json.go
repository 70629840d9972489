package trace

import (
	"encoding/json"
	"io"

	"github.com/sarchlab/tomasim/timing/tomasulo"
)

// JSONRecorder keeps every snapshot for a machine-readable state log.
type JSONRecorder struct {
	snapshots []tomasulo.Snapshot
}

// NewJSONRecorder creates an empty recorder.
func NewJSONRecorder() *JSONRecorder {
	return &JSONRecorder{}
}

// Observe records one snapshot.
func (r *JSONRecorder) Observe(s tomasulo.Snapshot) {
	r.snapshots = append(r.snapshots, s)
}

// Snapshots returns the recorded snapshots in cycle order.
func (r *JSONRecorder) Snapshots() []tomasulo.Snapshot {
	return r.snapshots
}

// Encode writes the recorded snapshots as an indented JSON array.
func (r *JSONRecorder) Encode(w io.Writer) error {
	snapshots := r.snapshots
	if snapshots == nil {
		snapshots = []tomasulo.Snapshot{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshots)
}
