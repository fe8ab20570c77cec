package allocator

import "time"

// Placement outcomes reported to the Recorder.
const (
	OutcomeExisting   = "existing"
	OutcomePlaced     = "placed"
	OutcomeReconciled = "reconciled"
	OutcomeExhausted  = "exhausted"
	OutcomeError      = "error"
)

// Recorder receives allocation events; v1/metrics implements it.
type Recorder interface {
	PlacementObserved(outcome, project string, elapsed time.Duration)
	IndexCreated(project string)
	ProjectExhausted(project string)
}

type nopRecorder struct{}

func (nopRecorder) PlacementObserved(string, string, time.Duration) {}
func (nopRecorder) IndexCreated(string)                             {}
func (nopRecorder) ProjectExhausted(string)                         {}
