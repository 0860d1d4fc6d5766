package forge

import "time"

// Recorder receives pipeline measurements. Implementations must be safe
// for concurrent use; the pipeline calls them from request goroutines.
type Recorder interface {
	// ProviderAttempt is called once per provider call. err is nil on success.
	ProviderAttempt(id ProviderID, mode Mode, err error, d time.Duration)
	// Recovered is called once per recovery run with the stage that
	// produced parseable text, or "" when recovery was exhausted.
	Recovered(stage string)
	// RequestDone is called once per pipeline operation.
	RequestDone(op string, err error, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ProviderAttempt(ProviderID, Mode, error, time.Duration) {}
func (nopRecorder) Recovered(string)                                      {}
func (nopRecorder) RequestDone(string, error, time.Duration)              {}
