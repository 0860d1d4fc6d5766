package forge

// StopReason indicates why the provider stopped generating.
type StopReason string

const (
	StopEndTurn StopReason = "end_turn"
	StopLength  StopReason = "length" // output ceiling reached; text is likely truncated
	StopError   StopReason = "error"
	StopUnknown StopReason = "unknown"
)
