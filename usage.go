package forge

// Usage tracks token consumption of a single provider call, as reported by
// the provider. Zero means the provider did not report it.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
