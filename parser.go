package forge

// Recovery describes how a document was recovered from model text.
type Recovery struct {
	// Stage is the recovery stage whose output parsed. "extract" means no
	// repair was needed.
	Stage string
	// Diagnostics lists the stages that failed before Stage succeeded.
	Diagnostics []Diagnostic
}

// DocumentParser turns raw completion text into a Document. When no
// recovery stage yields parseable text it returns a *RecoveryError.
type DocumentParser interface {
	ParseDocument(text string) (Document, Recovery, error)
}
