package forge

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	KindUnavailable       ErrorKind = "unavailable"        // no provider configured or reachable
	KindQuotaExceeded     ErrorKind = "quota_exceeded"     // rate or usage limit
	KindMalformed         ErrorKind = "malformed"          // provider rejected or mis-shaped the exchange
	KindTransient         ErrorKind = "transient"          // timeout, overload, 5xx
	KindRecoveryExhausted ErrorKind = "recovery_exhausted" // text recovery produced nothing parseable
	KindUnknown           ErrorKind = "unknown"
)

// Code returns the wire error code for k.
func (k ErrorKind) Code() string {
	switch k {
	case KindQuotaExceeded:
		return "QUOTA_EXCEEDED"
	case KindUnavailable, KindTransient:
		return "UNAVAILABLE"
	case KindMalformed, KindRecoveryExhausted:
		return "MALFORMED_RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// ProviderError is a classified failure attributed to one provider.
// Provider is empty only when no provider could be attempted at all.
type ProviderError struct {
	Kind     ErrorKind
	Provider ProviderID
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Diagnostic records one failed parse attempt during text recovery.
type Diagnostic struct {
	Stage  string
	Prefix string // bounded prefix of the text the stage produced
	Err    string
}

// RecoveryError reports that no recovery stage produced parseable text.
// Diagnostics lists every stage attempted, in order.
type RecoveryError struct {
	Provider    ProviderID
	RawPrefix   string // bounded prefix of the raw completion, never the full text
	StopReason  StopReason
	Diagnostics []Diagnostic
}

func (e *RecoveryError) Error() string {
	if len(e.Diagnostics) == 0 {
		return ErrRecoveryExhausted.Error()
	}
	last := e.Diagnostics[len(e.Diagnostics)-1]
	return fmt.Sprintf("%s after %d stages: %s: %s", ErrRecoveryExhausted, len(e.Diagnostics), last.Stage, last.Err)
}

func (e *RecoveryError) Unwrap() error { return ErrRecoveryExhausted }

// ErrorKindOf returns the kind of err. Errors that carry no classification
// are KindUnknown.
func ErrorKindOf(err error) ErrorKind {
	var pe *ProviderError
	var re *RecoveryError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		return pe.Kind
	case errors.As(err, &re):
		return KindRecoveryExhausted
	case errors.Is(err, ErrNoProviders):
		return KindUnavailable
	default:
		return KindUnknown
	}
}

// ProviderOf returns the provider err is attributed to, or "".
func ProviderOf(err error) ProviderID {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Provider
	}
	var re *RecoveryError
	if errors.As(err, &re) {
		return re.Provider
	}
	return ""
}
