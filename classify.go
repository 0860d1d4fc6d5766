package forge

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
)

// KindFromStatus maps an HTTP status code to an ErrorKind. Provider clients
// call it at their boundary so that classification rarely depends on
// message text.
func KindFromStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindUnavailable
	case status == http.StatusTooManyRequests:
		return KindQuotaExceeded
	case status == http.StatusBadRequest, status == http.StatusNotFound, status == http.StatusUnprocessableEntity:
		return KindMalformed
	case status == http.StatusRequestTimeout, status >= 500:
		return KindTransient
	default:
		return KindUnknown
	}
}

// Substrings that indicate rate or quota limiting in free-text errors.
var quotaMarkers = []string{"429", "quota", "exceeded", "rate limit", "too many requests", "resource_exhausted"}

// Substrings identifying each provider in its SDK's error text.
var providerMarkers = map[ProviderID][]string{
	ProviderGemini:    {"gemini", "googlegenerativeai", "generativelanguage"},
	ProviderDeepSeek:  {"deepseek"},
	ProviderAnthropic: {"anthropic"},
}

// Classify infers an ErrorKind from an unstructured error message.
//
// This is a last resort for errors that reached a client without a status
// code: the upstream APIs do not guarantee any wording, so a match is a
// guess. Timeout wording is checked before quota wording because
// "deadline exceeded" would otherwise read as a quota error.
func Classify(id ProviderID, msg string) ErrorKind {
	m := strings.ToLower(msg)
	if strings.Contains(m, "deadline exceeded") || strings.Contains(m, "timeout") {
		return KindTransient
	}
	for _, q := range quotaMarkers {
		if strings.Contains(m, q) {
			return KindQuotaExceeded
		}
	}
	for _, p := range providerMarkers[id] {
		if strings.Contains(m, p) {
			return KindMalformed
		}
	}
	return KindUnknown
}

// AsProviderError attributes err to provider id. A *ProviderError is
// returned as is (with Provider filled in when missing); context and
// network failures go through TransportError; anything else is
// classified by message.
func AsProviderError(id ProviderID, err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		if pe.Provider == "" {
			cp := *pe
			cp.Provider = id
			return &cp
		}
		return pe
	}
	if isTransport(err) {
		return TransportError(id, err)
	}
	return &ProviderError{Kind: Classify(id, err.Error()), Provider: id, Message: err.Error(), Err: err}
}

// TransportError attributes a failure to reach provider id, before any
// response arrived. Timeouts and cancellation are KindTransient; every
// other failure (refused connection, DNS, TLS) is KindUnknown. The error
// text is not classified.
func TransportError(id ProviderID, err error) *ProviderError {
	kind := KindUnknown
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = KindTransient
	case errors.As(err, &ne) && ne.Timeout():
		kind = KindTransient
	}
	return &ProviderError{Kind: kind, Provider: id, Message: err.Error(), Err: err}
}

func isTransport(err error) bool {
	var ne net.Error
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.As(err, &ne)
}
