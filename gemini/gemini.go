// Package gemini implements [forge.Provider] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between forge's
// domain types and the Gemini API types. Each Complete call is one unary
// GenerateContent request.
package gemini

const defaultModel = "gemini-2.0-flash"
