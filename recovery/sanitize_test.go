package recovery_test

import (
	"testing"

	"github.com/fwojciec/forge/recovery"
	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"raw newline in string", "{\"a\": \"line1\nline2\"}", `{"a": "line1\nline2"}`},
		{"raw tab and carriage return", "{\"a\": \"x\ty\r\"}", `{"a": "x\ty\r"}`},
		{"other control char", "{\"a\": \"x\x01y\"}", `{"a": "x\u0001y"}`},
		{"invalid escape doubled", `{"path": "C:\dir"}`, `{"path": "C:\\dir"}`},
		{"short unicode escape doubled", `{"a": "\u12"}`, `{"a": "\\u12"}`},
		{"backslash before raw newline", "{\"a\": \"x\\\ny\"}", `{"a": "x\\\ny"}`},
		{"whitespace outside strings kept", "{\n\t\"a\": 1\r\n}", "{\n\t\"a\": 1\r\n}"},
		{"control char outside strings escaped", "{\x01\"a\": 1}", `{\u0001"a": 1}`},
		{"stray backslash outside strings doubled", `{"a": 1\x}`, `{"a": 1\\x}`},
		{"escaped quote outside strings kept", `{\"a\": 1}`, `{\"a\": 1}`},
		{"trailing backslash doubled", `{"a": 1}\`, `{"a": 1}\\`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, recovery.Sanitize(tt.in))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	t.Parallel()
	for _, in := range []string{`{"p": "C:\dir"} \q`, "{\"a\": \"x\ny\"}", `{"a": "\u12"}`} {
		once := recovery.Sanitize(in)
		assert.Equal(t, once, recovery.Sanitize(once), in)
	}
}

func TestSanitize_KeepsValidEscapes(t *testing.T) {
	t.Parallel()
	in := `{"a": "q\"b\\s\/n\nt\tu\u00e9\b\f\r"}`
	assert.Equal(t, in, recovery.Sanitize(in))
	assert.NoError(t, parseJSON(recovery.Sanitize(in)))
}

func TestQuoteKeys(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare key", `{name: "x"}`, `{"name": "x"}`},
		{"several keys", `{a: 1, b_2: {c$: true}}`, `{"a": 1, "b_2": {"c$": true}}`},
		{"space before colon", "{\n  title : \"t\"}", "{\n  \"title\" : \"t\"}"},
		{"quoted keys unchanged", `{"a": 1}`, `{"a": 1}`},
		{"values are not keys", `[true, null, {a: false}]`, `[true, null, {"a": false}]`},
		{"strings untouched", `{"s": "{x: 1}"}`, `{"s": "{x: 1}"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, recovery.QuoteKeys(tt.in))
		})
	}
}

func TestCleanCommas(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing in object", `{"a": 1,}`, `{"a": 1}`},
		{"trailing in array with space", `[1, 2, ]`, `[1, 2 ]`},
		{"duplicate", `[1,, 2]`, `[1, 2]`},
		{"leading", `[, 1]`, `[ 1]`},
		{"run before closer", `{"a": 1,,, }`, `{"a": 1 }`},
		{"commas in strings untouched", `{"a": ",,", "b": "x,}"}`, `{"a": ",,", "b": "x,}"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := recovery.CleanCommas(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, parseJSON(got))
		})
	}
}
