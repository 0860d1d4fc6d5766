package recovery_test

import (
	"testing"

	"github.com/fwojciec/forge/recovery"
	"github.com/stretchr/testify/assert"
)

func TestExtractSpan(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"exact object", `{"a":1}`, `{"a":1}`, true},
		{"prose around object", "Sure! {\"a\": {\"b\": 2}} Hope it helps {x}", `{"a": {"b": 2}}`, true},
		{"array first", `text [1, {"a": 2}] {}`, `[1, {"a": 2}]`, true},
		{"braces inside strings ignored", `{"code": "function() { if (x) {"}`, `{"code": "function() { if (x) {"}`, true},
		{"escaped quote inside string", `{"a": "say \"}\" now"} tail`, `{"a": "say \"}\" now"}`, true},
		{"unbalanced returns tail", `prefix {"a": [1, 2`, `{"a": [1, 2`, true},
		{"not found", "no structure here", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := recovery.ExtractSpan(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
