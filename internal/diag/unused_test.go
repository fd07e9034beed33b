package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUnusedSymbol(t *testing.T) {
	tests := []struct {
		name    string
		message string
		symbol  string
		ok      bool
	}{
		{
			name:    "unused variable",
			message: "Variable '$_unused' is declared but not used.",
			symbol:  "$_unused",
			ok:      true,
		},
		{
			name:    "unused method",
			message: "Method 'helper' is declared but never used.",
			symbol:  "helper",
			ok:      true,
		},
		{
			name:    "unused function",
			message: "Function '_internal' is declared but never used.",
			symbol:  "_internal",
			ok:      true,
		},
		{
			name:    "other diagnostic",
			message: "Undefined variable '$foo'.",
			ok:      false,
		},
		{
			name:    "variable shape with method wording does not parse",
			message: "Variable '$x' is declared but never used.",
			ok:      false,
		},
		{
			name:    "empty symbol fails open",
			message: "Method '' is declared but never used.",
			ok:      false,
		},
		{
			name:    "empty message",
			message: "",
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			symbol, ok := ParseUnusedSymbol(tt.message)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.symbol, symbol)
		})
	}
}

func TestShouldSuppressUnused(t *testing.T) {
	tests := []struct {
		name             string
		symbol           string
		underscoreIgnore bool
		want             bool
	}{
		{"underscore variable, enabled", "$_unused", true, true},
		{"underscore function, enabled", "_helper", true, true},
		{"plain variable, enabled", "$count", true, false},
		{"plain method, enabled", "handle", true, false},
		{"underscore variable, disabled", "$_unused", false, false},
		{"underscore function, disabled", "_helper", false, false},
		{"empty name never suppressed", "", true, false},
		{"bare sigil never suppressed", "$", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldSuppressUnused(tt.symbol, tt.underscoreIgnore))
		})
	}
}
