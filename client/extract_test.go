package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "prose wrapped object",
			input: `Here is the answer: {"a":1} Thanks!`,
			want:  `{"a":1}`,
		},
		{
			name:  "bare object",
			input: `{"risk_profile":"Neutral"}`,
			want:  `{"risk_profile":"Neutral"}`,
		},
		{
			name:  "no braces returns input unchanged",
			input: "no structured answer here",
			want:  "no structured answer here",
		},
		{
			name:  "closing brace before opening returns input unchanged",
			input: "} oops {",
			want:  "} oops {",
		},
		{
			name:  "nested object keeps outermost span",
			input: `prefix {"outer":{"inner":2}} suffix`,
			want:  `{"outer":{"inner":2}}`,
		},
		{
			name:  "multiple objects span both",
			input: `{"a":1} and {"b":2}`,
			want:  `{"a":1} and {"b":2}`,
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.input))
		})
	}
}

// Extraction must be a pure function of its input: running it twice yields
// the same span.
func TestExtractJSONIdempotent(t *testing.T) {
	input := `Sure! {"a":1} Done.`
	once := ExtractJSON(input)
	assert.Equal(t, once, ExtractJSON(once))
}
