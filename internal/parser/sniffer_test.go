package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected rune
	}{
		{
			name:     "semicolon dominates without commas",
			header:   "text;type;options",
			expected: ';',
		},
		{
			name:     "comma is the default",
			header:   "text,type,options",
			expected: ',',
		},
		{
			name:     "any tab presence wins over commas",
			header:   "text\ttype\toptions",
			expected: '\t',
		},
		{
			name:     "tab wins even when commas appear inside headers",
			header:   "question, or prompt\ttype",
			expected: '\t',
		},
		{
			name:     "single semicolon inside prose does not beat commas",
			header:   "text,type;kind,options",
			expected: ',',
		},
		{
			name:     "delimiters inside quotes are not counted",
			header:   `"a;b;c",text;type`,
			expected: ',',
		},
		{
			name:     "escaped quotes do not toggle quote state",
			header:   `"a""b";c;d`,
			expected: ';',
		},
		{
			name:     "no delimiters at all falls back to comma",
			header:   "text",
			expected: ',',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sniffDelimiter(tt.header))
		})
	}
}
