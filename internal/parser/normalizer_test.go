package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	t.Run("strips byte order mark", func(t *testing.T) {
		lines := normalizeText("\uFEFFtext,type\na,b")
		assert.Equal(t, []string{"text,type", "a,b"}, lines)
	})

	t.Run("normalizes CRLF and bare CR", func(t *testing.T) {
		lines := normalizeText("a\r\nb\rc")
		assert.Equal(t, []string{"a", "b", "c"}, lines)
	})

	t.Run("drops blank and whitespace-only lines", func(t *testing.T) {
		lines := normalizeText("a\n\n   \n\tb\n")
		assert.Equal(t, []string{"a", "\tb"}, lines)
	})

	t.Run("empty input yields no lines", func(t *testing.T) {
		lines := normalizeText("")
		assert.Empty(t, lines)
	})
}
