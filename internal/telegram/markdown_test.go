package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessageShort(t *testing.T) {
	parts := SplitMessage("olá", 100)
	assert.Equal(t, []string{"olá"}, parts)
}

func TestSplitMessageLong(t *testing.T) {
	text := strings.Repeat("linha de texto\n", 600)
	parts := SplitMessage(text, MaxMessageLen)

	require.Greater(t, len(parts), 1)
	for _, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), MaxMessageLen)
	}
	assert.Equal(t, text, strings.Join(parts, ""))
}

func TestSplitMessageMultibyte(t *testing.T) {
	// Accented text has more bytes than runes; the split must count runes
	text := strings.Repeat("é", 4000) + "\n" + strings.Repeat("é", 200)
	parts := SplitMessage(text, MaxMessageLen)

	require.Len(t, parts, 2)
	assert.Equal(t, strings.Repeat("é", 4000)+"\n", parts[0])
	assert.Equal(t, strings.Repeat("é", 200), parts[1])
	for _, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), MaxMessageLen)
	}
	assert.Equal(t, text, strings.Join(parts, ""))
}

func TestSplitMessageMultibyteNoNewline(t *testing.T) {
	text := strings.Repeat("ã", 5000)
	parts := SplitMessage(text, MaxMessageLen)

	require.Len(t, parts, 2)
	assert.Equal(t, MaxMessageLen, utf8.RuneCountInString(parts[0]))
	assert.Equal(t, text, strings.Join(parts, ""))
}

func TestSplitMessagePrefersNewline(t *testing.T) {
	text := strings.Repeat("a", 3000) + "\n" + strings.Repeat("b", 3000)
	parts := SplitMessage(text, MaxMessageLen)

	require.Len(t, parts, 2)
	assert.True(t, strings.HasSuffix(parts[0], "\n"))
	assert.True(t, strings.HasPrefix(parts[1], "b"))
}

func TestFixMarkdownClosesCodeBlock(t *testing.T) {
	fixed := FixMarkdown("```go\nfmt.Println(1)")
	assert.Equal(t, 0, strings.Count(fixed, "```")%2)
}

func TestFixMarkdownClosesInlineCode(t *testing.T) {
	fixed := FixMarkdown("usa `x = 4")
	assert.Equal(t, 0, strings.Count(fixed, "`")%2)
}

func TestFixMarkdownBalancedUnchanged(t *testing.T) {
	text := "resposta com `código` e ```bloco```"
	assert.Equal(t, text, FixMarkdown(text))
}
