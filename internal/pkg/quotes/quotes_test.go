package quotes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `"Ozark"`, QuoteString("Ozark"))
	assert.Equal(t, `"say \"hi\""`, QuoteString(`say "hi"`))
	assert.Equal(t, `"a\\b"`, QuoteString(`a\b`))
	assert.Equal(t, `"line\nbreak\ttab"`, QuoteString("line\nbreak\ttab"))
	assert.Equal(t, `"\u0001"`, QuoteString("\x01"))
	assert.Equal(t, `"\u001f"`, QuoteString("\x1f"))
	assert.Equal(t, `"héllo ✓"`, QuoteString("héllo ✓"))
}

func TestBlockString(t *testing.T) {
	assert.Equal(t, "\"\"\"\nA show.\n\"\"\"", BlockString("A show.", ""))
	assert.Equal(t, "  \"\"\"\n  first\n\n  second\n  \"\"\"", BlockString("first\n\nsecond", "  "))
	assert.Equal(t, "\"\"\"\nquote \\\"\"\" inside\n\"\"\"", BlockString(`quote """ inside`, ""))
}
