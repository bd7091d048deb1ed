package mentions

import (
	"testing"

	"github.com/orgball2608/insta-profile-viewer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanMentionsAndLinks(t *testing.T) {
	text := "hi @bob.dev visit example.com or mail me at a@b.com"

	spans := Scan(text)
	require.Len(t, spans, 2)

	assert.Equal(t, domain.SpanMention, spans[0].Kind)
	assert.Equal(t, "bob.dev", spans[0].Target)
	assert.Equal(t, "@bob.dev", text[spans[0].Start:spans[0].End])

	assert.Equal(t, domain.SpanLink, spans[1].Kind)
	assert.Equal(t, "https://example.com", spans[1].Target)
	assert.Equal(t, "example.com", text[spans[1].Start:spans[1].End])
}

func TestScanMentionAtStart(t *testing.T) {
	spans := Scan("@alice_1 says hi")
	require.Len(t, spans, 1)
	assert.Equal(t, domain.SpanMention, spans[0].Kind)
	assert.Equal(t, "alice_1", spans[0].Target)
	assert.Equal(t, 0, spans[0].Start)
}

func TestScanSchemeURLKeepsScheme(t *testing.T) {
	spans := Scan("see http://example.com/a?b=c#d for details")
	require.Len(t, spans, 1)
	assert.Equal(t, domain.SpanLink, spans[0].Kind)
	assert.Equal(t, "http://example.com/a?b=c#d", spans[0].Target)
}

func TestScanWwwURLGetsScheme(t *testing.T) {
	spans := Scan("see www.example.com/path")
	require.Len(t, spans, 1)
	assert.Equal(t, "https://www.example.com/path", spans[0].Target)
}

func TestScanEmailProducesNothing(t *testing.T) {
	assert.Empty(t, Scan("contact someone@example.com please"))
}

func TestScanOrderedAndNonOverlapping(t *testing.T) {
	text := "@a then b.com then @c.d"

	spans := Scan(text)
	require.Len(t, spans, 3)

	lastEnd := -1
	for _, span := range spans {
		assert.GreaterOrEqual(t, span.Start, lastEnd)
		lastEnd = span.End
	}
	assert.Equal(t, "a", spans[0].Target)
	assert.Equal(t, "https://b.com", spans[1].Target)
	assert.Equal(t, "c.d", spans[2].Target)
}

func TestScanPlainTextIsEmpty(t *testing.T) {
	assert.Empty(t, Scan("just a plain caption with no targets"))
}

func TestScanMentionNotAfterWordChar(t *testing.T) {
	// The tail of foo@bar is not a mention.
	spans := Scan("foo@bar")
	assert.Empty(t, spans)
}
