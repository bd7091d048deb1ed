package domain

// SpanKind tells what a caption span points at.
type SpanKind int

const (
	SpanMention SpanKind = iota
	SpanLink
)

// MentionSpan is a byte-offset range into a caption identified as a profile
// mention or an external link. Target is the username (without the @) for
// mentions, or the normalized URL for links.
type MentionSpan struct {
	Start  int
	End    int
	Kind   SpanKind
	Target string
}
