// Package mentions scans caption text for @mention tokens and URLs,
// producing clickable spans for the presentation layer.
package mentions

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/orgball2608/insta-profile-viewer/internal/domain"
)

var (
	// An @ followed by handle characters. The preceding-character rule is
	// checked separately since RE2 has no lookbehind.
	mentionRe = regexp.MustCompile(`@[A-Za-z0-9._]+`)

	// Scheme-prefixed, www-prefixed, or bare domain-like text with an
	// optional path. Final label of a bare domain needs 2+ letters.
	urlRe = regexp.MustCompile(`(?i)\b(?:https?://\S+|www\.\S+|(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,}(?:/\S*)?)`)
)

// Scan produces the mention and link spans of text, ordered by start offset,
// with overlaps resolved in favor of the earlier span (mentions win ties).
// Offsets are byte offsets into text. Spans are built fresh per call and
// never persisted.
func Scan(text string) []domain.MentionSpan {
	var raw []domain.MentionSpan

	for _, m := range mentionRe.FindAllStringIndex(text, -1) {
		if precededByHandleChar(text, m[0]) {
			// Tail of an email-like token, not a mention.
			continue
		}
		raw = append(raw, domain.MentionSpan{
			Start:  m[0],
			End:    m[1],
			Kind:   domain.SpanMention,
			Target: text[m[0]+1 : m[1]],
		})
	}

	for _, m := range urlRe.FindAllStringIndex(text, -1) {
		if m[0] > 0 && text[m[0]-1] == '@' {
			// Email guard: the domain half of a@b.com is not a link.
			continue
		}
		target := text[m[0]:m[1]]
		lower := strings.ToLower(target)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			target = "https://" + target
		}
		raw = append(raw, domain.MentionSpan{
			Start:  m[0],
			End:    m[1],
			Kind:   domain.SpanLink,
			Target: target,
		})
	}

	sort.SliceStable(raw, func(i, j int) bool {
		if raw[i].Start != raw[j].Start {
			return raw[i].Start < raw[j].Start
		}
		return raw[i].Kind == domain.SpanMention && raw[j].Kind == domain.SpanLink
	})

	spans := raw[:0]
	lastEnd := -1
	for _, span := range raw {
		if span.Start < lastEnd {
			continue
		}
		spans = append(spans, span)
		lastEnd = span.End
	}
	return spans
}

// precededByHandleChar reports whether the rune before offset is a letter,
// digit, or dot.
func precededByHandleChar(text string, offset int) bool {
	if offset == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:offset])
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.'
}
