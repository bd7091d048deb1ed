// Package deeplink handles the two inbound username delivery paths: the
// custom URI scheme and the cross-process pending-value handoff written by
// the share action.
package deeplink

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Scheme is the custom URI scheme, e.g. igviewer://username.
const Scheme = "igviewer"

// Freshness is how long a pending handoff stays consumable. Older values are
// considered a stale delivery and never replayed.
const Freshness = 10 * time.Second

// Inbox is the cross-process pending-value handoff: the share action
// publishes a username, the main session consumes it. The underlying store
// is read-modify-write without transactions; last write wins.
type Inbox interface {
	Peek(ctx context.Context) (value string, at time.Time, ok bool)
	Publish(ctx context.Context, value string, at time.Time) error
	Clear(ctx context.Context) error
}

// ParseURL extracts the username of a scheme link. Both the host form
// (igviewer://name) and the path form (igviewer:///name) are accepted.
func ParseURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != Scheme {
		return "", false
	}

	if u.Host != "" {
		return u.Host, true
	}

	name := strings.Trim(u.Path, "/")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", false
	}
	return name, true
}

// ExtractProfileURL pulls the username out of a shared profile page URL,
// e.g. https://www.instagram.com/username/?hl=en.
func ExtractProfileURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || !strings.Contains(u.Host, "instagram.com") {
		return "", false
	}

	for _, segment := range strings.Split(u.Path, "/") {
		if segment != "" {
			return segment, true
		}
	}
	return "", false
}

// Consume returns the pending username when it is fresher than the
// freshness window, clearing it so the delivery is never replayed. A stale
// value is left for the janitor.
func Consume(ctx context.Context, inbox Inbox, now time.Time) (string, bool) {
	value, at, ok := inbox.Peek(ctx)
	if !ok {
		return "", false
	}
	if now.Sub(at) >= Freshness {
		return "", false
	}
	if err := inbox.Clear(ctx); err != nil {
		return "", false
	}
	return value, true
}
