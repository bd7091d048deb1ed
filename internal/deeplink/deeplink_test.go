package deeplink

import (
	"context"
	"testing"
	"time"

	"github.com/orgball2608/insta-profile-viewer/internal/repositories/kvstore"
	"github.com/orgball2608/insta-profile-viewer/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "host form", raw: "igviewer://foo.bar", want: "foo.bar", ok: true},
		{name: "path form", raw: "igviewer:///foo.bar", want: "foo.bar", ok: true},
		{name: "trailing slash", raw: "igviewer://foo.bar/", want: "foo.bar", ok: true},
		{name: "extra path segments", raw: "igviewer:///foo/bar", want: "foo", ok: true},
		{name: "wrong scheme", raw: "https://foo.bar", ok: false},
		{name: "no username", raw: "igviewer://", ok: false},
		{name: "not a url", raw: "://", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseURL(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractProfileURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "canonical", raw: "https://www.instagram.com/foo.bar/", want: "foo.bar", ok: true},
		{name: "no www", raw: "https://instagram.com/foo.bar", want: "foo.bar", ok: true},
		{name: "query string", raw: "https://www.instagram.com/foo.bar/?hl=en", want: "foo.bar", ok: true},
		{name: "post link takes owner segment", raw: "https://www.instagram.com/foo.bar/p/abc/", want: "foo.bar", ok: true},
		{name: "other host", raw: "https://example.com/foo.bar", ok: false},
		{name: "bare host", raw: "https://www.instagram.com/", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractProfileURL(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func newTestInbox() *KVInbox {
	return NewKVInbox(kvstore.NewMemory(), logger.New(logger.Opts{}))
}

func TestConsumeFreshHandoff(t *testing.T) {
	inbox := newTestInbox()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, inbox.Publish(ctx, "foo.bar", now.Add(-3*time.Second)))

	value, ok := Consume(ctx, inbox, now)
	require.True(t, ok)
	assert.Equal(t, "foo.bar", value)

	// Consuming clears the pending value so it is never replayed.
	_, _, ok = inbox.Peek(ctx)
	assert.False(t, ok)
}

func TestConsumeStaleHandoffLeavesValue(t *testing.T) {
	inbox := newTestInbox()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, inbox.Publish(ctx, "foo.bar", now.Add(-Freshness)))

	_, ok := Consume(ctx, inbox, now)
	assert.False(t, ok)

	// The stale value stays put; the janitor owns its removal.
	value, _, ok := inbox.Peek(ctx)
	require.True(t, ok)
	assert.Equal(t, "foo.bar", value)
}

func TestConsumeEmptyInbox(t *testing.T) {
	_, ok := Consume(context.Background(), newTestInbox(), time.Now())
	assert.False(t, ok)
}

func TestPublishOverwritesPending(t *testing.T) {
	inbox := newTestInbox()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, inbox.Publish(ctx, "first", now.Add(-time.Second)))
	require.NoError(t, inbox.Publish(ctx, "second", now))

	value, at, ok := inbox.Peek(ctx)
	require.True(t, ok)
	assert.Equal(t, "second", value)
	assert.Equal(t, now.Unix(), at.Unix())
}

func TestPeekUnreadableTimestamp(t *testing.T) {
	store := kvstore.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, pendingUsernameKey, []byte("foo")))
	require.NoError(t, store.Set(ctx, pendingTimestampKey, []byte("not-a-number")))

	inbox := NewKVInbox(store, logger.New(logger.Opts{}))
	_, _, ok := inbox.Peek(ctx)
	assert.False(t, ok)
}
