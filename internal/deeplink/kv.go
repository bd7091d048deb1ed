package deeplink

import (
	"context"
	"strconv"
	"time"

	"github.com/orgball2608/insta-profile-viewer/internal/repositories/kvstore"
	"github.com/orgball2608/insta-profile-viewer/pkg/logger"
)

const (
	pendingUsernameKey  = "pendingUsername"
	pendingTimestampKey = "pendingUsernameTimestamp"
)

// KVInbox stores the pending handoff in the shared durable store, the
// timestamp as unix seconds.
type KVInbox struct {
	store  kvstore.Store
	logger logger.Logger
}

func NewKVInbox(store kvstore.Store, logger logger.Logger) *KVInbox {
	return &KVInbox{
		store:  store,
		logger: logger.WithComponent("HandoffInbox"),
	}
}

var _ Inbox = (*KVInbox)(nil)

func (i *KVInbox) Peek(ctx context.Context) (string, time.Time, bool) {
	value, err := i.store.Get(ctx, pendingUsernameKey)
	if err != nil || len(value) == 0 {
		return "", time.Time{}, false
	}

	raw, err := i.store.Get(ctx, pendingTimestampKey)
	if err != nil {
		return "", time.Time{}, false
	}
	secs, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		i.logger.Warn("Unreadable handoff timestamp, dropping pending value", "error", err)
		return "", time.Time{}, false
	}

	return string(value), time.Unix(secs, 0), true
}

func (i *KVInbox) Publish(ctx context.Context, value string, at time.Time) error {
	if err := i.store.Set(ctx, pendingUsernameKey, []byte(value)); err != nil {
		return err
	}
	return i.store.Set(ctx, pendingTimestampKey, []byte(strconv.FormatInt(at.Unix(), 10)))
}

func (i *KVInbox) Clear(ctx context.Context) error {
	if err := i.store.Delete(ctx, pendingUsernameKey); err != nil {
		return err
	}
	return i.store.Delete(ctx, pendingTimestampKey)
}
