package recency

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/orgball2608/insta-profile-viewer/internal/domain"
	"github.com/orgball2608/insta-profile-viewer/internal/repositories/kvstore"
	"github.com/orgball2608/insta-profile-viewer/pkg/logger"
)

// KV keeps both lists as JSON arrays in the durable store. An unreadable or
// undecodable list degrades to empty instead of surfacing an error: this
// data is a convenience, availability wins over strictness.
type KV struct {
	store  kvstore.Store
	logger logger.Logger
	now    func() time.Time
}

func NewKV(store kvstore.Store, logger logger.Logger) *KV {
	return &KV{
		store:  store,
		logger: logger.WithComponent("RecencyRepo"),
		now:    time.Now,
	}
}

var _ Repository = (*KV)(nil)

func (r *KV) ListSaved(ctx context.Context) ([]domain.SavedEntry, error) {
	entries := r.load(ctx, savedUsersKey)
	sortByRecordedAtDesc(entries)
	return entries, nil
}

func (r *KV) Save(ctx context.Context, user domain.User) error {
	entries := r.load(ctx, savedUsersKey)
	for _, entry := range entries {
		if entry.ID == user.ID {
			return nil
		}
	}
	entries = append(entries, domain.NewSavedEntry(user, r.now()))
	return r.persist(ctx, savedUsersKey, entries)
}

func (r *KV) Unsave(ctx context.Context, id string) error {
	entries := r.load(ctx, savedUsersKey)
	kept := entries[:0]
	for _, entry := range entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return r.persist(ctx, savedUsersKey, kept)
}

func (r *KV) IsSaved(ctx context.Context, id string) (bool, error) {
	for _, entry := range r.load(ctx, savedUsersKey) {
		if entry.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *KV) ListHistory(ctx context.Context, excluding map[string]struct{}) ([]domain.SavedEntry, error) {
	entries := r.load(ctx, historyKey)
	kept := entries[:0]
	for _, entry := range entries {
		if _, excluded := excluding[entry.ID]; !excluded {
			kept = append(kept, entry)
		}
	}
	sortByRecordedAtDesc(kept)
	return kept, nil
}

func (r *KV) RecordView(ctx context.Context, user domain.User) error {
	entries := r.load(ctx, historyKey)

	// Remove an existing entry so the user re-enters at the front with a
	// fresh timestamp.
	kept := entries[:0]
	for _, entry := range entries {
		if entry.ID != user.ID {
			kept = append(kept, entry)
		}
	}

	updated := append([]domain.SavedEntry{domain.NewSavedEntry(user, r.now())}, kept...)
	if len(updated) > HistoryLimit {
		updated = updated[:HistoryLimit]
	}
	return r.persist(ctx, historyKey, updated)
}

func (r *KV) CompactHistory(ctx context.Context) error {
	entries := r.load(ctx, historyKey)
	if len(entries) <= HistoryLimit {
		return nil
	}
	sortByRecordedAtDesc(entries)
	return r.persist(ctx, historyKey, entries[:HistoryLimit])
}

func (r *KV) load(ctx context.Context, key string) []domain.SavedEntry {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			r.logger.Warn("Failed to read list, treating as empty", "key", key, "error", err)
		}
		return nil
	}

	var entries []domain.SavedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.logger.Warn("Discarding undecodable list", "key", key, "error", err)
		return nil
	}
	return entries
}

func (r *KV) persist(ctx context.Context, key string, entries []domain.SavedEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, key, data)
}

func sortByRecordedAtDesc(entries []domain.SavedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RecordedAt.After(entries[j].RecordedAt)
	})
}
