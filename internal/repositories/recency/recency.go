// Package recency maintains the saved-users and recently-viewed lists over
// the durable key-value store.
package recency

import (
	"context"

	"github.com/orgball2608/insta-profile-viewer/internal/domain"
)

const (
	savedUsersKey = "savedUsers"
	historyKey    = "viewedUsersHistory"

	// HistoryLimit caps the recently-viewed list; the oldest entry beyond it
	// is permanently dropped.
	HistoryLimit = 7
)

//go:generate go run go.uber.org/mock/mockgen -source=recency.go -destination=mocks/mock.go -package=mocks
type Repository interface {
	// ListSaved returns saved entries, most recently recorded first.
	ListSaved(ctx context.Context) ([]domain.SavedEntry, error)
	// Save appends the user unless an entry with the same id exists.
	Save(ctx context.Context, user domain.User) error
	// Unsave removes the entry with the given id; no-op when absent.
	Unsave(ctx context.Context, id string) error
	IsSaved(ctx context.Context, id string) (bool, error)
	// ListHistory returns viewed entries excluding the given ids, most
	// recently recorded first.
	ListHistory(ctx context.Context, excluding map[string]struct{}) ([]domain.SavedEntry, error)
	// RecordView moves the user to the front of the history with a fresh
	// timestamp and truncates the list to HistoryLimit.
	RecordView(ctx context.Context, user domain.User) error
	// CompactHistory re-applies the cap; concurrent external writers may
	// have grown the list past it.
	CompactHistory(ctx context.Context) error
}
