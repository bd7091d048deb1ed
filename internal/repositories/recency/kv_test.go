package recency

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/orgball2608/insta-profile-viewer/internal/domain"
	"github.com/orgball2608/insta-profile-viewer/internal/repositories/kvstore"
	"github.com/orgball2608/insta-profile-viewer/internal/repositories/kvstore/mocks"
	"github.com/orgball2608/insta-profile-viewer/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRepo(t *testing.T) (*KV, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	repo := NewKV(kvstore.NewMemory(), logger.New(logger.Opts{}))
	repo.now = clk.Now
	return repo, clk
}

// clock hands out strictly increasing timestamps.
type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func testUser(i int) domain.User {
	return domain.User{
		ID:       fmt.Sprintf("id-%d", i),
		Username: fmt.Sprintf("user%d", i),
	}
}

func TestSaveAndListSaved(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testUser(1)))
	require.NoError(t, repo.Save(ctx, testUser(2)))

	entries, err := repo.ListSaved(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Most recently recorded first.
	assert.Equal(t, "id-2", entries[0].ID)
	assert.Equal(t, "id-1", entries[1].ID)
}

func TestSaveIsIdempotentPerID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testUser(1)))
	first, err := repo.ListSaved(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, testUser(1)))
	second, err := repo.ListSaved(ctx)
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].RecordedAt, second[0].RecordedAt)
}

func TestUnsave(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testUser(1)))
	require.NoError(t, repo.Unsave(ctx, "id-1"))

	saved, err := repo.IsSaved(ctx, "id-1")
	require.NoError(t, err)
	assert.False(t, saved)

	// Absent id is a no-op.
	require.NoError(t, repo.Unsave(ctx, "id-404"))
}

func TestRecordViewCapsHistoryAtSeven(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 1; i <= 8; i++ {
		require.NoError(t, repo.RecordView(ctx, testUser(i)))
	}

	entries, err := repo.ListHistory(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, HistoryLimit)

	// Most recent first; the oldest view (user 1) was evicted.
	assert.Equal(t, "id-8", entries[0].ID)
	assert.Equal(t, "id-2", entries[len(entries)-1].ID)
	for _, entry := range entries {
		assert.NotEqual(t, "id-1", entry.ID)
	}
}

func TestRecordViewMovesExistingToFront(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.RecordView(ctx, testUser(i)))
	}
	require.NoError(t, repo.RecordView(ctx, testUser(1)))

	entries, err := repo.ListHistory(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "id-1", entries[0].ID)
}

func TestListHistoryExcludesSavedIDs(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.RecordView(ctx, testUser(i)))
	}

	entries, err := repo.ListHistory(ctx, map[string]struct{}{"id-2": {}})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.NotEqual(t, "id-2", entry.ID)
	}
}

func TestCompactHistoryReappliesCap(t *testing.T) {
	repo, clk := newTestRepo(t)
	ctx := context.Background()

	// Simulate an external writer that overgrew the list.
	var entries []domain.SavedEntry
	for i := 1; i <= 10; i++ {
		entries = append(entries, domain.NewSavedEntry(testUser(i), clk.Now()))
	}
	require.NoError(t, repo.persist(ctx, historyKey, entries))

	require.NoError(t, repo.CompactHistory(ctx))

	after, err := repo.ListHistory(ctx, nil)
	require.NoError(t, err)
	require.Len(t, after, HistoryLimit)
	assert.Equal(t, "id-10", after[0].ID)
}

func TestUnreadableStoreDegradesToEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("disk on fire")).AnyTimes()

	repo := NewKV(store, logger.New(logger.Opts{}))

	entries, err := repo.ListSaved(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	saved, err := repo.IsSaved(context.Background(), "id-1")
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestUndecodableListDegradesToEmpty(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), savedUsersKey, []byte("{not json")))

	repo := NewKV(store, logger.New(logger.Opts{}))

	entries, err := repo.ListSaved(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
