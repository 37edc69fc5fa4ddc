package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	return NewHistoryStore(setupTestDB(t))
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t,
		Fingerprint("SELECT * FROM users WHERE id = 1"),
		Fingerprint("SELECT * FROM users WHERE id = 42"))
	assert.NotEqual(t,
		Fingerprint("SELECT * FROM users"),
		Fingerprint("SELECT * FROM airlogs"))
	assert.Equal(t, Fingerprint("-- readme"), Fingerprint("-- readme"))
}

func TestHistoryStore_AddAndRecent(t *testing.T) {
	s := setupTestHistoryStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Add(ctx, HistoryEntry{TabID: "tab-2", TabTitle: "query-one", SQL: "SELECT * FROM airlogs;", ExecutedAt: base, Duration: 1500 * time.Microsecond, RowCount: 24}))
	require.NoError(t, s.Add(ctx, HistoryEntry{TabID: "tab-5", SQL: "  SELECT * from ufotable;  ", ExecutedAt: base.Add(time.Minute), Error: "Query failed: Table not found."}))
	require.NoError(t, s.Add(ctx, HistoryEntry{SQL: "   "}))

	entries, err := s.GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "SELECT * from ufotable;", entries[0].SQL)
	assert.True(t, entries[0].Failed())
	assert.Equal(t, "query-one", entries[1].TabTitle)
	assert.Equal(t, 24, entries[1].RowCount)
	assert.Equal(t, 1500*time.Microsecond, entries[1].Duration)
	assert.True(t, entries[1].ExecutedAt.Equal(base))
}

func TestHistoryStore_DeduplicatesByFingerprint(t *testing.T) {
	s := setupTestHistoryStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Add(ctx, HistoryEntry{SQL: "SELECT * FROM users WHERE id = 1", ExecutedAt: base}))
	require.NoError(t, s.Add(ctx, HistoryEntry{SQL: "SELECT 1", ExecutedAt: base.Add(time.Second)}))
	require.NoError(t, s.Add(ctx, HistoryEntry{SQL: "SELECT * FROM users WHERE id = 2", ExecutedAt: base.Add(2 * time.Second)}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	entries, err := s.GetRecent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE id = 2", entries[0].SQL)
	assert.Equal(t, 2, entries[0].Runs)
	assert.Equal(t, 1, entries[1].Runs)
}

func TestHistoryStore_Search(t *testing.T) {
	s := setupTestHistoryStore(t)
	ctx := context.Background()

	for i, q := range []string{"SELECT * FROM airlogs", "SELECT * FROM users", "select name from USERS u"} {
		require.NoError(t, s.Add(ctx, HistoryEntry{SQL: q, ExecutedAt: time.Unix(int64(1000+i), 0)}))
	}

	entries, err := s.Search(ctx, "users", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = s.Search(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "select name from USERS u", entries[0].SQL)
}

func TestHistoryStore_Retention(t *testing.T) {
	s := setupTestHistoryStore(t)
	ctx := context.Background()

	for i := 0; i < historyLimit+5; i++ {
		q := fmt.Sprintf("SELECT col_%d FROM t", i)
		require.NoError(t, s.Add(ctx, HistoryEntry{SQL: q, ExecutedAt: time.Unix(int64(i), 0)}))
	}

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, historyLimit, count)

	require.NoError(t, s.Clear(ctx))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHistoryStore_StampsZeroTime(t *testing.T) {
	s := setupTestHistoryStore(t)
	fixed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Add(context.Background(), HistoryEntry{SQL: "SELECT 1"}))

	entries, err := s.GetRecent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].ExecutedAt.Equal(fixed))
}
