package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordOutcome(context.Background(), OutcomeSent))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ContactOutcomes[OutcomeSent])
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	now := time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now.Add(-10 * 24 * time.Hour) }
	require.NoError(t, s.RecordVisit(ctx, "aaaa", "curl", "/"))

	s.now = func() time.Time { return now.Add(-3 * 24 * time.Hour) }
	require.NoError(t, s.RecordVisit(ctx, "bbbb", "firefox", "/"))

	s.now = func() time.Time { return now }
	require.NoError(t, s.RecordVisit(ctx, "aaaa", "curl", "/"))
	require.NoError(t, s.RecordDownload(ctx, "cv-resume.pdf", "aaaa"))
	require.NoError(t, s.RecordClick(ctx, "christmas-card", "demo"))
	require.NoError(t, s.RecordClick(ctx, "christmas-card", "demo"))
	require.NoError(t, s.RecordClick(ctx, "task-manager", "github"))
	require.NoError(t, s.RecordOutcome(ctx, OutcomeSent))
	require.NoError(t, s.RecordOutcome(ctx, OutcomeFailed))
	require.NoError(t, s.RecordOutcome(ctx, OutcomeFailed))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalVisitors)
	assert.Equal(t, int64(2), stats.UniqueVisitors)
	assert.Equal(t, int64(1), stats.VisitorsToday)
	assert.Equal(t, int64(2), stats.VisitorsThisWeek)
	assert.Equal(t, int64(1), stats.ResumeDownloads)
	assert.Equal(t, int64(3), stats.TotalClicks)
	assert.Equal(t, int64(1), stats.ContactOutcomes[OutcomeSent])
	assert.Equal(t, int64(2), stats.ContactOutcomes[OutcomeFailed])

	require.Len(t, stats.TopLinks, 2)
	assert.Equal(t, "christmas-card", stats.TopLinks[0].Slug)
	assert.Equal(t, int64(2), stats.TopLinks[0].Clicks)

	require.Len(t, stats.RecentVisitors, 3)
	assert.Equal(t, now, stats.RecentVisitors[0].Timestamp)
}

func TestClicks(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Clicks(ctx, "christmas-card", "github")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.RecordClick(ctx, "christmas-card", "github"))
	clicks, err := s.Clicks(ctx, "christmas-card", "github")
	require.NoError(t, err)
	assert.Equal(t, int64(1), clicks)
}

func TestCleanupVisitors(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now.AddDate(-2, 0, 0) }
	require.NoError(t, s.RecordVisit(ctx, "old", "", "/"))
	s.now = func() time.Time { return now }
	require.NoError(t, s.RecordVisit(ctx, "new", "", "/"))

	removed, err := s.CleanupVisitors(ctx, 365*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	visits, err := s.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "new", visits[0].HashedIP)
}
