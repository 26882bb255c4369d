package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ihildy/weekhours/internal/week"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "weekhours.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadDraftMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadDraft(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestSaveAndLoadDraft(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w, _ := week.NewEmptyWeek().UpdateSession(0, 0, week.FieldCheckIn, "09:00")
	w, _ = w.RemoveSession(6, 0)
	require.NoError(t, s.SaveDraft(ctx, Draft{UserID: 3, RecordID: 8, WeekStart: "2026-10-12", Week: w}))

	got, err := s.LoadDraft(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.RecordID)
	assert.Equal(t, "2026-10-12", got.WeekStart)
	assert.Equal(t, "09:00", got.Week[0].Sessions[0].CheckIn)
	assert.Empty(t, got.Week[6].Sessions)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestSaveDraftOverwritesWholesale(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, _ := week.NewEmptyWeek().AddSession(2)
	require.NoError(t, s.SaveDraft(ctx, Draft{UserID: 1, WeekStart: "2026-10-12", Week: first}))
	require.NoError(t, s.SaveDraft(ctx, Draft{UserID: 1, RecordID: 4, WeekStart: "2026-10-19", Week: week.NewEmptyWeek()}))

	got, err := s.LoadDraft(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", got.WeekStart)
	assert.Len(t, got.Week[2].Sessions, 1)
}

func TestDraftsAreIsolatedPerUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, Draft{UserID: 1, WeekStart: "a", Week: week.NewEmptyWeek()}))
	require.NoError(t, s.SaveDraft(ctx, Draft{UserID: 2, WeekStart: "b", Week: week.NewEmptyWeek()}))
	require.NoError(t, s.DeleteDraft(ctx, 1))

	_, err := s.LoadDraft(ctx, 1)
	assert.ErrorIs(t, err, ErrNoDraft)
	got, err := s.LoadDraft(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "b", got.WeekStart)
}

func TestSaveDraftRequiresUser(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.SaveDraft(context.Background(), Draft{Week: week.NewEmptyWeek()}))
}
