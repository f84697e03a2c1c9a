package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blacktie/storefront/internal/domain"
	"github.com/blacktie/storefront/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	getErr error
	setErr error
}

func (s failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, s.getErr
}

func (s failingStore) Set(context.Context, string, string) error {
	return s.setErr
}

func TestKVHeroRepository_CurrentURL(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewHeroRepository(store, nil)

	assert.Empty(t, repo.CurrentURL(ctx, domain.MediaImage))

	require.NoError(t, repo.SetCurrentURL(ctx, domain.MediaImage, "hero.jpg"))
	require.NoError(t, repo.SetCurrentURL(ctx, domain.MediaVideo, "hero.mp4"))

	assert.Equal(t, "hero.jpg", repo.CurrentURL(ctx, domain.MediaImage))
	assert.Equal(t, "hero.mp4", repo.CurrentURL(ctx, domain.MediaVideo))

	raw, _, _ := store.Get(ctx, KeyCurrentImageURL)
	assert.Equal(t, "hero.jpg", raw)
	raw, _, _ = store.Get(ctx, KeyCurrentVideoURL)
	assert.Equal(t, "hero.mp4", raw)
}

func TestKVHeroRepository_HistoryEncoding(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewHeroRepository(store, nil)

	savedAt := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	entries := []domain.HeroHistoryEntry{
		{Type: domain.MediaImage, URL: "x.jpg", SavedAt: savedAt},
		{Type: domain.MediaVideo, URL: "y.mp4", SavedAt: savedAt.Add(-time.Minute)},
	}
	require.NoError(t, repo.SaveHistory(ctx, entries))

	raw, found, err := store.Get(ctx, KeyHeroHistory)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[
		{"type":"image","url":"x.jpg","savedAt":"2024-06-15T10:30:00Z"},
		{"type":"video","url":"y.mp4","savedAt":"2024-06-15T10:29:00Z"}
	]`, raw)

	got := repo.History(ctx)
	require.Len(t, got, 2)
	assert.True(t, got[0].Identical(entries[0]))
	assert.True(t, got[1].Identical(entries[1]))
}

func TestKVHeroRepository_ReadsBrowserISOStrings(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyHeroHistory, `[{"type":"video","url":"blob:abc","savedAt":"2024-06-15T10:30:00.123Z"}]`))

	got := NewHeroRepository(store, nil).History(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, domain.MediaVideo, got[0].Type)
	assert.Equal(t, 123*time.Millisecond, time.Duration(got[0].SavedAt.Nanosecond()))
}

func TestKVHeroRepository_CorruptedHistoryFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{{{"},
		{name: "wrong shape", raw: `{"type":"image"}`},
		{name: "empty string", raw: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			require.NoError(t, store.Set(ctx, KeyHeroHistory, tc.raw))
			assert.Empty(t, NewHeroRepository(store, nil).History(ctx))
		})
	}
}

func TestKVHeroRepository_DropsUnknownTypes(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyHeroHistory, `[{"type":"gif","url":"a.gif","savedAt":"2024-06-15T10:30:00Z"},{"type":"image","url":"b.jpg","savedAt":"2024-06-15T10:30:00Z"}]`))

	got := NewHeroRepository(store, nil).History(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "b.jpg", got[0].URL)
}

func TestKVHeroRepository_ReadErrorsFallBackToEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewHeroRepository(failingStore{getErr: errors.New("connection refused")}, nil)

	assert.Empty(t, repo.History(ctx))
	assert.Empty(t, repo.CurrentURL(ctx, domain.MediaVideo))
}

func TestKVHeroRepository_WriteErrorsAreNotPersisted(t *testing.T) {
	ctx := context.Background()
	quota := errors.New("quota exceeded")
	repo := NewHeroRepository(failingStore{setErr: quota}, nil)

	err := repo.SetCurrentURL(ctx, domain.MediaImage, "a.jpg")
	assert.ErrorIs(t, err, domain.ErrNotPersisted)
	assert.ErrorIs(t, err, quota)

	err = repo.SaveHistory(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrNotPersisted)
}

func TestKVHeroRepository_SaveEmptyHistory(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, NewHeroRepository(store, nil).SaveHistory(ctx, nil))

	raw, _, _ := store.Get(ctx, KeyHeroHistory)
	assert.Equal(t, "[]", raw)
}

func TestKVHeroRepository_UnknownMediaTypeTouchesNoKey(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewHeroRepository(store, nil)

	err := repo.SetCurrentURL(ctx, domain.MediaType("gif"), "a.gif")
	assert.ErrorIs(t, err, domain.ErrUnknownMediaType)
	assert.NotErrorIs(t, err, domain.ErrNotPersisted)

	_, found, _ := store.Get(ctx, KeyCurrentImageURL)
	assert.False(t, found)
	assert.Empty(t, repo.CurrentURL(ctx, domain.MediaType("gif")))
}
