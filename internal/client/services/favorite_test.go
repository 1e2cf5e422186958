package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyshare/client/internal/client/models"
	"github.com/storyshare/client/internal/client/repositories/stories"
)

type fakeFetcher struct {
	res   *models.StoryDetail
	calls int
}

func (f *fakeFetcher) LoadStoryDetail(ctx context.Context, id string) *models.StoryDetail {
	f.calls++
	if f.res != nil {
		return f.res
	}
	return &models.StoryDetail{Error: true, Message: "story not found"}
}

func setupFavorites(t *testing.T) (FavoriteService, stories.Repository, *fakeFetcher) {
	t.Helper()
	store := stories.NewSQLiteRepository(setupDB(t), testLogger())
	fetcher := &fakeFetcher{}
	return NewFavoriteService(store, fetcher, testLogger()), store, fetcher
}

func TestMarkFavoriteByID_LocalRecord(t *testing.T) {
	svc, store, fetcher := setupFavorites(t)
	ctx := context.Background()

	st := remoteStory("a1")
	require.True(t, store.Save(ctx, &st))

	require.True(t, svc.MarkFavoriteByID(ctx, "a1"))
	assert.Zero(t, fetcher.calls) // no fetch when the record is already local
	assert.True(t, svc.IsFavorited(ctx, "a1"))
}

func TestMarkFavoriteByID_FetchesWhenAbsent(t *testing.T) {
	svc, store, fetcher := setupFavorites(t)
	ctx := context.Background()

	st := remoteStory("b2")
	fetcher.res = &models.StoryDetail{Error: false, Message: "ok", Story: &st}

	require.True(t, svc.MarkFavoriteByID(ctx, "b2"))
	assert.Equal(t, 1, fetcher.calls)

	stored, err := store.GetByID(ctx, "b2")
	require.NoError(t, err)
	assert.True(t, stored.Favorited)
}

func TestMarkFavoriteByID_FetchMiss(t *testing.T) {
	svc, store, _ := setupFavorites(t)
	ctx := context.Background()

	assert.False(t, svc.MarkFavoriteByID(ctx, "ghost"))
	assert.False(t, svc.MarkFavoriteByID(ctx, ""))
	assert.Empty(t, store.GetAll(ctx))
}

func TestMarkFavoriteStory_DoesNotMutateInput(t *testing.T) {
	svc, _, _ := setupFavorites(t)

	st := remoteStory("c3")
	require.True(t, svc.MarkFavoriteStory(context.Background(), &st))
	assert.False(t, st.Favorited)

	assert.False(t, svc.MarkFavoriteStory(context.Background(), nil))
	assert.False(t, svc.MarkFavoriteStory(context.Background(), &models.Story{}))
}

func TestUnmarkFavorite_DeletesLocalCopy(t *testing.T) {
	svc, store, _ := setupFavorites(t)
	ctx := context.Background()

	st := remoteStory("a1")
	require.True(t, svc.MarkFavoriteStory(ctx, &st))

	assert.True(t, svc.UnmarkFavorite(ctx, "a1"))

	// the record is gone entirely, not just unflagged
	assert.Empty(t, store.GetAll(ctx))
	assert.False(t, svc.IsFavorited(ctx, "a1"))

	// unmarking an unknown id reports false, not an error
	assert.False(t, svc.UnmarkFavorite(ctx, "a1"))
	assert.False(t, svc.UnmarkFavorite(ctx, ""))
}

func TestListFavorites(t *testing.T) {
	svc, store, _ := setupFavorites(t)
	ctx := context.Background()

	a := remoteStory("a")
	b := remoteStory("b")
	require.True(t, store.Save(ctx, &a))
	require.True(t, svc.MarkFavoriteStory(ctx, &b))

	favs := svc.ListFavorites(ctx)
	require.Len(t, favs, 1)
	assert.Equal(t, "b", favs[0].ID)
}

func TestIsFavorited_DefaultsFalse(t *testing.T) {
	svc, store, _ := setupFavorites(t)
	ctx := context.Background()

	assert.False(t, svc.IsFavorited(ctx, "missing"))

	st := remoteStory("a1")
	require.True(t, store.Save(ctx, &st))
	assert.False(t, svc.IsFavorited(ctx, "a1"))
}
