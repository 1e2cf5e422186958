package services

import (
	"context"
	"errors"

	"github.com/storyshare/client/internal/client/models"
	"github.com/storyshare/client/internal/client/repositories/stories"
	"github.com/storyshare/client/internal/common"
	"github.com/storyshare/client/internal/logging"
)

// DetailFetcher is the slice of the sync engine the favorites subsystem needs:
// fetching a story that is not yet available locally.
type DetailFetcher interface {
	LoadStoryDetail(ctx context.Context, id string) *models.StoryDetail
}

// FavoriteService exposes favorites as a distinct capability over the durable
// store. Favoriting pins a story for offline availability; unfavoriting
// deletes the local copy entirely, so the store only ever holds records the
// user actively wants offline.
type FavoriteService interface {
	// MarkFavoriteByID favorites a story by id, fetching it through the
	// engine's detail path when it is not stored locally yet.
	MarkFavoriteByID(ctx context.Context, id string) bool

	// MarkFavoriteStory favorites an already-materialized story record.
	MarkFavoriteStory(ctx context.Context, story *models.Story) bool

	// UnmarkFavorite deletes the local copy and reports whether one existed.
	// Unmarking an unknown id is false, not an error.
	UnmarkFavorite(ctx context.Context, id string) bool

	ListFavorites(ctx context.Context) []models.Story

	// IsFavorited reports the stored flag, defaulting to false on a miss.
	IsFavorited(ctx context.Context, id string) bool
}

type favoriteService struct {
	store   stories.Repository
	fetcher DetailFetcher
	log     logging.Logger
}

// NewFavoriteService builds the favorites subsystem on the given store and
// detail fetcher (normally the story service).
func NewFavoriteService(store stories.Repository, fetcher DetailFetcher, log logging.Logger) FavoriteService {
	return &favoriteService{store: store, fetcher: fetcher, log: log}
}

func (f *favoriteService) MarkFavoriteByID(ctx context.Context, id string) bool {
	if id == "" {
		f.log.Warn(ctx, "cannot favorite story without id")
		return false
	}

	story, err := f.store.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			f.log.Error(ctx, "favorite lookup failed", "id", id, "err", err)
			return false
		}
		detail := f.fetcher.LoadStoryDetail(ctx, id)
		if detail.Error || detail.Story == nil {
			f.log.Warn(ctx, "could not retrieve story for favoriting", "id", id, "message", detail.Message)
			return false
		}
		story = detail.Story
	}

	return f.MarkFavoriteStory(ctx, story)
}

func (f *favoriteService) MarkFavoriteStory(ctx context.Context, story *models.Story) bool {
	if story == nil || story.ID == "" {
		f.log.Warn(ctx, "cannot favorite invalid story record")
		return false
	}

	marked := *story
	marked.Favorited = true
	return f.store.Save(ctx, &marked)
}

func (f *favoriteService) UnmarkFavorite(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	removed, err := f.store.DeleteByID(ctx, id)
	if err != nil {
		f.log.Error(ctx, "failed to unfavorite story", "id", id, "err", err)
		return false
	}
	return removed
}

func (f *favoriteService) ListFavorites(ctx context.Context) []models.Story {
	return f.store.GetFavorites(ctx)
}

func (f *favoriteService) IsFavorited(ctx context.Context, id string) bool {
	story, err := f.store.GetByID(ctx, id)
	if err != nil {
		return false
	}
	return story.Favorited
}
