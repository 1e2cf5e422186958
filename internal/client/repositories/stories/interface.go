package stories

import (
	"context"

	"github.com/storyshare/client/internal/client/models"
)

// Repository is the durable on-device story store, keyed by story id.
//
// Read and write operations degrade instead of failing: Save reports success
// as a bool, GetAll and GetFavorites return an empty slice when the underlying
// store misbehaves. Browser-style storage eviction therefore shows up as "no
// data", never as a fatal error.
type Repository interface {
	// Save upserts a story by id. A story without an id, or a store failure,
	// yields false.
	Save(ctx context.Context, story *models.Story) bool

	// GetAll returns the full snapshot in insertion order.
	GetAll(ctx context.Context) []models.Story

	// GetByID returns common.ErrNotFound when the id is absent.
	GetByID(ctx context.Context, id string) (*models.Story, error)

	// DeleteByID removes a story and reports whether a row existed. Deleting
	// an absent id is (false, nil), not an error.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// Clear removes all stories.
	Clear(ctx context.Context) error

	// GetFavorites returns stories with the favorited flag set, preferring the
	// favorites index and falling back to a full scan when the index is
	// unavailable.
	GetFavorites(ctx context.Context) []models.Story
}
