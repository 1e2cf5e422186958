package pending

import (
	"context"

	"github.com/storyshare/client/internal/client/models"
)

// Repository persists story submissions captured while offline. It is kept
// separate from the story store: queue rows are replay instructions, not
// stories, and their lifecycle is bound to drain outcomes only.
type Repository interface {
	// Add appends a pending submission. The entry is durable once Add returns.
	Add(ctx context.Context, p *models.PendingStory) error

	// GetAll returns pending submissions in insertion order.
	GetAll(ctx context.Context) ([]models.PendingStory, error)

	// DeleteByID removes a replayed entry; removing an absent id is (false, nil).
	DeleteByID(ctx context.Context, id string) (bool, error)

	// Count reports the queue length.
	Count(ctx context.Context) (int, error)
}
