package client

import (
	"context"

	"github.com/storyshare/client/internal/client/models"
)

// ListOptions selects a page of the story feed.
type ListOptions struct {
	Page int
	Size int
	// LocationOnly restricts the feed to stories carrying coordinates.
	LocationOnly bool
}

// Client is the remote story gateway. Every method returns a normalized
// envelope: transport failures (unreachable host, timeout, malformed body)
// are folded into Error=true / Unreachable=true results instead of being
// raised, so callers branch on the envelope, never on exceptions.
type Client interface {
	ListStories(ctx context.Context, opts ListOptions) *models.StoryList
	GetStory(ctx context.Context, id string) *models.StoryDetail
	CreateStory(ctx context.Context, story models.NewStory) *models.CreateResult

	Login(ctx context.Context, email, password string) *models.AuthResult
	Register(ctx context.Context, name, email, password string) *models.AuthResult

	// Ping is a cheap reachability probe for the online-status watcher.
	Ping(ctx context.Context) error
}

// TokenProvider supplies the optional bearer token. An empty string means
// anonymous mode: reads stay unauthenticated and creates go to the guest
// endpoint.
type TokenProvider func(ctx context.Context) string
