// Package services contains the application services of the story client:
// the sync/reconciliation engine, the favorites subsystem, and auth.
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/storyshare/client/internal/client/client"
	"github.com/storyshare/client/internal/client/models"
	"github.com/storyshare/client/internal/client/repositories/metadata"
	"github.com/storyshare/client/internal/client/repositories/pending"
	"github.com/storyshare/client/internal/client/repositories/stories"
	"github.com/storyshare/client/internal/common"
	"github.com/storyshare/client/internal/logging"
	"github.com/storyshare/client/internal/netx"
)

const (
	msgFromCache       = "stories retrieved from cache"
	msgDetailFromCache = "story retrieved from cache"
	msgNotFound        = "story not found"
	msgSavedOffline    = "story saved offline and will be submitted when online"

	metaRefreshAfterAdd = "refresh_after_add"
)

// LoadOptions controls a story list load.
type LoadOptions struct {
	// LocationOnly restricts the feed to stories with coordinates.
	LocationOnly bool
	// ForceRefresh surfaces remote failures instead of serving cached rows.
	ForceRefresh bool
}

// CreateListener observes successful online story creations. Listeners hang
// off the core so notification collaborators can subscribe without the
// creation path knowing about them.
type CreateListener func(ctx context.Context, id string)

// StoryService is the sync/reconciliation engine. It is the only writer that
// reconciles favorite flags: the server is the source of truth for story
// content, the device for favorite status.
type StoryService interface {
	LoadStories(ctx context.Context, opts LoadOptions) *models.StoryList
	LoadStoryDetail(ctx context.Context, id string) *models.StoryDetail
	SubmitStory(ctx context.Context, story models.NewStory) *models.CreateResult
	DrainPending(ctx context.Context) ([]models.DrainResult, error)
	RefreshLocal(ctx context.Context) error
	ClearLocal(ctx context.Context) error
	RegisterCreateListener(l CreateListener)

	// ConsumeRefreshFlag reports whether a story was created since the last
	// list load and clears the flag, so the next feed render can skip stale
	// cached rows.
	ConsumeRefreshFlag(ctx context.Context) bool
}

type storyService struct {
	api      client.Client
	store    stories.Repository
	queue    pending.Repository
	meta     metadata.Repository
	online   netx.Checker
	log      logging.Logger
	spoolDir string
	pageSize int

	group   singleflight.Group
	drainMu sync.Mutex

	listenerMu sync.Mutex
	listeners  []CreateListener
}

// NewStoryService wires the engine. spoolDir receives photo bytes of queued
// submissions; pageSize <= 0 defaults to 10.
func NewStoryService(api client.Client, store stories.Repository, queue pending.Repository,
	meta metadata.Repository, online netx.Checker, spoolDir string, pageSize int, log logging.Logger) StoryService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &storyService{
		api:      api,
		store:    store,
		queue:    queue,
		meta:     meta,
		online:   online,
		log:      log,
		spoolDir: spoolDir,
		pageSize: pageSize,
	}
}

// LoadStories is remote-first: a fresh page when the gateway answers, the
// local snapshot otherwise. Identical concurrent loads collapse into one
// remote call.
func (s *storyService) LoadStories(ctx context.Context, opts LoadOptions) *models.StoryList {
	key := fmt.Sprintf("list:%t:%t", opts.LocationOnly, opts.ForceRefresh)
	v, _, _ := s.group.Do(key, func() (any, error) {
		return s.loadStories(ctx, opts), nil
	})
	return v.(*models.StoryList)
}

func (s *storyService) loadStories(ctx context.Context, opts LoadOptions) *models.StoryList {
	remote := s.api.ListStories(ctx, client.ListOptions{
		Page:         1,
		Size:         s.pageSize,
		LocationOnly: opts.LocationOnly,
	})

	if !remote.Error {
		remote.Stories = s.overlayFavorites(ctx, remote.Stories)

		// Persist only the favorited subset; read-only browsing must not grow
		// the local store.
		for i := range remote.Stories {
			if remote.Stories[i].Favorited {
				s.store.Save(ctx, &remote.Stories[i])
			}
		}
		return remote
	}

	if opts.ForceRefresh {
		s.log.Warn(ctx, "forced refresh failed", "message", remote.Message)
		return remote
	}

	s.log.Info(ctx, "remote list failed, serving local snapshot", "message", remote.Message)
	cached := s.store.GetAll(ctx)
	return &models.StoryList{
		Error:     false,
		Message:   msgFromCache,
		Stories:   cached,
		FromCache: true,
	}
}

// overlayFavorites stamps locally-known favorite flags onto freshly fetched
// stories. Fetched content wins for every other field.
func (s *storyService) overlayFavorites(ctx context.Context, fresh []models.Story) []models.Story {
	known := s.store.GetAll(ctx)
	favorited := make(map[string]bool, len(known))
	for _, st := range known {
		if st.Favorited {
			favorited[st.ID] = true
		}
	}

	for i := range fresh {
		fresh[i].Favorited = favorited[fresh[i].ID]
	}
	return fresh
}

// LoadStoryDetail follows the same two-path structure at single-record
// granularity. Unfavorited detail views are not persisted.
func (s *storyService) LoadStoryDetail(ctx context.Context, id string) *models.StoryDetail {
	remote := s.api.GetStory(ctx, id)

	if !remote.Error && remote.Story != nil {
		fav := false
		if local, err := s.store.GetByID(ctx, id); err == nil {
			fav = local.Favorited
		}
		remote.Story.Favorited = fav
		if fav {
			s.store.Save(ctx, remote.Story)
		}
		return remote
	}

	local, err := s.store.GetByID(ctx, id)
	if err == nil {
		return &models.StoryDetail{
			Error:     false,
			Message:   msgDetailFromCache,
			Story:     local,
			FromCache: true,
		}
	}

	return &models.StoryDetail{
		Error:   true,
		Message: msgNotFound,
		Story:   nil,
	}
}

// SubmitStory never loses a submission to transient connectivity: when the
// device is offline or the backend is unreachable, the attempt is captured in
// the pending queue and reported as a non-fatal saved-offline outcome. An
// explicit backend rejection is surfaced as-is.
func (s *storyService) SubmitStory(ctx context.Context, story models.NewStory) *models.CreateResult {
	if !s.online.Online(ctx) {
		s.log.Info(ctx, "offline, queueing story submission")
		return s.enqueue(ctx, story)
	}

	res := s.api.CreateStory(ctx, story)
	if res.Error && res.Unreachable {
		s.log.Info(ctx, "create failed in transit, queueing story submission", "message", res.Message)
		return s.enqueue(ctx, story)
	}

	if !res.Error {
		if err := s.meta.Set(ctx, metaRefreshAfterAdd, []byte("true")); err != nil {
			s.log.Warn(ctx, "failed to set refresh flag", "err", err)
		}
		s.notifyCreated(ctx, res.ID)
	}
	return res
}

func (s *storyService) enqueue(ctx context.Context, story models.NewStory) *models.CreateResult {
	now := time.Now()
	id := fmt.Sprintf("pending-%d-%s", now.UnixMilli(), uuid.NewString()[:8])

	photoPath := ""
	if len(story.Photo) > 0 {
		photoPath = filepath.Join(s.spoolDir, id+filepath.Ext(defaultPhotoName(story.PhotoName)))
		if err := os.WriteFile(photoPath, story.Photo, 0o660); err != nil {
			s.log.Error(ctx, "failed to spool photo", "err", err)
			return &models.CreateResult{Error: true, Message: "failed to save story offline"}
		}
	}

	p := &models.PendingStory{
		ID:          id,
		Description: story.Description,
		PhotoPath:   photoPath,
		Lat:         story.Lat,
		Lon:         story.Lon,
		CreatedAt:   now.UnixMilli(),
	}
	if err := s.queue.Add(ctx, p); err != nil {
		s.log.Error(ctx, "failed to enqueue pending submission", "err", err)
		return &models.CreateResult{Error: true, Message: "failed to save story offline"}
	}

	return &models.CreateResult{
		Error:   false,
		Message: msgSavedOffline,
		Queued:  true,
	}
}

func defaultPhotoName(name string) string {
	if name == "" {
		return "photo.jpg"
	}
	return name
}

// DrainPending replays queued submissions in insertion order. Entries are
// removed only on confirmed success; one entry's failure never aborts the
// rest. A drain that overlaps a running one returns ErrDrainInProgress and
// leaves the queue untouched.
func (s *storyService) DrainPending(ctx context.Context) ([]models.DrainResult, error) {
	if !s.drainMu.TryLock() {
		return nil, common.ErrDrainInProgress
	}
	defer s.drainMu.Unlock()

	entries, err := s.queue.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending queue: %w", err)
	}

	results := make([]models.DrainResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, s.replay(ctx, e))
	}
	return results, nil
}

func (s *storyService) replay(ctx context.Context, e models.PendingStory) models.DrainResult {
	var photo []byte
	var photoName string
	if e.PhotoPath != "" {
		b, err := os.ReadFile(e.PhotoPath)
		if err != nil {
			s.log.Warn(ctx, "spooled photo unreadable", "id", e.ID, "err", err)
			return models.DrainResult{ID: e.ID, Success: false, Message: "spooled photo unreadable"}
		}
		photo = b
		photoName = filepath.Base(e.PhotoPath)
	}

	res := s.api.CreateStory(ctx, models.NewStory{
		Description: e.Description,
		Photo:       photo,
		PhotoName:   photoName,
		Lat:         e.Lat,
		Lon:         e.Lon,
	})
	if res.Error {
		return models.DrainResult{ID: e.ID, Success: false, Message: res.Message}
	}

	if _, err := s.queue.DeleteByID(ctx, e.ID); err != nil {
		// The story reached the server; keep going but flag the cleanup issue.
		s.log.Error(ctx, "failed to remove replayed entry", "id", e.ID, "err", err)
	}
	if e.PhotoPath != "" {
		_ = os.Remove(e.PhotoPath)
	}
	s.notifyCreated(ctx, res.ID)

	return models.DrainResult{ID: e.ID, Success: true, Message: res.Message}
}

// RefreshLocal re-fetches the located feed and rewrites the local snapshot,
// keeping favorite flags.
func (s *storyService) RefreshLocal(ctx context.Context) error {
	remote := s.api.ListStories(ctx, client.ListOptions{Page: 1, Size: s.pageSize, LocationOnly: true})
	if remote.Error {
		return fmt.Errorf("failed to refresh local store: %s", remote.Message)
	}

	remote.Stories = s.overlayFavorites(ctx, remote.Stories)
	for i := range remote.Stories {
		s.store.Save(ctx, &remote.Stories[i])
	}
	return nil
}

// ClearLocal wipes the durable story store. The pending queue is untouched.
func (s *storyService) ClearLocal(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *storyService) ConsumeRefreshFlag(ctx context.Context) bool {
	raw, err := s.meta.Get(ctx, metaRefreshAfterAdd)
	if err != nil {
		s.log.Warn(ctx, "failed to read refresh flag", "err", err)
		return false
	}
	if len(raw) == 0 {
		return false
	}
	if err := s.meta.Delete(ctx, metaRefreshAfterAdd); err != nil {
		s.log.Warn(ctx, "failed to clear refresh flag", "err", err)
	}
	return true
}

func (s *storyService) RegisterCreateListener(l CreateListener) {
	if l == nil {
		return
	}
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, l)
}

// notifyCreated fires registered listeners. A panicking listener is contained
// so the creation path stays clean.
func (s *storyService) notifyCreated(ctx context.Context, id string) {
	s.listenerMu.Lock()
	listeners := make([]CreateListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenerMu.Unlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if p := recover(); p != nil {
					s.log.Error(ctx, "create listener panicked", "panic", p)
				}
			}()
			l(ctx, id)
		}()
	}
}
