package cli

import (
	"bufio"
	"context"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/storyshare/client/internal/client/client"
	"github.com/storyshare/client/internal/client/config"
	"github.com/storyshare/client/internal/client/services"
	"github.com/storyshare/client/internal/filex"
	"github.com/storyshare/client/internal/logging"
	"github.com/storyshare/client/internal/netx"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App wires the story client services behind a small REPL.
type App struct {
	config       *config.Config
	api          client.Client
	authService  services.AuthService
	storyService services.StoryService
	favorites    services.FavoriteService
	log          logging.Logger
	reader       *bufio.Reader

	// mode is written by the watcher goroutine and read by the REPL prompt.
	modeMu sync.Mutex
	mode   Mode
}

// Mode returns the current connectivity mode.
func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := client.InitDatabase(ctx, c.DatabasePath, log)
	if err != nil {
		log.Error(ctx, "error initializing database", "err", err)
		return nil, err
	}

	spoolDir, err := filex.EnsureSubDir("", "queue-photos")
	if err != nil {
		return nil, err
	}

	// The gateway needs the credential provider and the auth service needs the
	// gateway; the closure breaks the cycle.
	var authService services.AuthService
	api := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, func(ctx context.Context) string {
		if authService == nil {
			return ""
		}
		return authService.Token(ctx)
	}, log)
	authService = services.NewAuthService(api, repos.Metadata, log)

	online := netx.CheckerFunc(func(ctx context.Context) bool {
		return api.Ping(ctx) == nil
	})

	storyService := services.NewStoryService(api, repos.Stories, repos.Pending, repos.Metadata,
		online, spoolDir, c.PageSize, log)
	favorites := services.NewFavoriteService(repos.Stories, storyService, log)

	// Push-notification plumbing lives outside the core; it subscribes here.
	storyService.RegisterCreateListener(func(ctx context.Context, id string) {
		log.Info(ctx, "story created", "id", id)
	})

	return &App{
		config:       c,
		api:          api,
		authService:  authService,
		storyService: storyService,
		favorites:    favorites,
		log:          log,
		mode:         ModeOnline,
		reader:       bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

// setMode updates the connectivity mode and reports whether it changed.
func (a *App) setMode(ctx context.Context, mode Mode) bool {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
	return changed
}

// StartOnlineStatusWatcher polls backend reachability. Regaining connectivity
// triggers a drain of the pending submission queue.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.api.Ping(probeCtx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
				continue
			}
			if a.setMode(ctx, ModeOnline) {
				// connectivity just came back; replay the queue
				a.drain(ctx)
			}

		case <-ctx.Done():
			return
		}
	}
}
