package cli

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storyshare/client/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSetMode(t *testing.T) {
	a := &App{log: testLogger(), mode: ModeOnline}
	ctx := context.Background()

	assert.False(t, a.setMode(ctx, ModeOnline)) // no transition
	assert.True(t, a.setMode(ctx, ModeOffline))
	assert.Equal(t, ModeOffline, a.Mode())
	assert.Equal(t, "(offline)", a.getStatus())

	assert.True(t, a.setMode(ctx, ModeOnline))
	assert.Equal(t, "(online)", a.getStatus())
}

func TestMode_ConcurrentReadsAndWrites(t *testing.T) {
	a := &App{log: testLogger(), mode: ModeOnline}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				a.setMode(ctx, ModeOffline)
				a.setMode(ctx, ModeOnline)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = a.getStatus()
			}
		}()
	}
	wg.Wait()

	assert.Contains(t, []Mode{ModeOnline, ModeOffline}, a.Mode())
}
