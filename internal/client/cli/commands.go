package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/storyshare/client/internal/client/models"
	"github.com/storyshare/client/internal/client/services"
	"github.com/storyshare/client/internal/common"
)

func (a *App) list(ctx context.Context, locationOnly, forceRefresh bool) {
	// A story added since the last load means the cached feed is stale.
	if a.storyService.ConsumeRefreshFlag(ctx) {
		forceRefresh = true
	}
	result := a.storyService.LoadStories(ctx, services.LoadOptions{
		LocationOnly: locationOnly,
		ForceRefresh: forceRefresh,
	})
	if result.Error {
		fmt.Println("Error:", result.Message)
		return
	}
	if result.FromCache {
		fmt.Println("(showing cached stories)")
	}
	printStories(result.Stories)
}

func (a *App) show(ctx context.Context, id string) {
	result := a.storyService.LoadStoryDetail(ctx, id)
	if result.Error {
		fmt.Println("Error:", result.Message)
		return
	}
	s := result.Story
	if result.FromCache {
		fmt.Println("(from cache)")
	}
	fmt.Printf("%s by %s\n%s\nphoto: %s\n", s.ID, s.Name, s.Description, s.PhotoURL)
	if s.Lat != nil && s.Lon != nil {
		fmt.Printf("location: %v, %v\n", *s.Lat, *s.Lon)
	}
	if s.Favorited {
		fmt.Println("favorited")
	}
}

func (a *App) add(ctx context.Context) {
	description, err := GetSimpleText(a.reader, "Description", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	photoPath, err := GetSimpleText(a.reader, "Photo file", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	photo, err := os.ReadFile(photoPath)
	if err != nil {
		fmt.Println("Error reading photo:", err)
		return
	}

	story := models.NewStory{
		Description: description,
		Photo:       photo,
		PhotoName:   filepath.Base(photoPath),
	}

	if latStr, err := GetSimpleText(a.reader, "Latitude (empty to skip)", os.Stdout); err == nil && latStr != "" {
		lonStr, err := GetSimpleText(a.reader, "Longitude", os.Stdout)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lon, errLon := strconv.ParseFloat(lonStr, 64)
		if errLat != nil || errLon != nil {
			fmt.Println("Invalid coordinates, skipping location")
		} else {
			story.Lat, story.Lon = &lat, &lon
		}
	}

	result := a.storyService.SubmitStory(ctx, story)
	if result.Error {
		fmt.Println("Error:", result.Message)
		return
	}
	if result.Queued {
		fmt.Println("Saved offline; it will be submitted when the connection returns.")
		return
	}
	fmt.Println("Story submitted.")
}

func (a *App) favorite(ctx context.Context, id string) {
	if a.favorites.MarkFavoriteByID(ctx, id) {
		fmt.Println("Favorited", id)
		return
	}
	fmt.Println("Could not favorite", id)
}

func (a *App) unfavorite(ctx context.Context, id string) {
	if a.favorites.UnmarkFavorite(ctx, id) {
		fmt.Println("Removed", id, "from favorites")
		return
	}
	fmt.Println("Nothing to remove for", id)
}

func (a *App) listFavorites(ctx context.Context) {
	printStories(a.favorites.ListFavorites(ctx))
}

func (a *App) drain(ctx context.Context) {
	results, err := a.storyService.DrainPending(ctx)
	if err != nil {
		if errors.Is(err, common.ErrDrainInProgress) {
			fmt.Println("A drain is already running.")
			return
		}
		fmt.Println("Error:", err)
		return
	}
	if len(results) == 0 {
		fmt.Println("No pending submissions.")
		return
	}
	for _, r := range results {
		status := "failed"
		if r.Success {
			status = "submitted"
		}
		fmt.Printf("%s: %s (%s)\n", r.ID, status, r.Message)
	}
}

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	result := a.authService.Login(ctx, email, password)
	if result.Error {
		fmt.Println("Login failed:", result.Message)
		return
	}
	fmt.Println("Logged in as", result.Login.Name)
}

func (a *App) register(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	result := a.authService.Register(ctx, name, email, password)
	if result.Error {
		fmt.Println("Registration failed:", result.Message)
		return
	}
	fmt.Println("Registered. You can log in now.")
}

func (a *App) logout(ctx context.Context) {
	if err := a.authService.Logout(ctx); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Logged out.")
}

func (a *App) clearLocal(ctx context.Context) {
	if err := a.storyService.ClearLocal(ctx); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Local story store cleared.")
}

func printStories(list []models.Story) {
	if len(list) == 0 {
		fmt.Println("No stories.")
		return
	}
	for _, s := range list {
		fav := ""
		if s.Favorited {
			fav = " *"
		}
		fmt.Printf("%s  %s: %s%s\n", s.ID, s.Name, s.Description, fav)
	}
}
