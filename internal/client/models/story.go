// Package models defines client-side data models for the story app.
package models

import "time"

// Story is a single shared story as held on this device.
//
// Content fields mirror the server payload; Favorited is a client-only flag
// marking the story for guaranteed offline availability. It never appears in
// server payloads, so a record fresh from the API always starts unfavorited.
type Story struct {
	// ID is the globally unique, server-assigned identifier.
	ID string `json:"id"`

	// Name is the author's display name.
	Name string `json:"name"`

	Description string `json:"description"`

	// PhotoURL points at the story photo on the server.
	PhotoURL string `json:"photoUrl"`

	// Lat and Lon are optional geolocation coordinates.
	Lat *float64 `json:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty"`

	CreatedAt time.Time `json:"createdAt"`

	// Favorited is local state only, owned by the durable store.
	Favorited bool `json:"-"`
}

// NewStory is the payload for a story creation attempt.
type NewStory struct {
	Description string
	// Photo holds the raw image bytes; PhotoName is the multipart filename.
	Photo     []byte
	PhotoName string
	Lat       *float64
	Lon       *float64
}
