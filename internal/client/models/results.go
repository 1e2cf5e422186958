package models

// Result envelopes mirror the backend's JSON shape: every response carries an
// error flag and a human-readable message. The gateway folds transport
// failures into the same shape, so callers never see a raw network error.
// Fields tagged "-" are client-side annotations, never part of the wire.

// StoryList is the envelope for list loads.
type StoryList struct {
	Error   bool    `json:"error"`
	Message string  `json:"message"`
	Stories []Story `json:"listStory"`

	// FromCache marks a response served from the local store.
	FromCache bool `json:"-"`
	// Unreachable classifies the failure as transport-level (network, parse,
	// timeout) as opposed to an explicit backend rejection.
	Unreachable bool `json:"-"`
}

// StoryDetail is the envelope for single-story loads.
type StoryDetail struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Story   *Story `json:"story"`

	FromCache   bool `json:"-"`
	Unreachable bool `json:"-"`
}

// CreateResult is the envelope for story creation.
type CreateResult struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`

	// Queued marks the saved-offline outcome: the submission was captured in
	// the pending queue instead of reaching the backend.
	Queued      bool `json:"-"`
	Unreachable bool `json:"-"`
}

// LoginPayload is the nested auth payload of the login response.
type LoginPayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

// AuthResult is the envelope for login and register calls.
type AuthResult struct {
	Error   bool          `json:"error"`
	Message string        `json:"message"`
	Login   *LoginPayload `json:"loginResult,omitempty"`

	Unreachable bool `json:"-"`
}
