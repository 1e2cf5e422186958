package models

// PendingStory is a story creation attempt captured while the backend was
// unreachable. It survives restarts and is replayed by the drain loop.
type PendingStory struct {
	// ID is locally generated and time-derived, e.g. "pending-1712345678901-1a2b3c4d".
	ID string

	Description string

	// PhotoPath references the spooled photo bytes on local disk.
	PhotoPath string

	Lat *float64
	Lon *float64

	// CreatedAt is the enqueue time in Unix milliseconds.
	CreatedAt int64
}

// DrainResult reports the outcome of replaying one pending submission.
type DrainResult struct {
	ID      string
	Success bool
	Message string
}
