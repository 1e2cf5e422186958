package stories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/storyshare/client/internal/client/models"
	"github.com/storyshare/client/internal/common"
	"github.com/storyshare/client/internal/dbx"
	"github.com/storyshare/client/internal/logging"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db  dbx.DBTX
	log logging.Logger
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX, log logging.Logger) *SQLiteRepository {
	return &SQLiteRepository{db: db, log: log}
}

const storyColumns = `id, name, description, photo_url, lat, lon, created_at, favorited`

func scanStory(scan func(dest ...any) error) (*models.Story, error) {
	var s models.Story
	var lat, lon sql.NullFloat64
	var createdAt string
	var favorited int

	if err := scan(&s.ID, &s.Name, &s.Description, &s.PhotoURL, &lat, &lon, &createdAt, &favorited); err != nil {
		return nil, err
	}
	if lat.Valid {
		s.Lat = &lat.Float64
	}
	if lon.Valid {
		s.Lon = &lon.Float64
	}
	if createdAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			s.CreatedAt = t
		}
	}
	s.Favorited = favorited != 0
	return &s, nil
}

// Save upserts a story by id. Content columns always take the incoming
// values; the favorited column is part of the row, so callers that overlay the
// flag before saving keep device-side favorite state authoritative.
func (r *SQLiteRepository) Save(ctx context.Context, story *models.Story) bool {
	if story == nil || story.ID == "" {
		r.log.Warn(ctx, "cannot save story without id")
		return false
	}

	var lat, lon any
	if story.Lat != nil {
		lat = *story.Lat
	}
	if story.Lon != nil {
		lon = *story.Lon
	}
	var createdAt string
	if !story.CreatedAt.IsZero() {
		createdAt = story.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	query := `INSERT INTO stories (id, name, description, photo_url, lat, lon, created_at, favorited)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				description = excluded.description,
				photo_url = excluded.photo_url,
				lat = excluded.lat,
				lon = excluded.lon,
				created_at = excluded.created_at,
				favorited = excluded.favorited
	`
	_, err := r.db.ExecContext(ctx, query,
		story.ID, story.Name, story.Description, story.PhotoURL, lat, lon, createdAt, boolToInt(story.Favorited))
	if err != nil {
		r.log.Error(ctx, "failed to upsert story", "id", story.ID, "err", err)
		return false
	}
	return true
}

// GetAll lists every stored story in insertion (rowid) order. Failures are
// logged and reported as an empty snapshot.
func (r *SQLiteRepository) GetAll(ctx context.Context) []models.Story {
	query := `SELECT ` + storyColumns + ` FROM stories ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Error(ctx, "failed to select stories", "err", err)
		return []models.Story{}
	}
	defer rows.Close()

	result, err := collectStories(rows)
	if err != nil {
		r.log.Error(ctx, "failed to scan stories", "err", err)
		return []models.Story{}
	}
	return result
}

// GetByID returns a single story or common.ErrNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	if id == "" {
		return nil, common.ErrMissingID
	}

	query := `SELECT ` + storyColumns + ` FROM stories WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	s, err := scanStory(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return s, nil
}

// DeleteByID removes a story and reports whether a row existed to be removed.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, common.ErrMissingID
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM stories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete story: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra > 0, nil
}

// Clear removes all stored stories.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM stories`); err != nil {
		return fmt.Errorf("failed to clear stories: %w", err)
	}
	return nil
}

// GetFavorites is a two-tier read: an indexed query first, then a full
// scan-and-filter when the index is missing (a database created before the
// index migration) or the indexed query fails. The fallback is always
// attempted before giving up.
func (r *SQLiteRepository) GetFavorites(ctx context.Context) []models.Story {
	query := `SELECT ` + storyColumns + ` FROM stories INDEXED BY idx_stories_favorited
			WHERE favorited = 1 ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err == nil {
		defer rows.Close()
		if result, scanErr := collectStories(rows); scanErr == nil {
			return result
		}
	} else {
		r.log.Warn(ctx, "favorites index unavailable, scanning", "err", err)
	}

	all := r.GetAll(ctx)
	favorites := make([]models.Story, 0, len(all))
	for _, s := range all {
		if s.Favorited {
			favorites = append(favorites, s)
		}
	}
	return favorites
}

func collectStories(rows *sql.Rows) ([]models.Story, error) {
	result := []models.Story{}
	for rows.Next() {
		s, err := scanStory(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
