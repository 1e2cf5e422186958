package pending

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/storyshare/client/internal/client/models"
	"github.com/storyshare/client/internal/common"
	"github.com/storyshare/client/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add inserts a pending submission row.
func (r *SQLiteRepository) Add(ctx context.Context, p *models.PendingStory) error {
	if p == nil || p.ID == "" {
		return common.ErrMissingID
	}

	var lat, lon any
	if p.Lat != nil {
		lat = *p.Lat
	}
	if p.Lon != nil {
		lon = *p.Lon
	}

	query := `INSERT INTO pending_submissions (id, description, photo_path, lat, lon, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Description, p.PhotoPath, lat, lon, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pending submission: %w", err)
	}
	return nil
}

// GetAll lists queued submissions oldest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.PendingStory, error) {
	query := `SELECT id, description, photo_path, lat, lon, created_at
			FROM pending_submissions ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending submissions: %w", err)
	}
	defer rows.Close()

	result := []models.PendingStory{}
	for rows.Next() {
		var p models.PendingStory
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.Description, &p.PhotoPath, &lat, &lon, &p.CreatedAt); err != nil {
			return nil, err
		}
		if lat.Valid {
			p.Lat = &lat.Float64
		}
		if lon.Valid {
			p.Lon = &lon.Float64
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByID removes a replayed entry and reports whether it existed.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, common.ErrMissingID
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_submissions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete pending submission: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra > 0, nil
}

// Count reports the number of queued submissions.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_submissions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending submissions: %w", err)
	}
	return n, nil
}
