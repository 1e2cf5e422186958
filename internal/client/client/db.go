package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/storyshare/client/internal/client/migrations"
	"github.com/storyshare/client/internal/client/repositories/metadata"
	"github.com/storyshare/client/internal/client/repositories/pending"
	"github.com/storyshare/client/internal/client/repositories/stories"
	"github.com/storyshare/client/internal/logging"
)

// Repositories bundles the local persistence layer: the durable story store,
// the pending-submission queue, and the metadata key/value table.
type Repositories struct {
	Stories  stories.Repository
	Pending  pending.Repository
	Metadata metadata.Repository
	DB       *sql.DB
}

// RunMigrations applies the embedded goose migrations. Databases created
// before the favorites index existed gain it here without touching rows.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (or creates) the local sqlite database at dsn, migrates
// it, and wires the repositories.
func InitDatabase(ctx context.Context, dsn string, log logging.Logger) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Stories:  stories.NewSQLiteRepository(db, log),
		Pending:  pending.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}
