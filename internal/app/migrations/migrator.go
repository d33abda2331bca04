package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/coursecatalog/internal/db"
)

//go:embed sql/*.sql
var embedded embed.FS

// Files returns the migrations bundled with the binary
func Files() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrator manages database migrations
type Migrator struct {
	db     db.TxBeginner
	files  fs.FS
	logger zerolog.Logger
}

// NewMigrator creates a migrator applying the *.sql files of files in lexical order
func NewMigrator(conn db.TxBeginner, files fs.FS, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     conn,
		files:  files,
		logger: logger,
	}
}

// Version extracts the version prefix from a migration file name ("001_catalog.sql" => "001")
func Version(filename string) string {
	return strings.SplitN(path.Base(filename), "_", 2)[0]
}

// Pending lists the migration file names in the order they are applied
func (m *Migrator) Pending() ([]string, error) {
	entries, err := fs.ReadDir(m.files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	return sqlFiles, nil
}

// Up applies every migration not yet recorded in schema_migrations, each in its own
// transaction.
func (m *Migrator) Up(ctx context.Context) error {
	sqlFiles, err := m.Pending()
	if err != nil {
		return err
	}

	if err := db.RunInTx(ctx, m.db, ensureMigrationTableExists); err != nil {
		return err
	}

	for _, file := range sqlFiles {
		if err := m.apply(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, file string) error {
	version := Version(file)

	content, err := fs.ReadFile(m.files, file)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", file, err)
	}

	applied := false
	err = db.RunInTx(ctx, m.db, func(ctx context.Context, tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			return nil
		}

		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("error occurred during SQL migration %s: %w", file, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, applied_at) VALUES ($1, CURRENT_TIMESTAMP)`, version,
		); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		applied = true
		return nil
	})
	if err != nil {
		return err
	}

	if applied {
		m.logger.Info().Str("migration", file).Msg("Migration applied")
	} else {
		m.logger.Debug().Str("migration", file).Msg("Migration already applied, skipping")
	}
	return nil
}

func ensureMigrationTableExists(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}
