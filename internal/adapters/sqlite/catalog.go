package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"plotnav/internal/application"
	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

const schemaVersion = "1"

// Catalog implements ports.PlotStore using SQLite
type Catalog struct {
	db       *sql.DB
	path     string
	readOnly bool
}

// Ensure Catalog implements PlotStore
var _ ports.PlotStore = (*Catalog)(nil)

// NewCatalog creates a new, unopened SQLite catalog
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Open opens the catalog for reading and writing, creating the file and
// schema if missing
func (c *Catalog) Open(path string) error {
	path, err := expandPath(path)
	if err != nil {
		return err
	}
	c.path = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	c.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS features_analysis_plots (
			plot_id INTEGER PRIMARY KEY AUTOINCREMENT,
			format_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			UNIQUE (format_id, filename)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_plots_format ON features_analysis_plots(format_id);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup catalog: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// OpenReadOnly opens an existing catalog without touching its schema.
// A missing or unreadable file is reported by the first query, as an
// error matching application.ErrCatalogUnavailable.
func (c *Catalog) OpenReadOnly(path string) error {
	path, err := expandPath(path)
	if err != nil {
		return err
	}
	c.path = path
	c.readOnly = true

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	c.db = db
	return nil
}

// Close closes the database connection
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path returns the resolved catalog file path
func (c *Catalog) Path() string {
	return c.path
}

// CountPlots returns the exact number of plots registered for a format
func (c *Catalog) CountPlots(ctx context.Context, format string) (int, error) {
	if c.db == nil {
		return 0, &application.CatalogError{Op: "count", Err: errors.New("catalog not open")}
	}

	var n int
	err := c.db.QueryRowContext(ctx, `
		SELECT count(*) FROM features_analysis_plots WHERE format_id = ?
	`, format).Scan(&n)
	if err != nil {
		return 0, &application.CatalogError{Op: "count", Err: err}
	}
	return n, nil
}

// PlotAt returns the plot at a 1-based position within a format
func (c *Catalog) PlotAt(ctx context.Context, format string, position int) (*domain.Plot, error) {
	if c.db == nil {
		return nil, &application.CatalogError{Op: "lookup", Err: errors.New("catalog not open")}
	}
	if position < 1 {
		return nil, fmt.Errorf("plot %d of %s: %w", position, format, application.ErrNotFound)
	}

	var p domain.Plot
	err := c.db.QueryRowContext(ctx, `
		SELECT plot_id, format_id, filename, title, created_at
		FROM features_analysis_plots
		WHERE format_id = ?
		ORDER BY plot_id
		LIMIT 1 OFFSET ?
	`, format, position-1).Scan(&p.ID, &p.Format, &p.Filename, &p.Title, &p.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plot %d of %s: %w", position, format, application.ErrNotFound)
	}
	if err != nil {
		return nil, &application.CatalogError{Op: "lookup", Err: err}
	}

	p.Position = position
	return &p, nil
}

// ListPlots returns every plot of a format in catalog order
func (c *Catalog) ListPlots(ctx context.Context, format string) ([]domain.Plot, error) {
	if c.db == nil {
		return nil, &application.CatalogError{Op: "list", Err: errors.New("catalog not open")}
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT plot_id, format_id, filename, title, created_at
		FROM features_analysis_plots
		WHERE format_id = ?
		ORDER BY plot_id
	`, format)
	if err != nil {
		return nil, &application.CatalogError{Op: "list", Err: err}
	}
	defer rows.Close()

	var plots []domain.Plot
	for rows.Next() {
		var p domain.Plot
		if err := rows.Scan(&p.ID, &p.Format, &p.Filename, &p.Title, &p.CreatedAt); err != nil {
			return nil, &application.CatalogError{Op: "list", Err: err}
		}
		p.Position = len(plots) + 1
		plots = append(plots, p)
	}

	if err := rows.Err(); err != nil {
		return nil, &application.CatalogError{Op: "list", Err: err}
	}
	return plots, nil
}

// BeginTx starts a new transaction
func (c *Catalog) BeginTx(ctx context.Context) (ports.CatalogTx, error) {
	if c.db == nil {
		return nil, &application.CatalogError{Op: "begin", Err: errors.New("catalog not open")}
	}
	if c.readOnly {
		return nil, fmt.Errorf("catalog %s is open read-only", c.path)
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &application.CatalogError{Op: "begin", Err: err}
	}
	return &catalogTx{tx: tx}, nil
}

// expandPath expands a leading ~ to the home directory
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}
