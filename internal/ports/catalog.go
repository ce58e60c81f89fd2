package ports

import (
	"context"

	"plotnav/internal/domain"
)

// PlotCounter answers how many plots exist for a format.
// The count is computed fresh on every call.
type PlotCounter interface {
	CountPlots(ctx context.Context, format string) (int, error)
}

// PlotCatalog provides read access to the persisted plot catalog
type PlotCatalog interface {
	PlotCounter

	// PlotAt returns the plot at a 1-based position within a format
	PlotAt(ctx context.Context, format string, position int) (*domain.Plot, error)

	// ListPlots returns every plot of a format in catalog order
	ListPlots(ctx context.Context, format string) ([]domain.Plot, error)
}

// PlotStore is a catalog that also accepts registrations
type PlotStore interface {
	PlotCatalog

	// Lifecycle
	Open(path string) error
	Close() error

	// Batch updates (for add/sync)
	BeginTx(ctx context.Context) (CatalogTx, error)
}

// CatalogTx represents a transaction for atomic catalog updates
type CatalogTx interface {
	InsertPlot(plot *domain.Plot) (bool, error) // false if already registered
	DeletePlot(format, filename string) error
	SetMeta(key, value string) error

	Commit() error
	Rollback() error
}
