package ports

import (
	"context"

	"plotnav/internal/domain"
)

// PlotSource finds rendered plot files on disk
type PlotSource interface {
	ScanPlots(ctx context.Context, dir string) (*domain.ScanResult, error)
}
