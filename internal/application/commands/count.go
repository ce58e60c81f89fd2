package commands

import (
	"context"

	"plotnav/internal/application"
	"plotnav/internal/ports"
)

// CountPlotsCommand counts the plots of one format
type CountPlotsCommand struct {
	counter ports.PlotCounter
	Format  string
}

// NewCountPlotsCommand creates a new CountPlotsCommand
func NewCountPlotsCommand(counter ports.PlotCounter, format string) *CountPlotsCommand {
	return &CountPlotsCommand{
		counter: counter,
		Format:  format,
	}
}

// Validate checks the command arguments
func (c *CountPlotsCommand) Validate() error {
	return application.ValidateRequired("format", c.Format)
}

// Execute runs the count query. Catalog failures match application.ErrCatalogUnavailable.
func (c *CountPlotsCommand) Execute(ctx context.Context) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return c.counter.CountPlots(ctx, c.Format)
}
