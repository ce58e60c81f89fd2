package commands

import (
	"context"

	"plotnav/internal/application"
	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

// ListPlotsCommand lists every plot of a format in catalog order
type ListPlotsCommand struct {
	catalog ports.PlotCatalog
	Format  string
}

// NewListPlotsCommand creates a new ListPlotsCommand
func NewListPlotsCommand(catalog ports.PlotCatalog, format string) *ListPlotsCommand {
	return &ListPlotsCommand{
		catalog: catalog,
		Format:  format,
	}
}

// Execute runs the list plots command
func (c *ListPlotsCommand) Execute(ctx context.Context) ([]domain.Plot, error) {
	if err := application.ValidateRequired("format", c.Format); err != nil {
		return nil, err
	}
	return c.catalog.ListPlots(ctx, c.Format)
}

// ShowPlotCommand resolves the plot at a 1-based position
type ShowPlotCommand struct {
	catalog  ports.PlotCatalog
	Format   string
	Position int
}

// NewShowPlotCommand creates a new ShowPlotCommand
func NewShowPlotCommand(catalog ports.PlotCatalog, format string, position int) *ShowPlotCommand {
	return &ShowPlotCommand{
		catalog:  catalog,
		Format:   format,
		Position: position,
	}
}

// Validate checks the command arguments
func (c *ShowPlotCommand) Validate() error {
	if err := application.ValidateRequired("format", c.Format); err != nil {
		return err
	}
	return application.ValidatePosition("position", c.Position)
}

// Execute runs the show plot command
func (c *ShowPlotCommand) Execute(ctx context.Context) (*domain.Plot, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.catalog.PlotAt(ctx, c.Format, c.Position)
}
