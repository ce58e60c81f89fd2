package ports

import (
	"context"

	"plotnav/internal/domain"
)

// PlotViewer renders the plot named by a directive.
// Implementations must not call back into the navigation controller.
type PlotViewer interface {
	Display(ctx context.Context, d domain.Directive) error
}

// ViewerFunc adapts a function to PlotViewer
type ViewerFunc func(ctx context.Context, d domain.Directive) error

// Display calls f(ctx, d)
func (f ViewerFunc) Display(ctx context.Context, d domain.Directive) error {
	return f(ctx, d)
}
