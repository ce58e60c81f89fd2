package opener

import (
	"context"
	"fmt"
	"path/filepath"

	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

var _ ports.PlotViewer = (*Viewer)(nil)

// Viewer implements ports.PlotViewer by opening the directive's plot file
type Viewer struct {
	catalog ports.PlotCatalog
	opener  ports.PlotOpener
	plotDir string
}

// NewViewer creates a viewer resolving plot files under plotDir
func NewViewer(catalog ports.PlotCatalog, opener ports.PlotOpener, plotDir string) *Viewer {
	return &Viewer{
		catalog: catalog,
		opener:  opener,
		plotDir: plotDir,
	}
}

// Display resolves the plot at d.Index and opens its file
func (v *Viewer) Display(ctx context.Context, d domain.Directive) error {
	plot, err := v.catalog.PlotAt(ctx, d.Format, d.Index)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", d.Anchor, err)
	}
	return v.opener.OpenFile(Resolve(v.plotDir, plot))
}

// Resolve returns the file path of a plot under the plot directory.
// Absolute catalog file names are returned unchanged.
func Resolve(plotDir string, p *domain.Plot) string {
	name := filepath.FromSlash(p.Filename)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(plotDir, name)
}

// Address returns the plot's file path with its anchor, e.g.
// "plots/rama.png#plot_3"
func Address(plotDir string, p *domain.Plot) string {
	return Resolve(plotDir, p) + "#" + p.Anchor()
}
