package views

import (
	"context"
	"fmt"
	"sync"

	"plotnav/internal/adapters/opener"
	"plotnav/internal/adapters/tui/styles"
	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

var _ ports.PlotViewer = (*DisplayModel)(nil)

// DisplayModel is the display surface. The navigation controller drives it
// through Display; the app renders it with View.
type DisplayModel struct {
	catalog ports.PlotCatalog
	plotDir string

	mu        sync.Mutex
	directive *domain.Directive
	plot      *domain.Plot
	shown     int

	width  int
	height int
}

// NewDisplayModel creates a display pane resolving plots under plotDir
func NewDisplayModel(catalog ports.PlotCatalog, plotDir string) *DisplayModel {
	return &DisplayModel{
		catalog: catalog,
		plotDir: plotDir,
	}
}

// Display resolves the directive's plot and makes it the shown plot.
// If the plot cannot be resolved the directive is still recorded.
func (m *DisplayModel) Display(ctx context.Context, d domain.Directive) error {
	var plot *domain.Plot
	var err error
	if m.catalog != nil {
		plot, err = m.catalog.PlotAt(ctx, d.Format, d.Index)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.directive = &d
	m.plot = plot
	m.shown++

	if err != nil {
		return fmt.Errorf("resolve %s: %w", d.Anchor, err)
	}
	return nil
}

// Plot returns the shown plot, or nil before the first display or when it
// could not be resolved
func (m *DisplayModel) Plot() *domain.Plot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plot
}

// Directive returns the last directive received
func (m *DisplayModel) Directive() (domain.Directive, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.directive == nil {
		return domain.Directive{}, false
	}
	return *m.directive, true
}

// Shown returns how many directives the pane has received
func (m *DisplayModel) Shown() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}

// PlotDir returns the directory plot files are resolved under
func (m *DisplayModel) PlotDir() string {
	return m.plotDir
}

// SetSize updates the view dimensions
func (m *DisplayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the shown plot's details
func (m *DisplayModel) View() string {
	m.mu.Lock()
	d, plot := m.directive, m.plot
	m.mu.Unlock()

	v := NewViewBuilder()
	if d == nil {
		v.Title("No plot").Muted("Nothing to display yet")
		return m.frame(v.StringUnwrapped())
	}

	v.Title(fmt.Sprintf("Plot %d of %d", d.Index, d.Total))
	v.Line(styles.Anchor.Render("#" + d.Anchor))
	v.BlankLine()

	if plot == nil {
		v.Muted("plot not found in catalog")
		return m.frame(v.StringUnwrapped())
	}

	v.Line(RenderLabelValue("Title", plot.DisplayName()))
	v.Line(RenderLabelValue("File", opener.Resolve(m.plotDir, plot)))
	v.Line(RenderLabelValue("Format", plot.Format))
	return m.frame(v.StringUnwrapped())
}

func (m *DisplayModel) frame(body string) string {
	style := styles.DisplayPane
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	if m.height > 2 {
		style = style.Height(m.height - 2)
	}
	return style.Render(body)
}
