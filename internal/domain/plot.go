package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultFormat is the output format the web plot viewer pages through
const DefaultFormat = "output_web_raster"

// Plot is one rendered analysis output registered in the catalog
type Plot struct {
	ID        int64  // Catalog row id (stable across sessions)
	Position  int    // 1-based order within its format
	Format    string // e.g. "output_web_raster"
	Filename  string // Relative to the plot directory
	Title     string
	CreatedAt int64 // Unix timestamp of registration
}

// Anchor returns the derived identifier of the plot at a position
func Anchor(position int) string {
	return fmt.Sprintf("plot_%d", position)
}

// Anchor returns the plot's derived identifier, e.g. "plot_3"
func (p Plot) Anchor() string {
	return Anchor(p.Position)
}

// DisplayName returns the title, falling back to the file name
func (p Plot) DisplayName() string {
	if p.Title != "" {
		return p.Title
	}
	return filepath.Base(p.Filename)
}

var plotExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".pdf":  true,
}

// IsPlotFile reports whether a file name looks like a rendered plot
func IsPlotFile(name string) bool {
	return plotExtensions[strings.ToLower(filepath.Ext(name))]
}

// TitleFromFilename derives a readable title: "rama_angles-by_ss.png" -> "rama angles by ss"
func TitleFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return strings.Join(strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	}), " ")
}
