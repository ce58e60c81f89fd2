// Package filesystem reads plot files from disk.
package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

// Ensure Scanner implements PlotSource
var _ ports.PlotSource = (*Scanner)(nil)

// Scanner implements ports.PlotSource over the local filesystem
type Scanner struct{}

// NewScanner creates a new scanner
func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanPlots walks dir and returns the plot files under it.
// Hidden directories are skipped and unreadable entries are ignored.
func (s *Scanner) ScanPlots(ctx context.Context, dir string) (*domain.ScanResult, error) {
	root, err := expandPath(dir)
	if err != nil {
		return nil, err
	}

	result := &domain.ScanResult{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // Skip unreadable entries
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		// Skip hidden directories
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		result.FilesScanned++
		if !domain.IsPlotFile(d.Name()) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		result.Files = append(result.Files, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// expandPath expands ~ to the home directory
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
