package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"plotnav/internal/application"
	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

// AddPlotResult contains the result of registering a plot
type AddPlotResult struct {
	Plot    *domain.Plot
	Added   bool
	Message string
}

// AddPlotCommand registers one plot file in the catalog
type AddPlotCommand struct {
	store    ports.PlotStore
	Format   string
	Filename string
	Title    string
}

// NewAddPlotCommand creates a new AddPlotCommand
func NewAddPlotCommand(store ports.PlotStore, format, filename, title string) *AddPlotCommand {
	return &AddPlotCommand{
		store:    store,
		Format:   format,
		Filename: filename,
		Title:    title,
	}
}

// Validate checks if the add operation is valid
func (c *AddPlotCommand) Validate() error {
	if err := application.ValidateRequired("format", c.Format); err != nil {
		return err
	}
	if err := application.ValidateRequired("filename", c.Filename); err != nil {
		return err
	}
	if !domain.IsPlotFile(c.Filename) {
		return &application.ValidationError{
			Field:   "filename",
			Message: fmt.Sprintf("not a plot file: %s", c.Filename),
		}
	}
	return nil
}

// Execute registers the plot inside a transaction
func (c *AddPlotCommand) Execute(ctx context.Context) (*AddPlotResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	title := c.Title
	if title == "" {
		title = domain.TitleFromFilename(c.Filename)
	}
	plot := &domain.Plot{
		Format:    c.Format,
		Filename:  c.Filename,
		Title:     title,
		CreatedAt: time.Now().Unix(),
	}

	tx, err := c.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}

	added, err := tx.InsertPlot(plot)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to register %s: %w", c.Filename, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	msg := fmt.Sprintf("Registered %s as %s", c.Filename, c.Format)
	if !added {
		msg = fmt.Sprintf("%s already registered as %s", c.Filename, c.Format)
	}
	return &AddPlotResult{Plot: plot, Added: added, Message: msg}, nil
}

// SyncPlotsCommand registers every plot file found under a directory
type SyncPlotsCommand struct {
	store  ports.PlotStore
	source ports.PlotSource
	Dir    string
	Format string
}

// NewSyncPlotsCommand creates a new SyncPlotsCommand
func NewSyncPlotsCommand(store ports.PlotStore, source ports.PlotSource, dir, format string) *SyncPlotsCommand {
	return &SyncPlotsCommand{
		store:  store,
		source: source,
		Dir:    dir,
		Format: format,
	}
}

// Validate checks the command arguments
func (c *SyncPlotsCommand) Validate() error {
	if err := application.ValidateRequired("plotDir", c.Dir); err != nil {
		return err
	}
	return application.ValidateRequired("format", c.Format)
}

// Execute scans the directory and registers new plot files in one
// transaction. File names are stored relative to the directory, so the
// scan order fixes the catalog order of new plots.
func (c *SyncPlotsCommand) Execute(ctx context.Context) (*domain.SyncStats, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	scan, err := c.source.ScanPlots(ctx, c.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", c.Dir, err)
	}
	stats := &domain.SyncStats{FilesScanned: scan.FilesScanned}

	tx, err := c.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	for _, name := range scan.Files {
		added, err := tx.InsertPlot(&domain.Plot{
			Format:    c.Format,
			Filename:  name,
			Title:     domain.TitleFromFilename(name),
			CreatedAt: now,
		})
		if err != nil {
			tx.Rollback()
			return stats, fmt.Errorf("failed to register %s: %w", name, err)
		}
		if added {
			stats.PlotsAdded++
		} else {
			stats.PlotsSkipped++
		}
	}

	if err := tx.SetMeta("last_sync_time", strconv.FormatInt(now, 10)); err != nil {
		tx.Rollback()
		return stats, fmt.Errorf("failed to record sync time: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("failed to commit sync: %w", err)
	}

	stats.Duration = time.Since(start)
	return stats, nil
}
