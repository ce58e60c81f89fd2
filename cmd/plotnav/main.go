package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"plotnav/internal/adapters/opener"
	"plotnav/internal/adapters/sqlite"
	"plotnav/internal/adapters/tui"
	"plotnav/internal/adapters/tui/views"
	"plotnav/internal/application/navigation"
	"plotnav/internal/config"
	"plotnav/internal/logger"
)

func main() {
	var overrides config.Overrides
	configPath := flag.String("config", "", "config file (default "+config.FilePath()+")")
	flag.StringVar(&overrides.Catalog, "catalog", "", "path to the plot catalog")
	flag.StringVar(&overrides.Format, "format", "", "plot output format")
	flag.StringVar(&overrides.PlotDir, "plot-dir", "", "directory plot file names are relative to")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flag.Parse()

	if err := run(*configPath, overrides); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, overrides config.Overrides) error {
	cfg, err := config.Load(configPath, overrides)
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	// The screen belongs to the TUI; logs go to a file
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logger.GetTo(level, logFile)
	defer logger.Sync()

	// A catalog that cannot be opened is reported in the status line
	catalog := sqlite.NewCatalog()
	if err := catalog.OpenReadOnly(cfg.Catalog); err != nil {
		log.Error(err, "opening catalog", "path", cfg.Catalog)
	}
	defer catalog.Close()

	display := views.NewDisplayModel(catalog, cfg.PlotDir)
	controller := navigation.NewController(catalog, display, cfg.Format,
		navigation.WithTimeout(cfg.StartTimeout.Duration),
		navigation.WithKeyMap(navigation.KeyMap{Next: cfg.Keys.Next, Previous: cfg.Keys.Previous}),
		navigation.WithLogger(*logger.WithValues(log, logger.SessionKey, "tui", logger.FormatKey, cfg.Format)),
	)

	app := tui.NewApp(tui.Deps{
		Controller: controller,
		Catalog:    catalog,
		Display:    display,
		Opener:     opener.NewOpener(cfg.ViewerCommand),
		Log:        *log,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func openLogFile() (*os.File, error) {
	dir := config.StateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, "plotnav.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
