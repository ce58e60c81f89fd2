package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"plotnav/internal/adapters/sqlite"
	"plotnav/internal/config"
	"plotnav/internal/logger"
)

const (
	// writesAnnotation marks commands that open the catalog read-write
	writesAnnotation = "plotnav/writes"
	// noCatalogAnnotation marks commands that run without config or catalog
	noCatalogAnnotation = "plotnav/no-catalog"
)

var (
	configPath string
	overrides  config.Overrides

	cfg   *config.Config
	store *sqlite.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "plotnav-cli",
	Short: "CLI for the analysis plot catalog",
	Long: `plotnav-cli counts, lists and registers the analysis plots kept in a
SQLite catalog, and replays navigation key scripts against it.

Settings come from the config file, PLOTNAV_* environment variables and
flags, in increasing order of precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if cmd.Annotations[noCatalogAnnotation] == "true" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath, overrides)
		if err != nil {
			return err
		}

		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log := logger.WithValues(logger.Get(level), logger.CommandKey, cmd.Name(), logger.FormatKey, cfg.Format)
		cmd.SetContext(logger.WithLogger(cmd.Context(), log))

		store = sqlite.NewCatalog()
		if cmd.Annotations[writesAnnotation] == "true" {
			return store.Open(cfg.Catalog)
		}
		return store.OpenReadOnly(cfg.Catalog)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()
		if store == nil {
			return nil
		}
		return store.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&overrides.Catalog, "catalog", "c", "", "path to the plot catalog (default "+config.DefaultCatalogPath+")")
	flags.StringVarP(&overrides.Format, "format", "f", "", "plot output format (default "+config.DefaultFormat+")")
	flags.StringVar(&overrides.PlotDir, "plot-dir", "", "directory plot file names are relative to")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&configPath, "config", "", "config file (default "+config.FilePath()+")")
}

// GetStore returns the opened catalog
func GetStore() *sqlite.Catalog {
	return store
}

// GetConfig returns the resolved configuration
func GetConfig() *config.Config {
	return cfg
}

func logFrom(cmd *cobra.Command) logr.Logger {
	return *logger.FromContext(cmd.Context())
}
