package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plotnav/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the plotnav config file",
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Long: `Write the default settings, with any catalog, format, plot directory
and log level flags applied, to the config file.

The file is written to --config, PLOTNAV_CONFIG or the user config
directory, in that order. An existing file is kept unless --force is given.

Examples:
  plotnav-cli config init
  plotnav-cli config init -c /srv/analysis_manager.db3 --force`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{noCatalogAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.FilePath()
		}
		if err := initConfig(path, overrides, configInitForce); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

// initConfig saves the defaults with o applied to path
func initConfig(path string, o config.Overrides, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	cfg := config.Default()
	o.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	return config.Save(cfg, path)
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
