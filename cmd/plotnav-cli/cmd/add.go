package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"plotnav/internal/adapters/filesystem"
	"plotnav/internal/application/commands"
)

var addTitle string

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Register a plot file in the catalog",
	Long: `Register one plot file for the format. The file name is stored as
given, relative to the plot directory.

Examples:
  plotnav-cli add rama_angles.png
  plotnav-cli add ss/hbonds.png --title "H-bond network"`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{writesAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		addCmd := commands.NewAddPlotCommand(GetStore(), GetConfig().Format, args[0], addTitle)
		result, err := addCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync <dir>",
	Short: "Register every plot file under a directory",
	Long: `Walk a directory and register the plot files (png, jpg, gif, svg, pdf)
that are not in the catalog yet. File names are stored relative to <dir>.

Examples:
  plotnav-cli sync results/plots`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{writesAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		syncCmd := commands.NewSyncPlotsCommand(GetStore(), filesystem.NewScanner(), args[0], GetConfig().Format)
		stats, err := syncCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		logFrom(cmd).Info("sync finished", "dir", args[0], "duration", stats.Duration.String())
		fmt.Printf("Scanned %d files: %d added, %d already registered\n",
			stats.FilesScanned, stats.PlotsAdded, stats.PlotsSkipped)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "plot title (default derived from the file name)")
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(syncCmd)
}
