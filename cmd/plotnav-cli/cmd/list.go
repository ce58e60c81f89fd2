package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"plotnav/internal/adapters/opener"
	"plotnav/internal/application/commands"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the plots of the format in navigation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listCmd := commands.NewListPlotsCommand(GetStore(), GetConfig().Format)
		plots, err := listCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		if len(plots) == 0 {
			fmt.Println("No plots")
			return nil
		}

		for _, p := range plots {
			fmt.Printf("%4d %-9s %s\n", p.Position, p.Anchor(), p.DisplayName())
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <n>",
	Short: "Show the plot at a 1-based position",
	Long: `Show the catalog entry and file address of the n-th plot.

Examples:
  plotnav-cli show 1
  plotnav-cli show 12 --plot-dir results/plots`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		position, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid plot number %q", args[0])
		}

		showCmd := commands.NewShowPlotCommand(GetStore(), GetConfig().Format, position)
		plot, err := showCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Position: %d\n", plot.Position)
		fmt.Printf("Anchor:   %s\n", plot.Anchor())
		fmt.Printf("Title:    %s\n", plot.DisplayName())
		fmt.Printf("Format:   %s\n", plot.Format)
		fmt.Printf("Address:  %s\n", opener.Address(GetConfig().PlotDir, plot))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}
