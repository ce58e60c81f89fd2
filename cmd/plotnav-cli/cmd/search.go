package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"plotnav/internal/application/commands"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search plots by title or file name",
	Long: `Search the plots of the format by title, file name or anchor.

Results are ranked by relevance using fuzzy matching.

Examples:
  plotnav-cli search rama
  plotnav-cli search plot_12`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		searchCmd := commands.NewSearchPlotsCommand(GetStore(), GetConfig().Format, args[0])
		results, err := searchCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			fmt.Printf("%4d %-9s %s\n", r.Position, r.Anchor(), r.DisplayName())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
