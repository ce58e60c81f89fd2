package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"plotnav/internal/application/commands"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count the plots of the format",
	Long: `Print the number of plots registered for the output format.

Examples:
  plotnav-cli count
  plotnav-cli count -f output_print_pdf`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		countCmd := commands.NewCountPlotsCommand(GetStore(), GetConfig().Format)
		n, err := countCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
}
