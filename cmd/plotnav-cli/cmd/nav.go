package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"plotnav/internal/adapters/opener"
	"plotnav/internal/application/commands"
	"plotnav/internal/application/navigation"
	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

var navOpen bool

var navCmd = &cobra.Command{
	Use:   "nav <keys>...",
	Short: "Replay a navigation key script",
	Long: `Start a navigation session and replay key presses against it, printing
every plot the session displays. Each character of a word is one key press;
a number jumps to that plot.

Examples:
  plotnav-cli nav jjjk
  plotnav-cli nav j j 7 k --open`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		conf := GetConfig()

		var viewer ports.PlotViewer = directivePrinter(os.Stdout)
		if navOpen {
			external := opener.NewViewer(GetStore(), opener.NewOpener(conf.ViewerCommand), conf.PlotDir)
			viewer = chainViewers(viewer, external)
		}

		controller := navigation.NewController(GetStore(), viewer, conf.Format,
			navigation.WithTimeout(conf.StartTimeout.Duration),
			navigation.WithKeyMap(navigation.KeyMap{Next: conf.Keys.Next, Previous: conf.Keys.Previous}),
			navigation.WithLogger(logFrom(cmd)),
		)

		snap, err := controller.Start(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		if snap.Notice != "" {
			fmt.Fprintln(os.Stderr, snap.Notice)
		}

		steps, err := commands.NewNavigateCommand(controller, args).Execute(ctx)
		if err != nil {
			return err
		}

		var rejected int
		for _, step := range steps {
			if step.Err == nil {
				continue
			}
			rejected++
			fmt.Fprintf(os.Stderr, "%s: %v\n", step.Input, step.Err)
		}

		final := controller.Snapshot()
		fmt.Printf("state=%s current=%d total=%d\n", final.State, final.Current, final.Total)
		if rejected > 0 {
			return fmt.Errorf("%d of %d inputs failed", rejected, len(steps))
		}
		return nil
	},
}

// directivePrinter writes one line per displayed plot
func directivePrinter(w io.Writer) ports.ViewerFunc {
	return func(_ context.Context, d domain.Directive) error {
		_, err := fmt.Fprintf(w, "display %s (%d/%d)\n", d.Anchor, d.Index, d.Total)
		return err
	}
}

// chainViewers shows a directive on every viewer, joining their errors
func chainViewers(viewers ...ports.PlotViewer) ports.ViewerFunc {
	return func(ctx context.Context, d domain.Directive) error {
		var errs []error
		for _, v := range viewers {
			if err := v.Display(ctx, d); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

func init() {
	navCmd.Flags().BoolVar(&navOpen, "open", false, "also open each displayed plot in the external viewer")
	rootCmd.AddCommand(navCmd)
}
