// File: cmd/history.go
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// newHistoryCmd creates the `history` command, which prints a stored run.
func newHistoryCmd(provider storeProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "history [run-id]",
		Short: "Prints a layout run saved with compute --persist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, cleanup, err := provider.Create(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			run, err := s.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			nodes, err := s.ListNodes(ctx, run.RunID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s started %s fixtures %d failed %d\n",
				run.RunID, run.StartedAt.UTC().Format(time.RFC3339), run.Fixtures, run.Failed)

			fixture := ""
			var depth []int
			for _, n := range nodes {
				if n.Fixture != fixture {
					fixture = n.Fixture
					depth = depth[:0]
					fmt.Fprintf(out, "=== %s\n", fixture)
				}
				d := 0
				if n.Parent >= 0 && n.Parent < len(depth) {
					d = depth[n.Parent] + 1
				}
				depth = append(depth, d)
				fmt.Fprintf(out, "%s%s %s [x: %g y: %g w: %g h: %g]\n",
					strings.Repeat("  ", d), strings.ToUpper(n.Display), n.NodeKey, n.X, n.Y, n.Width, n.Height)
			}
			return nil
		},
	}
}
