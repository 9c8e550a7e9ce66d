// -- cmd/verify.go --
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/boxlayout/internal/engine"
	"github.com/xkilldash9x/boxlayout/internal/observability"
	"github.com/xkilldash9x/boxlayout/internal/reporting"
	"github.com/xkilldash9x/boxlayout/internal/snapshot"
)

// newVerifyCmd creates the `verify` command, which compares layouts with a
// snapshot written by an earlier `verify --update`.
func newVerifyCmd() *cobra.Command {
	var (
		snapshotPath string
		update       bool
		tolerance    float64
		strict       bool
	)

	verifyCmd := &cobra.Command{
		Use:   "verify [fixtures or directories...]",
		Short: "Compares fixture layouts against a snapshot file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			paths, err := engine.ExpandPaths(args)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()
			runner, err := engine.New(cfg, logger)
			if err != nil {
				return err
			}

			var rec snapshot.Recorder
			var rep reporting.Reporter = &rec
			if update {
				file, err := reporting.New("json", snapshotPath)
				if err != nil {
					return err
				}
				rep = reporting.Tee(&rec, file)
			}

			_, runErr := runner.Run(cmd.Context(), paths, rep)
			if err := rep.Close(); err != nil && runErr == nil {
				runErr = fmt.Errorf("failed to write snapshot: %w", err)
			}
			// Failed fixtures are part of the snapshot too.
			if runErr != nil && !errors.Is(runErr, engine.ErrFixturesFailed) {
				return runErr
			}

			out := cmd.OutOrStdout()
			if update {
				fmt.Fprintf(out, "updated %d fixtures in %s\n", len(rec.Documents), snapshotPath)
				return nil
			}

			expected, err := snapshot.LoadFile(snapshotPath)
			if err != nil {
				return err
			}
			opts := snapshot.DefaultOptions()
			opts.Tolerance = tolerance
			if strict {
				opts.IgnoreNodeNumbers, opts.IgnorePaths = false, false
			}

			mismatched := 0
			results := snapshot.NewComparer(logger, opts).CompareAll(expected, rec.Documents)
			for _, res := range results {
				fmt.Fprintf(out, "%-8s %s\n", res.Status, res.Name)
				if res.Status == snapshot.StatusMatch {
					continue
				}
				mismatched++
				if res.Diff != "" {
					fmt.Fprint(out, res.Diff)
				}
			}
			if mismatched > 0 {
				return fmt.Errorf("%d of %d %w", mismatched, len(results), snapshot.ErrMismatch)
			}
			return nil
		},
	}

	verifyCmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "Snapshot file (JSON lines).")
	verifyCmd.Flags().BoolVarP(&update, "update", "u", false, "Rewrite the snapshot from the current layouts.")
	verifyCmd.Flags().Float64Var(&tolerance, "tolerance", snapshot.DefaultOptions().Tolerance, "Largest coordinate difference treated as equal.")
	verifyCmd.Flags().BoolVar(&strict, "strict", false, "Also compare node handles and fixture paths.")
	_ = verifyCmd.MarkFlagRequired("snapshot")
	return verifyCmd
}
