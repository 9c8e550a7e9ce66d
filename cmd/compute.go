// -- cmd/compute.go --
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/engine"
	"github.com/xkilldash9x/boxlayout/internal/observability"
	"github.com/xkilldash9x/boxlayout/internal/reporting"
	"github.com/xkilldash9x/boxlayout/internal/store"
)

// newComputeCmd creates the `compute` command.
func newComputeCmd(provider storeProvider) *cobra.Command {
	var (
		output      string
		format      string
		concurrency int
		width       string
		height      string
		noRounding  bool
		failFast    bool
		persist     bool
	)

	computeCmd := &cobra.Command{
		Use:   "compute [fixtures or directories...]",
		Short: "Lays out fixtures and prints the resulting box trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}

			// Flags override the config file only when given.
			flags := cmd.Flags()
			if flags.Changed("format") {
				cfg.SetBatchOutputFormat(format)
			}
			if flags.Changed("concurrency") {
				cfg.SetBatchConcurrency(concurrency)
			}
			if flags.Changed("no-rounding") {
				cfg.SetLayoutRounding(!noRounding)
			}
			if flags.Changed("fail-fast") {
				cfg.BatchCfg.FailFast = failFast
			}
			if flags.Changed("width") || flags.Changed("height") {
				w, h := cfg.Layout().ViewportWidth, cfg.Layout().ViewportHeight
				if flags.Changed("width") {
					w = width
				}
				if flags.Changed("height") {
					h = height
				}
				cfg.SetLayoutViewport(w, h)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}

			paths, err := engine.ExpandPaths(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no fixtures found in %v", args)
			}

			logger := observability.GetLogger()
			runner, err := engine.New(cfg, logger)
			if err != nil {
				return err
			}

			var rep reporting.Reporter
			if output == "" {
				rep, err = reporting.NewWithWriter(cfg.Batch().OutputFormat, nopCloser{cmd.OutOrStdout()})
			} else {
				rep, err = reporting.New(cfg.Batch().OutputFormat, output)
			}
			if err != nil {
				return err
			}
			if persist {
				s, cleanup, err := provider.Create(cmd.Context(), cfg)
				if err != nil {
					rep.Close()
					return err
				}
				defer cleanup()
				rep = reporting.Tee(rep, store.NewReporter(cmd.Context(), s))
			}

			summary, runErr := runner.Run(cmd.Context(), paths, rep)
			if err := rep.Close(); err != nil && runErr == nil {
				runErr = fmt.Errorf("failed to finalize output: %w", err)
			}
			if persist && runErr == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "saved run %s\n", summary.RunID)
			}
			logger.Debug("Compute finished.", zap.String("run_id", summary.RunID), zap.Int("failed", summary.Failed))
			return runErr
		},
	}

	computeCmd.Flags().StringVarP(&output, "output", "o", "", "Write results to this file instead of stdout.")
	computeCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: 'text' or 'json'. (Overrides config/env)")
	computeCmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "Fixtures laid out in parallel. (Overrides config/env)")
	computeCmd.Flags().StringVar(&width, "width", "", "Viewport width: pixels, min-content or max-content. (Overrides fixtures)")
	computeCmd.Flags().StringVar(&height, "height", "", "Viewport height: pixels, min-content or max-content. (Overrides fixtures)")
	computeCmd.Flags().BoolVar(&noRounding, "no-rounding", false, "Report unrounded layouts.")
	computeCmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failing fixture.")
	computeCmd.Flags().BoolVar(&persist, "persist", false, "Save the run to the configured database.")
	return computeCmd
}
