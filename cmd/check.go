// -- cmd/check.go --
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/boxlayout/internal/engine"
	"github.com/xkilldash9x/boxlayout/internal/fixture"
	"github.com/xkilldash9x/boxlayout/pkg/boxtree"
)

// newCheckCmd creates the `check` command, which parses fixtures without
// laying them out.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [fixtures or directories...]",
		Short: "Validates fixture files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := engine.ExpandPaths(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range paths {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if err := checkFixture(path); err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d %w", failed, len(paths), engine.ErrFixturesFailed)
			}
			return nil
		},
	}
}

func checkFixture(path string) error {
	doc, err := fixture.Load(path)
	if err != nil {
		return err
	}
	if _, err := doc.AvailableSpace(); err != nil {
		return err
	}
	_, err = doc.Build(boxtree.New())
	var perr *fixture.ParseError
	if errors.As(err, &perr) {
		perr.Source = path
	}
	return err
}
