// internal/engine/engine.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/boxlayout/internal/config"
	"github.com/xkilldash9x/boxlayout/internal/fixture"
	"github.com/xkilldash9x/boxlayout/internal/observability"
	"github.com/xkilldash9x/boxlayout/internal/reporting"
	"github.com/xkilldash9x/boxlayout/pkg/boxtree"
	"github.com/xkilldash9x/boxlayout/pkg/layout"
)

// ErrFixturesFailed is returned by Run when at least one fixture failed.
var ErrFixturesFailed = errors.New("fixtures failed")

// Summary describes a finished batch.
type Summary struct {
	RunID    string
	Total    int
	Failed   int
	Duration time.Duration
}

// Runner lays out fixture files concurrently.
type Runner struct {
	cfg     config.Interface
	logger  *zap.Logger
	metrics fixture.Metrics
	width   *layout.AvailableSpace
	height  *layout.AvailableSpace
}

// New creates a Runner. Viewport overrides in cfg are parsed up front so a
// bad value fails before any fixture is read.
func New(cfg config.Interface, logger *zap.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	lc := cfg.Layout()
	r := &Runner{
		cfg:     cfg,
		logger:  logger.Named("engine"),
		metrics: fixture.Metrics{CellWidth: lc.Text.CellWidth, LineHeight: lc.Text.LineHeight},
	}

	var err error
	if r.width, err = parseOverride(lc.ViewportWidth); err != nil {
		return nil, fmt.Errorf("invalid viewport width: %w", err)
	}
	if r.height, err = parseOverride(lc.ViewportHeight); err != nil {
		return nil, fmt.Errorf("invalid viewport height: %w", err)
	}
	return r, nil
}

func parseOverride(value string) (*layout.AvailableSpace, error) {
	if value == "" {
		return nil, nil
	}
	space, err := fixture.ParseAvailableSpace(value)
	if err != nil {
		return nil, err
	}
	return &space, nil
}

// Run lays out every path with at most batch.concurrency fixtures in
// flight and writes the results to rep in input order. Without fail-fast a
// failing fixture is reported and the batch continues.
func (r *Runner) Run(ctx context.Context, paths []string, rep reporting.Reporter) (Summary, error) {
	start := time.Now()
	batch := r.cfg.Batch()
	summary := Summary{RunID: uuid.NewString(), Total: len(paths)}
	logger := r.logger.With(zap.String("run_id", summary.RunID))

	concurrency := batch.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	logger.Info("Starting layout batch.", zap.Int("fixtures", len(paths)), zap.Int("concurrency", concurrency))

	results := make([]*reporting.Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res := r.Process(gctx, path)
			res.RunID = summary.RunID
			results[i] = res
			if res.Err != nil {
				logger.Warn("Fixture failed.", zap.String("path", path), zap.Error(res.Err))
				if batch.FailFast {
					return fmt.Errorf("%s: %w", path, res.Err)
				}
			}
			return nil
		})
	}
	groupErr := g.Wait()

	for _, res := range results {
		// Fixtures cut short by a fail-fast stop are not worth reporting.
		if res == nil || (groupErr != nil && errors.Is(res.Err, context.Canceled)) {
			continue
		}
		if res.Err != nil {
			summary.Failed++
		}
		if err := rep.Write(res); err != nil {
			return summary, fmt.Errorf("failed to write result for %s: %w", res.Path, err)
		}
	}
	summary.Duration = time.Since(start)
	logger.Info("Layout batch finished.",
		zap.Int("total", summary.Total),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration),
	)

	if groupErr != nil {
		return summary, groupErr
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d of %d %w", summary.Failed, summary.Total, ErrFixturesFailed)
	}
	return summary, nil
}

// Process loads, builds and lays out a single fixture.
func (r *Runner) Process(ctx context.Context, path string) *reporting.Result {
	res := &reporting.Result{Path: path, Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	doc, err := fixture.Load(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Name = doc.Name

	tree := boxtree.New(boxtree.WithLogger(r.logger))
	tree.UseRounding(r.cfg.Layout().Rounding)
	built, err := doc.Build(tree)
	if err != nil {
		res.Err = err
		return res
	}
	avail, err := doc.AvailableSpace()
	if err != nil {
		res.Err = err
		return res
	}
	if r.width != nil {
		avail.Width = *r.width
	}
	if r.height != nil {
		avail.Height = *r.height
	}

	if err := tree.ComputeLayoutWithMeasure(built.Root, avail, r.metrics.Measure); err != nil {
		res.Err = err
		return res
	}
	if l, err := tree.Layout(built.Root); err == nil {
		r.logger.Debug("Fixture laid out.", observability.Fixture(doc.Name, path), observability.Box("root", l))
	}

	res.Tree = tree
	res.Root = built.Root
	res.Names = make(map[boxtree.NodeId]string, len(built.IDs))
	for name, id := range built.IDs {
		res.Names[id] = name
	}
	return res
}

// fixtureExts are the extensions picked up when a directory is given.
var fixtureExts = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// ExpandPaths resolves ~ in each argument and replaces directories with
// the fixture files below them, sorted.
func ExpandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		expanded, err := homedir.Expand(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %s: %w", arg, err)
		}
		info, err := os.Stat(expanded)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, expanded)
			continue
		}

		var found []string
		err = filepath.WalkDir(expanded, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && fixtureExts[strings.ToLower(filepath.Ext(p))] {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", expanded, err)
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
