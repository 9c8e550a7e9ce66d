// internal/engine/engine_test.go
package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/config"
	"github.com/xkilldash9x/boxlayout/internal/reporting"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	flexRow    = "../fixture/testdata/flex_row.json"
	namedLines = "../fixture/testdata/named_lines.yaml"
)

type bufferCloser struct{ bytes.Buffer }

func (*bufferCloser) Close() error { return nil }

// collector keeps written results for inspection.
type collector struct {
	results []*reporting.Result
}

func (c *collector) Write(r *reporting.Result) error {
	c.results = append(c.results, r)
	return nil
}

func (c *collector) Close() error { return nil }

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newRunner(t *testing.T, mutate func(*config.Config)) *Runner {
	t.Helper()
	cfg := config.NewDefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	r, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	return r
}

// -- Test Cases --

func TestNew(t *testing.T) {
	_, err := New(nil, zap.NewNop())
	assert.Error(t, err)
	_, err = New(config.NewDefaultConfig(), nil)
	assert.Error(t, err)

	cfg := config.NewDefaultConfig()
	cfg.SetLayoutViewport("wide", "")
	_, err = New(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "invalid viewport width")
}

func TestRunner_Run(t *testing.T) {
	bad := writeFixture(t, t.TempDir(), "bad.yaml", "root:\n  style:\n    width: wide\n")
	r := newRunner(t, func(c *config.Config) { c.SetBatchConcurrency(2) })

	var out collector
	summary, err := r.Run(context.Background(), []string{flexRow, bad, namedLines}, &out)
	require.ErrorIs(t, err, ErrFixturesFailed)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Failed)
	assert.NotEmpty(t, summary.RunID)

	require.Len(t, out.results, 3)
	names := []string{out.results[0].Name, out.results[1].Name, out.results[2].Name}
	assert.Equal(t, []string{"flex-row", "bad", "named-lines"}, names, "results keep input order")
	for _, res := range out.results {
		assert.Equal(t, summary.RunID, res.RunID)
	}
	assert.Error(t, out.results[1].Err)
	assert.Contains(t, out.results[1].Err.Error(), "width")

	ok := out.results[0]
	require.NoError(t, ok.Err)
	for id, name := range ok.Names {
		if name == "b" {
			l, err := ok.Tree.Layout(id)
			require.NoError(t, err)
			assert.Equal(t, 115.0, l.Location.X)
		}
	}
}

func TestRunner_RunText(t *testing.T) {
	r := newRunner(t, nil)
	var buf bufferCloser
	rep := reporting.NewTextReporter(&buf)

	_, err := r.Run(context.Background(), []string{namedLines}, rep)
	require.NoError(t, err)
	require.NoError(t, rep.Close())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "=== named-lines ("+namedLines+")\nTREE\n"))
	assert.Contains(t, out, "GRID [x: 0 y: 0 w: 300 h: 40")
}

func TestRunner_FailFast(t *testing.T) {
	dir := t.TempDir()
	bad := writeFixture(t, dir, "bad.yaml", "root: [")
	r := newRunner(t, func(c *config.Config) {
		c.SetBatchConcurrency(1)
		c.BatchCfg.FailFast = true
	})

	var out collector
	_, err := r.Run(context.Background(), []string{bad, flexRow, namedLines}, &out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFixturesFailed)
	assert.Contains(t, err.Error(), bad)

	require.NotEmpty(t, out.results)
	assert.Equal(t, "bad", out.results[0].Name)
}

func TestRunner_Cancelled(t *testing.T) {
	r := newRunner(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out collector
	_, err := r.Run(ctx, []string{flexRow}, &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_ViewportOverride(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "text.yaml", `
viewport: {width: 400}
root:
  id: para
  text: hello world
`)
	r := newRunner(t, func(c *config.Config) { c.SetLayoutViewport("min-content", "") })

	res := r.Process(context.Background(), path)
	require.NoError(t, res.Err)
	l, err := res.Tree.Layout(res.Root)
	require.NoError(t, err)
	assert.Equal(t, 40.0, l.Size.Width, "min-content breaks after every word")
	assert.Equal(t, 32.0, l.Size.Height)
	assert.Equal(t, "para", res.Names[res.Root])
}

func TestRunner_Unrounded(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "thirds.yaml", `
root:
  style: {display: flex, width: 100, height: 10}
  children:
    - {style: {flex: 1}}
    - {id: mid, style: {flex: 1}}
    - {style: {flex: 1}}
`)
	r := newRunner(t, func(c *config.Config) { c.SetLayoutRounding(false) })

	var out collector
	_, err := r.Run(context.Background(), []string{path}, &out)
	require.NoError(t, err)
	res := out.results[0]
	for id, name := range res.Names {
		if name == "mid" {
			l, err := res.Tree.Layout(id)
			require.NoError(t, err)
			assert.InDelta(t, 100.0/3, l.Location.X, 1e-9)
		}
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	b := writeFixture(t, dir, "b.yaml", "root: {}")
	a := writeFixture(t, filepath.Join(dir, "nested"), "a.json", "{}")
	writeFixture(t, dir, "notes.txt", "skip me")

	paths, err := ExpandPaths([]string{dir, flexRow})
	require.NoError(t, err)
	assert.Equal(t, []string{b, a, flexRow}, paths)

	_, err = ExpandPaths([]string{filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}
