// internal/snapshot/snapshot_test.go
package snapshot_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/reporting"
	"github.com/xkilldash9x/boxlayout/internal/snapshot"
)

func doc(name string, width float64) *reporting.Document {
	return &reporting.Document{
		RunID: "run-a",
		Name:  name,
		Path:  name + ".yaml",
		Root: &reporting.Node{
			Node: 2, Display: "flex", Width: width, Height: 20,
			Children: []*reporting.Node{{ID: "leaf", Node: 1, Display: "block", Width: 30, Height: 20}},
		},
	}
}

func TestComparer_Compare(t *testing.T) {
	c := snapshot.NewComparer(zap.NewNop(), snapshot.DefaultOptions())

	t.Run("run ids, paths and node numbers are ignored", func(t *testing.T) {
		b := doc("row", 100)
		b.RunID = "run-b"
		b.Path = "elsewhere/row.yaml"
		b.Root.Node = 7
		b.Root.Children[0].Children = []*reporting.Node{}

		res := c.Compare(doc("row", 100), b)
		assert.Equal(t, snapshot.StatusMatch, res.Status)
		assert.Empty(t, res.Diff)
	})

	t.Run("sub-tolerance noise is equal", func(t *testing.T) {
		res := c.Compare(doc("row", 100), doc("row", 100.004))
		assert.Equal(t, snapshot.StatusMatch, res.Status)
	})

	t.Run("a moved box is a change", func(t *testing.T) {
		b := doc("row", 100)
		b.Root.Children[0].X = 12
		res := c.Compare(doc("row", 100), b)
		assert.Equal(t, snapshot.StatusChanged, res.Status)
		assert.Contains(t, res.Diff, "X")
	})

	t.Run("strict options see node numbers", func(t *testing.T) {
		strict := snapshot.NewComparer(zap.NewNop(), snapshot.Options{})
		b := doc("row", 100)
		b.Root.Node = 9
		assert.Equal(t, snapshot.StatusChanged, strict.Compare(doc("row", 100), b).Status)
	})
}

func TestComparer_CompareAll(t *testing.T) {
	c := snapshot.NewComparer(zap.NewNop(), snapshot.DefaultOptions())
	expected := map[string]*reporting.Document{
		"same":  doc("same", 100),
		"wider": doc("wider", 100),
		"old-b": doc("old-b", 1),
		"old-a": doc("old-a", 1),
	}
	actual := []*reporting.Document{doc("wider", 120), doc("fresh", 5), doc("same", 100)}

	got := c.CompareAll(expected, actual)
	require.Len(t, got, 5)

	var summary []string
	for _, r := range got {
		summary = append(summary, r.Name+":"+r.Status.String())
	}
	assert.Equal(t, []string{"wider:changed", "fresh:new", "same:ok", "old-a:removed", "old-b:removed"}, summary)
}

func TestLoad(t *testing.T) {
	var buf strings.Builder
	rep := reporting.NewJSONReporter(nopCloser{&buf})
	require.NoError(t, rep.Write(&reporting.Result{RunID: "r", Name: "broken", Path: "b.yaml", Err: errors.New("bad width")}))
	require.NoError(t, rep.Close())

	docs, err := snapshot.Load(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Contains(t, docs, "broken")
	assert.Equal(t, "bad width", docs["broken"].Error)

	_, err = snapshot.Load(strings.NewReader(buf.String() + buf.String()))
	assert.ErrorContains(t, err, "duplicate snapshot entry")

	_, err = snapshot.Load(strings.NewReader("{not json"))
	assert.ErrorContains(t, err, "failed to decode snapshot entry 1")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"a","path":"a.yaml","run_id":"x"}`+"\n"), 0o644))

	docs, err := snapshot.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = snapshot.LoadFile(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	var rec snapshot.Recorder
	require.NoError(t, rec.Write(&reporting.Result{Name: "broken", Err: errors.New("bad")}))
	require.NoError(t, rec.Close())
	require.Len(t, rec.Documents, 1)
	assert.Equal(t, "bad", rec.Documents[0].Error)
}

type nopCloser struct{ *strings.Builder }

func (nopCloser) Close() error { return nil }
