// internal/fixture/document_test.go
package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/boxlayout/pkg/boxtree"
	"github.com/xkilldash9x/boxlayout/pkg/layout"
)

// loadAndLayout builds the fixture at path into a fresh tree and lays it out.
func loadAndLayout(t *testing.T, path string) (*boxtree.Tree, *Built) {
	t.Helper()
	doc, err := Load(path)
	require.NoError(t, err)

	tree := boxtree.New()
	built, err := doc.Build(tree)
	require.NoError(t, err)
	avail, err := doc.AvailableSpace()
	require.NoError(t, err)
	require.NoError(t, tree.ComputeLayoutWithMeasure(built.Root, avail, DefaultMetrics.Measure))
	return tree, built
}

func frame(t *testing.T, tree *boxtree.Tree, id NodeId) [4]float64 {
	t.Helper()
	l, err := tree.Layout(id)
	require.NoError(t, err)
	return [4]float64{l.Location.X, l.Location.Y, l.Size.Width, l.Size.Height}
}

// -- Test Cases --

func TestLoad_FlexRow(t *testing.T) {
	tree, built := loadAndLayout(t, "testdata/flex_row.json")

	require.Len(t, built.IDs, 3)
	assert.Equal(t, [4]float64{0, 15, 50, 50}, frame(t, tree, built.IDs["a"]))
	assert.Equal(t, [4]float64{115, 0, 50, 80}, frame(t, tree, built.IDs["b"]))
	assert.Equal(t, [4]float64{230, 25, 50, 30}, frame(t, tree, built.IDs["c"]))
	assert.Equal(t, [4]float64{0, 0, 300, 100}, frame(t, tree, built.Root))
}

func TestLoad_NamedGridLines(t *testing.T) {
	tree, built := loadAndLayout(t, "testdata/named_lines.yaml")

	assert.Equal(t, built.Root, built.IDs["grid"])
	assert.Equal(t, [4]float64{0, 0, 100, 40}, frame(t, tree, built.IDs["nav"]))
	assert.Equal(t, [4]float64{100, 0, 200, 40}, frame(t, tree, built.IDs["body"]))
	assert.Equal(t, [4]float64{0, 0, 300, 40}, frame(t, tree, built.Root))

	ctx, err := tree.NodeContext(built.IDs["body"])
	require.NoError(t, err)
	assert.Equal(t, &Text{Content: "hello world"}, ctx)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("testdata/does_not_exist.yaml")
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	t.Run("name defaults are left to Load", func(t *testing.T) {
		doc, err := Decode([]byte("root: {style: {display: block}}"), FormatYAML)
		require.NoError(t, err)
		assert.Empty(t, doc.Name)
		assert.Equal(t, "block", doc.Root.Style["display"])
	})

	t.Run("unknown yaml fields are rejected", func(t *testing.T) {
		_, err := Decode([]byte("root: {colour: red}"), FormatYAML)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "document", perr.Path)
	})

	t.Run("unknown json fields are rejected", func(t *testing.T) {
		_, err := Decode([]byte(`{"root": {"colour": "red"}}`), FormatJSON)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "document", perr.Path)
		assert.Contains(t, err.Error(), "colour")

		doc, err := Decode([]byte(`{"name": "ok", "root": {"id": "a", "style": {"width": 10}}}`), FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, 10.0, doc.Root.Style["width"])
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := Decode([]byte(`{"root": [`), FormatJSON)
		assert.Error(t, err)
	})
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("a/b.JSON"))
	assert.Equal(t, FormatYAML, FormatForPath("a/b.yml"))
	assert.Equal(t, FormatYAML, FormatForPath("noext"))
}

func TestDocument_AvailableSpace(t *testing.T) {
	doc := &Document{Viewport: Viewport{Width: 320, Height: "min-content"}}
	avail, err := doc.AvailableSpace()
	require.NoError(t, err)
	assert.Equal(t, layout.Definite(320), avail.Width)
	assert.Equal(t, layout.MinContent, avail.Height)

	avail, err = (&Document{}).AvailableSpace()
	require.NoError(t, err)
	assert.Equal(t, layout.MaxContentSize, avail)

	_, err = (&Document{Viewport: Viewport{Height: "50%"}}).AvailableSpace()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "height", perr.Property)

	space, err := ParseAvailableSpace("640px")
	require.NoError(t, err)
	assert.Equal(t, layout.Definite(640), space)
}

func TestDocument_Build(t *testing.T) {
	t.Run("bad property values carry their path", func(t *testing.T) {
		doc := &Document{Root: Node{Children: []Node{
			{Style: map[string]any{"width": 10}},
			{Style: map[string]any{"width": "wide"}},
		}}}
		_, err := doc.Build(boxtree.New())

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "root.children[1]", perr.Path)
		assert.Equal(t, "width", perr.Property)
		assert.Equal(t, "wide", perr.Value)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		doc := &Document{Root: Node{Children: []Node{{ID: "x"}, {ID: "x"}}}}
		_, err := doc.Build(boxtree.New())

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "id", perr.Property)
	})

	t.Run("text nodes are leaves", func(t *testing.T) {
		doc := &Document{Root: Node{Text: "hi", Children: []Node{{}}}}
		_, err := doc.Build(boxtree.New())
		assert.Error(t, err)
	})

	t.Run("contents children see the outer grid's names", func(t *testing.T) {
		doc := &Document{Root: Node{
			Style: map[string]any{"display": "grid", "grid-template-columns": "[a] 10px [b] 20px [c]"},
			Children: []Node{{
				Style: map[string]any{"display": "contents"},
				Children: []Node{
					{ID: "item", Style: map[string]any{"grid-column": "b / c"}},
				},
			}},
		}}
		tree := boxtree.New()
		built, err := doc.Build(tree)
		require.NoError(t, err)

		style, err := tree.Style(built.IDs["item"])
		require.NoError(t, err)
		assert.Equal(t, layout.Line[layout.GridPlacement]{Start: layout.GridLine(2), End: layout.GridLine(3)}, style.GridColumn)
	})

	t.Run("unsupported properties", func(t *testing.T) {
		doc := &Document{Root: Node{Style: map[string]any{"float": "left"}}}
		_, err := doc.Build(boxtree.New())
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}
