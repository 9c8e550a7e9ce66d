// pkg/layout/tree_test.go
package layout

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// -- Test Tree --

type testNode struct {
	style     Style
	children  []NodeId
	measure   MeasureFunc
	cache     Cache
	unrounded Layout
	final     Layout
}

// testTree is a slice-backed LayoutTree and RoundTree. NodeIds are indices.
type testTree struct {
	nodes []*testNode
}

var (
	_ LayoutTree = (*testTree)(nil)
	_ RoundTree  = (*testTree)(nil)
)

func (t *testTree) add(style Style, children ...NodeId) NodeId {
	t.nodes = append(t.nodes, &testNode{style: style, children: children})
	return NodeId(len(t.nodes) - 1)
}

func (t *testTree) addMeasured(style Style, fn MeasureFunc) NodeId {
	id := t.add(style)
	t.nodes[id].measure = fn
	return id
}

// unknownNodeError is what testTree panics with for a handle it never issued.
type unknownNodeError struct{ id NodeId }

func (e *unknownNodeError) Error() string       { return fmt.Sprintf("node %d: %v", e.id, ErrInvalidNode) }
func (e *unknownNodeError) Unwrap() error       { return ErrInvalidNode }
func (e *unknownNodeError) InvalidNode() NodeId { return e.id }

func (t *testTree) node(id NodeId) *testNode {
	if int(id) >= len(t.nodes) {
		panic(&unknownNodeError{id: id})
	}
	return t.nodes[id]
}

func (t *testTree) ChildCount(node NodeId) int                { return len(t.node(node).children) }
func (t *testTree) ChildAt(node NodeId, index int) NodeId     { return t.node(node).children[index] }
func (t *testTree) Style(node NodeId) StyleView               { return &t.node(node).style }
func (t *testTree) Cache(node NodeId) *Cache                  { return &t.node(node).cache }
func (t *testTree) MeasureFunc(node NodeId) MeasureFunc       { return t.node(node).measure }
func (t *testTree) UnroundedLayout(node NodeId) *Layout       { return &t.node(node).unrounded }
func (t *testTree) SetUnroundedLayout(node NodeId, l *Layout) { t.node(node).unrounded = *l }
func (t *testTree) SetFinalLayout(node NodeId, l *Layout)     { t.node(node).final = *l }

func (t *testTree) compute(tb testing.TB, root NodeId, available Size[AvailableSpace]) {
	tb.Helper()
	require.NoError(tb, ComputeLayout(t, root, available))
}

func (t *testTree) layout(id NodeId) Layout { return t.node(id).unrounded }

// -- Style Helpers --

func sized(w, h float64) Style {
	s := DefaultStyle()
	s.Size = Size[Dimension]{Width: Length(w), Height: Length(h)}
	return s
}

func withDisplay(s Style, d Display) Style {
	s.Display = d
	return s
}

func edges(v float64) Rect[Dimension] {
	return Rect[Dimension]{Left: Length(v), Right: Length(v), Top: Length(v), Bottom: Length(v)}
}

func fixedTracks(n int, size float64) []TemplateEntry {
	return []TemplateEntry{Repeat(n, FixedTrack(Length(size)))}
}

// fixedMeasure always reports the same content size.
func fixedMeasure(w, h float64) MeasureFunc {
	return func(Size[Opt], Size[AvailableSpace]) Size[float64] {
		return Size[float64]{Width: w, Height: h}
	}
}
