// pkg/layout/round_test.go
package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thirds(t *testing.T) (*testTree, NodeId, []NodeId) {
	t.Helper()
	tree := &testTree{}
	items := make([]NodeId, 3)
	for i := range items {
		s := DefaultStyle()
		s.FlexGrow = 1
		s.FlexBasis = Length(0)
		items[i] = tree.add(s)
	}
	root := tree.add(flexRow(100, 10), items...)
	tree.compute(t, root, DefiniteSize(500, 500))
	require.NoError(t, RoundLayout(tree, root))
	return tree, root, items
}

func (t *testTree) finals() []Layout {
	out := make([]Layout, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n.final
	}
	return out
}

// -- Test Cases --

func TestRoundLayout_EdgesStayContiguous(t *testing.T) {
	tree, root, items := thirds(t)

	var xs, widths []float64
	for _, id := range items {
		f := tree.node(id).final
		xs = append(xs, f.Location.X)
		widths = append(widths, f.Size.Width)
	}
	// Unrounded: 0, 33.33, 66.67 with width 33.33 each.
	assert.Equal(t, []float64{0, 33, 67}, xs)
	assert.Equal(t, []float64{33, 34, 33}, widths)

	var total float64
	for i := range items {
		total += widths[i]
		if i > 0 {
			assert.Equal(t, xs[i-1]+widths[i-1], xs[i], "gap before item %d", i)
		}
	}
	assert.Equal(t, tree.node(root).final.Size.Width, total)
}

func TestRoundLayout_Idempotent(t *testing.T) {
	tree, root, _ := thirds(t)
	first := tree.finals()

	require.NoError(t, ComputeLayout(tree, root, DefiniteSize(500, 500)))
	require.NoError(t, RoundLayout(tree, root))
	if diff := cmp.Diff(first, tree.finals()); diff != "" {
		t.Errorf("second pass changed the layout (-first +second):\n%s", diff)
	}
}

func TestRoundLayout_InsetsInsideTheBox(t *testing.T) {
	tree := &testTree{}
	s := sized(10.4, 10.4)
	s.Padding = Rect[Dimension]{Left: Length(1.3), Right: Length(1.3), Top: Length(1.3), Bottom: Length(1.3)}
	child := tree.add(s)
	container := widthOnly(100)
	container.Padding.Left = Length(0.6)
	root := tree.add(container, child)
	tree.compute(t, root, DefiniteSize(500, 500))
	require.NoError(t, RoundLayout(tree, root))

	f := tree.node(child).final
	// The child starts at absolute x 0.6: its rounded edges are 1 and 11.
	assert.Equal(t, 0.0, f.Location.X)
	assert.Equal(t, 10.0, f.Size.Width)
	assert.LessOrEqual(t, f.Padding.Left+f.Padding.Right, f.Size.Width)
	assert.Equal(t, 1.0, tree.node(root).final.Padding.Left)
}

func TestRoundLayout_InvalidNode(t *testing.T) {
	tree := &testTree{}
	err := RoundLayout(tree, 7)
	assert.ErrorIs(t, err, ErrInvalidNode)
}
