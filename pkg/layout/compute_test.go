// pkg/layout/compute_test.go
package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLayout_MeasuredRoot(t *testing.T) {
	tree := &testTree{}
	root := tree.addMeasured(DefaultStyle(), fixedMeasure(200, 200))
	tree.compute(t, root, MaxContentSize)

	l := tree.layout(root)
	assert.Equal(t, Size[float64]{Width: 200, Height: 200}, l.Size)
	assert.Equal(t, Point[float64]{}, l.Location)
}

func TestComputeLayout_MeasureArguments(t *testing.T) {
	tree := &testTree{}
	var gotKnown Size[Opt]
	var gotAvailable Size[AvailableSpace]
	s := DefaultStyle()
	s.Size.Width = Length(60)
	s.Padding = edges(5)
	leaf := tree.addMeasured(s, func(known Size[Opt], available Size[AvailableSpace]) Size[float64] {
		gotKnown, gotAvailable = known, available
		return Size[float64]{Width: known.Width.UnwrapOr(0), Height: 12}
	})
	root := tree.add(sized(300, 300), leaf)
	tree.compute(t, root, DefiniteSize(500, 500))

	// Measure functions see content-box dimensions.
	assert.Equal(t, Some(50), gotKnown.Width)
	assert.False(t, gotKnown.Height.IsSet())
	assert.True(t, gotAvailable.Width.IsDefinite())
	assert.Equal(t, Size[float64]{Width: 60, Height: 22}, tree.layout(leaf).Size)
}

func TestComputeLayout_InvalidNode(t *testing.T) {
	tree := &testTree{}
	tree.add(DefaultStyle())

	err := ComputeLayout(tree, 99, MaxContentSize)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidNode))

	var layoutErr *LayoutError
	require.True(t, errors.As(err, &layoutErr))
	assert.Equal(t, NodeId(99), layoutErr.Node)

	t.Run("dangling child id", func(t *testing.T) {
		tree := &testTree{}
		root := tree.add(flexRow(100, 100), NodeId(42))
		err := ComputeLayout(tree, root, MaxContentSize)
		assert.ErrorIs(t, err, ErrInvalidNode)

		var layoutErr *LayoutError
		require.ErrorAs(t, err, &layoutErr)
		assert.Equal(t, NodeId(42), layoutErr.Node, "the error names the bad descendant, not the root")
	})

	t.Run("errors without a handle fall back to the root", func(t *testing.T) {
		var err error
		func() {
			defer recoverInvalidNode(7, &err)
			panic(fmt.Errorf("lookup: %w", ErrInvalidNode))
		}()
		var layoutErr *LayoutError
		require.ErrorAs(t, err, &layoutErr)
		assert.Equal(t, NodeId(7), layoutErr.Node)
	})

	t.Run("unrelated panics propagate", func(t *testing.T) {
		tree := &testTree{}
		root := tree.addMeasured(DefaultStyle(), func(Size[Opt], Size[AvailableSpace]) Size[float64] {
			panic("measure failed")
		})
		assert.PanicsWithValue(t, "measure failed", func() {
			_ = ComputeLayout(tree, root, MaxContentSize)
		})
	})
}

func TestComputeLayout_DisplayNone(t *testing.T) {
	tree := &testTree{}
	a := tree.add(sized(50, 10))
	grandchild := tree.add(sized(10, 10))
	b := tree.add(withDisplay(sized(70, 10), DisplayNone), grandchild)
	c := tree.add(sized(50, 10))
	root := tree.add(flexRow(300, 10), a, b, c)
	tree.compute(t, root, DefiniteSize(500, 500))

	assert.Equal(t, Layout{Order: 1}, tree.layout(b))
	assert.Equal(t, Size[float64]{}, tree.layout(grandchild).Size)
	assert.InDelta(t, 50.0, tree.layout(c).Location.X, 0.001, "hidden nodes take no space")

	t.Run("hidden root", func(t *testing.T) {
		tree := &testTree{}
		root := tree.add(withDisplay(sized(100, 100), DisplayNone))
		tree.compute(t, root, MaxContentSize)
		assert.Equal(t, Layout{}, tree.layout(root))
	})
}

func TestComputeLayout_DisplayContents(t *testing.T) {
	tree := &testTree{}
	item0 := tree.add(heightOnly(20))
	item1 := tree.add(heightOnly(20))
	item2 := tree.add(heightOnly(20))
	item3 := tree.add(heightOnly(20))
	wrapper := tree.add(withDisplay(sized(999, 999), DisplayContents), item1, item2, item3)

	grid := withDisplay(DefaultStyle(), DisplayGrid)
	grid.Size.Width = Length(120)
	grid.GridTemplateColumns = fixedTracks(3, 40)
	root := tree.add(grid, item0, wrapper)
	tree.compute(t, root, DefiniteSize(500, 500))

	assert.Equal(t, Point[float64]{X: 0, Y: 0}, tree.layout(item0).Location)
	assert.Equal(t, Point[float64]{X: 40, Y: 0}, tree.layout(item1).Location)
	assert.Equal(t, Point[float64]{X: 80, Y: 0}, tree.layout(item2).Location)
	assert.Equal(t, Point[float64]{X: 0, Y: 20}, tree.layout(item3).Location)
	assert.Equal(t, Size[float64]{}, tree.layout(wrapper).Size, "contents nodes generate no box")
	assert.InDelta(t, 40.0, tree.layout(root).Size.Height, 0.001)
}

func TestComputeLayout_MeasureMemo(t *testing.T) {
	type input struct {
		known     Size[Opt]
		available Size[AvailableSpace]
	}
	tree := &testTree{}
	calls := make(map[input]int)
	leaf := tree.addMeasured(DefaultStyle(), func(known Size[Opt], available Size[AvailableSpace]) Size[float64] {
		calls[input{known, available}]++
		return Size[float64]{Width: 40, Height: 10}
	})
	container := withDisplay(DefaultStyle(), DisplayGrid)
	container.GridTemplateColumns = []TemplateEntry{Single(AutoTrack)}
	root := tree.add(container, leaf)
	tree.compute(t, root, MaxContentSize)

	// Grid asks for the same item's contributions several times; within one
	// pass each distinct input reaches the measure function once.
	require.NotEmpty(t, calls)
	for in, n := range calls {
		assert.Equal(t, 1, n, "input %+v", in)
	}
	assert.Equal(t, Size[float64]{Width: 40, Height: 10}, tree.layout(root).Size)
}
