// pkg/layout/absolute_test.go
package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func absolute(w, h Dimension, inset Rect[Dimension]) Style {
	s := DefaultStyle()
	s.Position = PositionAbsolute
	s.Size = Size[Dimension]{Width: w, Height: h}
	s.Inset = inset
	return s
}

// paddedBlock is a 200x200 block container with 10px padding.
func paddedBlock() Style {
	s := sized(200, 200)
	s.Padding = edges(10)
	return s
}

// -- Test Cases --

func TestAbsolute_Insets(t *testing.T) {
	cases := []struct {
		name     string
		style    Style
		location Point[float64]
		size     Size[float64]
	}{
		{
			name:     "left and top zero sit on the padding edge",
			style:    absolute(Length(30), Length(30), Rect[Dimension]{Left: Length(0), Top: Length(0)}),
			location: Point[float64]{X: -10, Y: -10},
			size:     Size[float64]{Width: 30, Height: 30},
		},
		{
			name:     "right and bottom anchor to the far edge",
			style:    absolute(Length(30), Length(30), Rect[Dimension]{Right: Length(0), Bottom: Length(0)}),
			location: Point[float64]{X: 160, Y: 160},
			size:     Size[float64]{Width: 30, Height: 30},
		},
		{
			name:     "opposing insets define the width",
			style:    absolute(Auto, Length(30), Rect[Dimension]{Left: Length(10), Right: Length(20), Top: Length(0)}),
			location: Point[float64]{X: 0, Y: -10},
			size:     Size[float64]{Width: 170, Height: 30},
		},
		{
			name:     "percent insets resolve against the padding box",
			style:    absolute(Length(20), Length(20), Rect[Dimension]{Left: Percent(0.5), Top: Percent(0.25)}),
			location: Point[float64]{X: 90, Y: 40},
			size:     Size[float64]{Width: 20, Height: 20},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree := &testTree{}
			child := tree.add(tc.style)
			root := tree.add(paddedBlock(), child)
			tree.compute(t, root, DefiniteSize(500, 500))

			assert.Equal(t, tc.location, tree.layout(child).Location)
			assert.Equal(t, tc.size, tree.layout(child).Size)
		})
	}
}

func TestAbsolute_AutoMarginsCenter(t *testing.T) {
	tree := &testTree{}
	s := absolute(Length(50), Length(50), Rect[Dimension]{Left: Length(0), Right: Length(0), Top: Length(0)})
	s.Margin.Left, s.Margin.Right = Auto, Auto
	child := tree.add(s)
	root := tree.add(paddedBlock(), child)
	tree.compute(t, root, DefiniteSize(500, 500))

	// 200 - 50 leaves 150 split across both margins.
	assert.InDelta(t, -10.0+75, tree.layout(child).Location.X, 0.001)
	assert.InDelta(t, 75.0, tree.layout(child).Margin.Left, 0.001)
}

func TestAbsolute_StaticPositionInBlock(t *testing.T) {
	tree := &testTree{}
	flow := tree.add(heightOnly(50))
	positioned := tree.add(absolute(Length(10), Length(10), Rect[Dimension]{}))
	root := tree.add(paddedBlock(), flow, positioned)
	tree.compute(t, root, DefiniteSize(500, 500))

	assert.Equal(t, Point[float64]{X: 0, Y: 50}, tree.layout(positioned).Location)
	assert.InDelta(t, 0.0, tree.layout(flow).Location.Y, 0.001, "out-of-flow boxes take no space")
}

func TestAbsolute_RelativeOffset(t *testing.T) {
	tree := &testTree{}
	shifted := heightOnly(20)
	shifted.Inset = Rect[Dimension]{Left: Length(5), Right: Length(100), Bottom: Length(3)}
	a := tree.add(shifted)
	b := tree.add(heightOnly(20))
	root := tree.add(sized(100, 100), a, b)
	tree.compute(t, root, DefiniteSize(500, 500))

	assert.Equal(t, Point[float64]{X: 5, Y: -3}, tree.layout(a).Location)
	assert.Equal(t, Point[float64]{X: 0, Y: 20}, tree.layout(b).Location, "siblings ignore the offset")
}

func TestAbsolute_StaticPositionInFlex(t *testing.T) {
	cases := []struct {
		name     string
		style    func(s *Style)
		location Point[float64]
	}{
		{
			name:     "flex-start by default",
			style:    func(*Style) {},
			location: Point[float64]{X: 0, Y: 0},
		},
		{
			name: "justify-content and align-items",
			style: func(s *Style) {
				s.JustifyContent = ContentCenter
				s.AlignItems = AlignFlexEnd
			},
			location: Point[float64]{X: 90, Y: 90},
		},
		{
			name:     "row-reverse starts at the right",
			style:    func(s *Style) { s.FlexDirection = FlexDirectionRowReverse },
			location: Point[float64]{X: 180, Y: 0},
		},
		{
			name: "column swaps the axes",
			style: func(s *Style) {
				s.FlexDirection = FlexDirectionColumn
				s.JustifyContent = ContentEnd
				s.AlignItems = AlignCenter
			},
			location: Point[float64]{X: 90, Y: 90},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree := &testTree{}
			inFlow := tree.add(sized(50, 50))
			positioned := tree.add(absolute(Length(20), Length(10), Rect[Dimension]{}))
			container := flexRow(200, 100)
			tc.style(&container)
			root := tree.add(container, inFlow, positioned)
			tree.compute(t, root, DefiniteSize(500, 500))

			assert.Equal(t, tc.location, tree.layout(positioned).Location)
		})
	}
}

func TestAbsolute_StaticPositionInGrid(t *testing.T) {
	tree := &testTree{}
	self := absolute(Length(20), Length(10), Rect[Dimension]{})
	self.AlignSelf = AlignEnd
	positioned := tree.add(self)
	anchored := tree.add(absolute(Length(20), Length(10), Rect[Dimension]{Left: Length(5)}))

	container := gridContainer(120, 120)
	container.JustifyItems = AlignCenter
	root := tree.add(container, positioned, anchored)
	tree.compute(t, root, DefiniteSize(500, 500))

	assert.Equal(t, Point[float64]{X: 50, Y: 110}, tree.layout(positioned).Location)
	assert.Equal(t, Point[float64]{X: 5, Y: 0}, tree.layout(anchored).Location, "a set inset wins over the static position")
}
