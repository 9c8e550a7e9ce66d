// pkg/layout/round.go
package layout

import "math"

// RoundLayout snaps the unrounded layout of every node under root to whole
// pixels and stores it as the final layout. Edges are rounded in absolute
// coordinates, so boxes that touch before rounding still touch afterwards
// and running it twice gives the same result.
func RoundLayout(tree RoundTree, root NodeId) (err error) {
	defer recoverInvalidNode(root, &err)
	roundNode(tree, root, Point[float64]{})
	return nil
}

// roundNode rounds node given the unrounded absolute position of its
// parent's content box.
func roundNode(tree RoundTree, node NodeId, parentContent Point[float64]) {
	u := tree.UnroundedLayout(node)
	abs := Point[float64]{X: parentContent.X + u.Location.X, Y: parentContent.Y + u.Location.Y}

	final := &Layout{
		Order: u.Order,
		Location: Point[float64]{
			X: math.Round(abs.X) - math.Round(parentContent.X),
			Y: math.Round(abs.Y) - math.Round(parentContent.Y),
		},
		Size: Size[float64]{
			Width:  roundSpan(abs.X, u.Size.Width),
			Height: roundSpan(abs.Y, u.Size.Height),
		},
		ContentSize: Size[float64]{
			Width:  roundSpan(abs.X, u.ContentSize.Width),
			Height: roundSpan(abs.Y, u.ContentSize.Height),
		},
		Margin: MapRect(u.Margin, math.Round),
	}
	final.Border, final.Padding = roundInsets(abs, u)
	tree.SetFinalLayout(node, final)

	content := Point[float64]{
		X: abs.X + u.Border.Left + u.Padding.Left,
		Y: abs.Y + u.Border.Top + u.Padding.Top,
	}
	n := tree.ChildCount(node)
	for i := 0; i < n; i++ {
		roundNode(tree, tree.ChildAt(node, i), content)
	}
}

// roundSpan is the rounded length of [start, start+length].
func roundSpan(start, length float64) float64 {
	return math.Round(start+length) - math.Round(start)
}

// roundInsets rounds border and padding edge by edge from the outside in.
func roundInsets(abs Point[float64], u *Layout) (border, padding Rect[float64]) {
	right := abs.X + u.Size.Width
	bottom := abs.Y + u.Size.Height

	border.Left = roundSpan(abs.X, u.Border.Left)
	border.Top = roundSpan(abs.Y, u.Border.Top)
	border.Right = roundSpan(right-u.Border.Right, u.Border.Right)
	border.Bottom = roundSpan(bottom-u.Border.Bottom, u.Border.Bottom)

	padding.Left = roundSpan(abs.X+u.Border.Left, u.Padding.Left)
	padding.Top = roundSpan(abs.Y+u.Border.Top, u.Padding.Top)
	padding.Right = roundSpan(right-u.Border.Right-u.Padding.Right, u.Padding.Right)
	padding.Bottom = roundSpan(bottom-u.Border.Bottom-u.Padding.Bottom, u.Padding.Bottom)
	return border, padding
}
