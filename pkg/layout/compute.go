// pkg/layout/compute.go
package layout

import "math"

// ComputeLayout lays out the tree under root within available and writes
// every node's unrounded layout. Call RoundLayout afterwards to snap the
// result to whole pixels.
//
// Style accessors and measure functions must not call back into
// ComputeLayout on the same tree.
func ComputeLayout(tree LayoutTree, root NodeId, available Size[AvailableSpace]) (err error) {
	defer recoverInvalidNode(root, &err)
	newLayoutPass(tree).layoutRoot(root, available)
	return nil
}

// -- Layout Pass --

// layoutPass is the context threaded through one ComputeLayout call. It
// owns the measure memo, which is cleared when the outermost frame returns,
// so separate passes over separate trees never share state.
type layoutPass struct {
	tree     LayoutTree
	depth    int
	measured map[measureKey]Size[float64]
}

type measureKey struct {
	node      NodeId
	known     Size[Opt]
	available Size[AvailableSpace]
}

func newLayoutPass(tree LayoutTree) *layoutPass {
	return &layoutPass{tree: tree, measured: make(map[measureKey]Size[float64])}
}

func (p *layoutPass) layoutRoot(root NodeId, available Size[AvailableSpace]) {
	style := p.tree.Style(root)
	if style.GetDisplay() == DisplayNone {
		p.hide(root, 0)
		return
	}
	parentSize := availableAsOpts(available)
	padding, border := boxEdges(style, parentSize.Width)
	pb := sumAxes(addRects(padding, border))
	margin := resolveRectOrZero(style.GetMargin(), parentSize.Width)

	var known Size[Opt]
	if style.GetDisplay() == DisplayBlock {
		// A block-level root stretches to the available width like any
		// other block box.
		size, minSize, maxSize := resolvedSizes(style, parentSize, pb)
		known.Width = size.Width.
			Or(parentSize.Width.Sub(margin.Left + margin.Right)).
			MaybeClamp(minSize.Width, maxSize.Width).
			MaybeMax(Some(pb.Width))
	}

	out := p.ComputeChildLayout(root, LayoutInput{
		RunMode:         PerformLayout,
		SizingMode:      InherentSize,
		KnownDimensions: known,
		ParentSize:      parentSize,
		AvailableSpace:  available,
	})
	p.tree.SetUnroundedLayout(root, &Layout{
		Location:    Point[float64]{X: margin.Left, Y: margin.Top},
		Size:        out.Size,
		ContentSize: out.ContentSize,
		Padding:     padding,
		Border:      border,
		Margin:      margin,
	})
}

// ComputeChildLayout is the single recursive entry point. Algorithms call it
// to size or lay out a child without knowing its kind; compatible repeated
// requests are served from the child's cache.
func (p *layoutPass) ComputeChildLayout(node NodeId, in LayoutInput) LayoutOutput {
	p.depth++
	defer p.leave()

	cache := p.tree.Cache(node)
	if out, ok := cache.Get(in); ok {
		return out
	}
	out := p.dispatch(node, in)
	cache.Store(in, out)
	return out
}

func (p *layoutPass) leave() {
	p.depth--
	if p.depth == 0 {
		clear(p.measured)
	}
}

// dispatch switches once over the node's display mode.
func (p *layoutPass) dispatch(node NodeId, in LayoutInput) LayoutOutput {
	style := p.tree.Style(node)
	display := style.GetDisplay()
	if display == DisplayNone || display == DisplayContents {
		p.hideChildren(node)
		return LayoutOutput{}
	}
	if p.tree.ChildCount(node) == 0 {
		return p.computeLeaf(node, style, in)
	}
	switch display {
	case DisplayFlex:
		return p.computeFlexbox(node, style, in)
	case DisplayGrid:
		return p.computeGrid(node, style, in)
	default:
		return p.computeBlock(node, style, in)
	}
}

// measure calls fn at most once per distinct input within a pass.
func (p *layoutPass) measure(node NodeId, fn MeasureFunc, known Size[Opt], available Size[AvailableSpace]) Size[float64] {
	key := measureKey{node: node, known: known, available: available}
	if s, ok := p.measured[key]; ok {
		return s
	}
	s := fn(known, available)
	s = Size[float64]{Width: clampNonNegative(s.Width), Height: clampNonNegative(s.Height)}
	p.measured[key] = s
	return s
}

// -- Children --

type layoutChild struct {
	node  NodeId
	order uint32
}

// boxChildren returns the children that generate boxes. display:none
// children are hidden along with their subtree; display:contents children
// are replaced by their own children, recursively.
func (p *layoutPass) boxChildren(node NodeId) []layoutChild {
	var out []layoutChild
	p.collectBoxChildren(node, &out)
	return out
}

func (p *layoutPass) collectBoxChildren(node NodeId, out *[]layoutChild) {
	n := p.tree.ChildCount(node)
	for i := 0; i < n; i++ {
		child := p.tree.ChildAt(node, i)
		switch p.tree.Style(child).GetDisplay() {
		case DisplayNone:
			p.hide(child, uint32(i))
		case DisplayContents:
			p.tree.SetUnroundedLayout(child, &Layout{Order: uint32(i)})
			p.collectBoxChildren(child, out)
		default:
			*out = append(*out, layoutChild{node: child, order: uint32(len(*out))})
		}
	}
}

func (p *layoutPass) hide(node NodeId, order uint32) {
	p.tree.SetUnroundedLayout(node, &Layout{Order: order})
	p.tree.Cache(node).Clear()
	p.hideChildren(node)
}

func (p *layoutPass) hideChildren(node NodeId) {
	n := p.tree.ChildCount(node)
	for i := 0; i < n; i++ {
		p.hide(p.tree.ChildAt(node, i), uint32(i))
	}
}

// setChildLayout writes a child's final geometry. parentWidth is the
// reference for the child's padding and border percentages.
func (p *layoutPass) setChildLayout(child layoutChild, location Point[float64], out LayoutOutput, margin Rect[float64], parentWidth Opt) {
	padding, border := boxEdges(p.tree.Style(child.node), parentWidth)
	p.tree.SetUnroundedLayout(child.node, &Layout{
		Order:       child.order,
		Location:    location,
		Size:        out.Size,
		ContentSize: out.ContentSize,
		Padding:     padding,
		Border:      border,
		Margin:      margin,
	})
}

// measureChild asks for a child's size without laying it out.
func (p *layoutPass) measureChild(node NodeId, known, parentSize Size[Opt], available Size[AvailableSpace], axis RequestedAxis) Size[float64] {
	return p.ComputeChildLayout(node, LayoutInput{
		RunMode:         ComputeSize,
		SizingMode:      InherentSize,
		Axis:            axis,
		KnownDimensions: known,
		ParentSize:      parentSize,
		AvailableSpace:  available,
	}).Size
}

// measureContent is measureChild ignoring the child's own style size, for
// content-based minimums.
func (p *layoutPass) measureContent(node NodeId, known, parentSize Size[Opt], available Size[AvailableSpace], axis RequestedAxis) Size[float64] {
	return p.ComputeChildLayout(node, LayoutInput{
		RunMode:         ComputeSize,
		SizingMode:      ContentSize,
		Axis:            axis,
		KnownDimensions: known,
		ParentSize:      parentSize,
		AvailableSpace:  available,
	}).Size
}

// -- Content Size --

// contentContribution is how far a child at location extends its parent's
// scrollable area, in the parent's content-box coordinates.
func contentContribution(location Point[float64], size, contentSize Size[float64], overflow Point[Overflow]) Size[float64] {
	if size.Width <= 0 || size.Height <= 0 {
		return Size[float64]{}
	}
	w, h := size.Width, size.Height
	if overflow.X == OverflowVisible {
		w = math.Max(w, contentSize.Width)
	}
	if overflow.Y == OverflowVisible {
		h = math.Max(h, contentSize.Height)
	}
	return Size[float64]{Width: location.X + w, Height: location.Y + h}
}

// finishContentSize converts a content-box extent into a content size
// measured from the border-box origin.
func finishContentSize(extent Size[float64], padding, border Rect[float64]) Size[float64] {
	return Size[float64]{
		Width:  extent.Width + border.Left + padding.Left + padding.Right,
		Height: extent.Height + border.Top + padding.Top + padding.Bottom,
	}
}
