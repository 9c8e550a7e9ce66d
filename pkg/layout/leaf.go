// pkg/layout/leaf.go
package layout

import "math"

// computeLeaf sizes a childless node. Priority: known dimensions, then the
// aspect ratio applied to the known axis, then the measure function, then
// the style size.
func (p *layoutPass) computeLeaf(node NodeId, style CoreStyle, in LayoutInput) LayoutOutput {
	parentSize := in.ParentSize
	margin := resolveRectOrZero(style.GetMargin(), parentSize.Width)
	padding, border := boxEdges(style, parentSize.Width)
	inset := addRects(padding, border)
	pb := sumAxes(inset)

	var nodeSize, minSize, maxSize Size[Opt]
	if in.SizingMode == ContentSize {
		nodeSize = in.KnownDimensions
	} else {
		size, lo, hi := resolvedSizes(style, parentSize, pb)
		nodeSize = orSize(in.KnownDimensions, size)
		minSize, maxSize = lo, hi
	}
	nodeSize = applyAspectRatio(nodeSize, style.GetAspectRatio())

	canCollapse := func(height float64) bool {
		return height == 0 && pb.Height == 0 && minSize.Height.UnwrapOr(0) <= 0
	}

	if bothSet(nodeSize) && in.RunMode == ComputeSize {
		size := maxOptSize(clampSize(nodeSize, minSize, maxSize), pb)
		return outputFromSize(unwrapSizeOr(size, Size[float64]{}))
	}

	measureFn := p.tree.MeasureFunc(node)
	if measureFn == nil {
		size := unwrapSizeOr(maxOptSize(clampSize(nodeSize, minSize, maxSize), pb), pb)
		return LayoutOutput{
			Size:                      size,
			ContentSize:               sumAxes(padding),
			MarginsCanCollapseThrough: canCollapse(size.Height),
		}
	}

	available := Size[AvailableSpace]{
		Width:  leafAvailable(in.AvailableSpace.Width, margin.Left+margin.Right, nodeSize.Width, minSize.Width, maxSize.Width, pb.Width),
		Height: leafAvailable(in.AvailableSpace.Height, margin.Top+margin.Bottom, nodeSize.Height, minSize.Height, maxSize.Height, pb.Height),
	}
	known := Size[Opt]{Width: nodeSize.Width.Sub(pb.Width), Height: nodeSize.Height.Sub(pb.Height)}
	measured := p.measure(node, measureFn, known, available)

	clamped := clampSize(orSize(nodeSize, someSize(addSizes(measured, pb))), minSize, maxSize)
	size := unwrapSizeOr(clamped, Size[float64]{})
	if ratio := style.GetAspectRatio(); ratio.IsSet() && ratio.Value() > 0 && !nodeSize.Height.IsSet() {
		size.Height = math.Max(size.Height, size.Width/ratio.Value())
	}
	size = maxSizes(size, pb)

	return LayoutOutput{
		Size:                      size,
		ContentSize:               addSizes(measured, sumAxes(padding)),
		MarginsCanCollapseThrough: canCollapse(size.Height) && measured.Height == 0,
	}
}

// leafAvailable is the content-box space offered to a measure function.
func leafAvailable(outer AvailableSpace, marginSum float64, size, lo, hi Opt, pb float64) AvailableSpace {
	space := outer.Sub(marginSum).MaybeSet(size)
	if hi.IsSet() {
		space = Definite(maybeMin(space.UnwrapOr(hi.Value()), hi))
	}
	if space.IsDefinite() {
		return Definite(maybeClamp(space.value, lo, hi) - pb)
	}
	return space
}
