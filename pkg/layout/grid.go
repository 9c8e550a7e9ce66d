// pkg/layout/grid.go
package layout

import "math"

// -- CSS Grid --

type gridItem struct {
	child       layoutChild
	style       GridItemStyle
	row, col    axisPlacement
	rowRange    trackRange
	colRange    trackRange
	pb          Size[float64]
	size        Size[Opt]
	minSize     Size[Opt]
	maxSize     Size[Opt]
	alignSelf   AlignItems
	justifySelf AlignItems

	// Contributions memoized for the axis being sized.
	minContent Opt
	maxContent Opt
	minimum    Opt
}

func (it *gridItem) rangeFor(axis AbsoluteAxis) trackRange {
	if axis == Horizontal {
		return it.colRange
	}
	return it.rowRange
}

func (it *gridItem) marginSum(axis AbsoluteAxis, ref Opt) float64 {
	m := resolveRectOrZero(it.style.GetMargin(), ref)
	return axisSum(m, axis)
}

// stretches reports whether the item fills its area along axis: its self
// alignment is normal or stretch, its size is auto and neither margin is auto.
func (it *gridItem) stretches(axis AbsoluteAxis) bool {
	align := it.alignSelf
	if axis == Horizontal {
		align = it.justifySelf
	}
	if align != AlignNormal && align != AlignStretch {
		return false
	}
	if it.size.Get(axis).IsSet() {
		return false
	}
	margin := it.style.GetMargin()
	return !margin.Start(axis).IsAuto() && !margin.End(axis).IsAuto()
}

func (p *layoutPass) computeGrid(node NodeId, style StyleView, in LayoutInput) LayoutOutput {
	padding, border := boxEdges(style, in.ParentSize.Width)
	pb := sumAxes(addRects(padding, border))

	var nodeSize, minSize, maxSize Size[Opt]
	if in.SizingMode == ContentSize {
		nodeSize = in.KnownDimensions
	} else {
		size, lo, hi := resolvedSizes(style, in.ParentSize, pb)
		nodeSize = orSize(in.KnownDimensions, clampSize(size, lo, hi))
		minSize, maxSize = lo, hi
	}
	nodeSize = maxOptSize(nodeSize, pb)
	if in.RunMode == ComputeSize && bothSet(nodeSize) {
		return outputFromSize(unwrapSizeOr(nodeSize, Size[float64]{}))
	}

	inner := Size[Opt]{Width: nodeSize.Width.Sub(pb.Width), Height: nodeSize.Height.Sub(pb.Height)}
	margin := resolveRectOrZero(style.GetMargin(), in.ParentSize.Width)
	available := Size[AvailableSpace]{
		Width:  in.AvailableSpace.Width.Sub(margin.Left + margin.Right + pb.Width).MaybeSet(inner.Width),
		Height: in.AvailableSpace.Height.Sub(margin.Top + margin.Bottom + pb.Height).MaybeSet(inner.Height),
	}

	inFlow, absolute := p.partitionPositioned(p.boxChildren(node))
	colTemplate := expandTemplate(style.GetGridTemplateColumns())
	rowTemplate := expandTemplate(style.GetGridTemplateRows())
	items, colCounts, rowCounts := p.placeGrid(style, inFlow, len(colTemplate), len(rowTemplate), inner)

	gap := style.GetGap()
	cols := initializeTracks(colCounts, colTemplate, style.GetGridAutoColumns(), gap.Width, inner.Width)
	rows := initializeTracks(rowCounts, rowTemplate, style.GetGridAutoRows(), gap.Height, inner.Height)

	(&trackSizer{
		p:              p,
		axis:           Horizontal,
		tracks:         cols,
		items:          items,
		available:      available.Width,
		otherAvailable: available.Height,
		inner:          inner,
		alignment:      style.GetJustifyContent(),
	}).run()
	if !inner.Width.IsSet() {
		inner.Width = containerInner(sumBaseSizes(cols, allTracks(cols)), pb.Width, minSize.Width, maxSize.Width)
	}
	if in.RunMode == ComputeSize && in.Axis == AxisHorizontal {
		return outputFromSize(Size[float64]{Width: inner.Width.Value() + pb.Width, Height: nodeSize.Height.UnwrapOr(pb.Height)})
	}

	(&trackSizer{
		p:           p,
		axis:        Vertical,
		tracks:      rows,
		items:       items,
		available:   available.Height,
		otherTracks: cols,
		inner:       inner,
		alignment:   style.GetAlignContent(),
	}).run()
	if !inner.Height.IsSet() {
		inner.Height = containerInner(sumBaseSizes(rows, allTracks(rows)), pb.Height, minSize.Height, maxSize.Height)
	}

	size := Size[float64]{Width: inner.Width.Value() + pb.Width, Height: inner.Height.Value() + pb.Height}
	if in.RunMode == ComputeSize {
		return outputFromSize(size)
	}

	alignTracks(cols, inner.Width.Value(), style.GetJustifyContent())
	alignTracks(rows, inner.Height.Value(), style.GetAlignContent())

	out := LayoutOutput{Size: size}
	var extent Size[float64]
	var baselineItem *gridItem
	for _, item := range items {
		location, childOut := p.layoutGridItem(item, cols, rows, inner)
		extent = maxSizes(extent, contentContribution(location, childOut.Size, childOut.ContentSize, item.style.GetOverflow()))
		if baselineItem == nil || item.row.start < baselineItem.row.start {
			baselineItem = item
			base := childOut.FirstBaselines.Y.UnwrapOr(childOut.Size.Height)
			out.FirstBaselines.Y = Some(border.Top + padding.Top + location.Y + base)
		}
	}

	contentBox := unwrapSizeOr(inner, Size[float64]{})
	absExtent := p.layoutAbsoluteChildren(absolute, size, padding, border, func(child layoutChild, outer Size[float64]) Point[float64] {
		s := p.tree.Style(child.node)
		return Point[float64]{
			X: selfOffset(contentBox.Width-outer.Width, orAlign(s.GetJustifySelf(), style.GetJustifyItems())),
			Y: selfOffset(contentBox.Height-outer.Height, orAlign(s.GetAlignSelf(), style.GetAlignItems())),
		}
	})
	out.ContentSize = finishContentSize(maxSizes(extent, absExtent), padding, border)
	return out
}

// containerInner clamps the summed track sizes into the container's
// min/max range and returns the inner size.
func containerInner(tracks, pb float64, lo, hi Opt) Opt {
	outer := maybeClamp(tracks+pb, lo, hi)
	return Some(math.Max(outer, pb) - pb)
}

// placeGrid resolves every in-flow child to a grid area and returns the
// final implicit grid extents.
func (p *layoutPass) placeGrid(style GridContainerStyle, children []layoutChild, explicitCols, explicitRows int, inner Size[Opt]) ([]*gridItem, trackCounts, trackCounts) {
	styles := make([]StyleView, len(children))
	reqs := make([]placementRequest, len(children))
	for i, c := range children {
		s := p.tree.Style(c.node)
		styles[i] = s
		reqs[i] = placementRequest{
			row: resolveAxisPlacement(s.GetGridRow(), explicitRows),
			col: resolveAxisPlacement(s.GetGridColumn(), explicitCols),
		}
	}
	colCounts, rowCounts := estimateTrackCounts(reqs, explicitCols, explicitRows)
	m := newCellOccupancyMatrix(colCounts, rowCounts)
	placed := placeGridItems(m, reqs, style.GetGridAutoFlow())

	items := make([]*gridItem, 0, len(children))
	for i, c := range children {
		s := styles[i]
		padding, border := boxEdges(s, inner.Width)
		pb := sumAxes(addRects(padding, border))
		size, lo, hi := resolvedSizes(s, inner, pb)
		items = append(items, &gridItem{
			child:       c,
			style:       s,
			row:         placed[i].row,
			col:         placed[i].col,
			rowRange:    placementRange(placed[i].row, m.rows),
			colRange:    placementRange(placed[i].col, m.cols),
			pb:          pb,
			size:        size,
			minSize:     lo,
			maxSize:     hi,
			alignSelf:   orAlign(s.GetAlignSelf(), style.GetAlignItems()),
			justifySelf: orAlign(s.GetJustifySelf(), style.GetJustifyItems()),
		})
	}
	return items, m.cols, m.rows
}

// orAlign falls back to the container's default when the item's own value
// is normal. Baseline is treated as start in grid layout.
func orAlign(self, container AlignItems) AlignItems {
	a := self
	if a == AlignNormal {
		a = container
	}
	if a == AlignBaseline {
		return AlignStart
	}
	return a
}
