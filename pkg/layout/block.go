// pkg/layout/block.go
package layout

import "math"

// -- Block Layout --

type blockItem struct {
	child    layoutChild
	style    CoreStyle
	absolute bool
	static   Point[float64]
}

func (p *layoutPass) computeBlock(node NodeId, style CoreStyle, in LayoutInput) LayoutOutput {
	parentSize := in.ParentSize
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
	known := maxOptSize(clampSize(nodeSize, minSize, maxSize), pb)

	if in.RunMode == ComputeSize && bothSet(known) {
		return outputFromSize(unwrapSizeOr(known, Size[float64]{}))
	}

	items := p.blockItems(node)

	// Width: known, or shrink-to-fit the widest child.
	outerWidth := known.Width
	if !outerWidth.IsSet() {
		innerAvailable := in.AvailableSpace.Width.Sub(pb.Width)
		intrinsic := p.blockContentWidth(items, innerAvailable) + pb.Width
		outerWidth = Some(intrinsic).MaybeClamp(minSize.Width, maxSize.Width).MaybeMax(Some(pb.Width))
	}
	if in.RunMode == ComputeSize && in.Axis == AxisHorizontal {
		return outputFromSize(Size[float64]{Width: outerWidth.Value(), Height: known.Height.UnwrapOr(pb.Height)})
	}

	overflow := style.GetOverflow()
	collapse := Line[bool]{
		Start: in.VerticalMarginsAreCollapsible.Start && !overflow.Y.IsScrollContainer() &&
			style.GetPosition() != PositionAbsolute && padding.Top == 0 && border.Top == 0,
		End: in.VerticalMarginsAreCollapsible.End && !overflow.Y.IsScrollContainer() &&
			style.GetPosition() != PositionAbsolute && padding.Bottom == 0 && border.Bottom == 0 &&
			!nodeSize.Height.IsSet(),
	}

	innerWidth := math.Max(outerWidth.Value()-pb.Width, 0)
	innerHeight := known.Height.Sub(pb.Height)
	flow := p.blockFlow(items, in.RunMode, innerWidth, innerHeight, collapse)

	outerHeight := known.Height
	if !outerHeight.IsSet() {
		outerHeight = Some(flow.height + pb.Height).MaybeClamp(minSize.Height, maxSize.Height).MaybeMax(Some(pb.Height))
	}
	size := Size[float64]{Width: outerWidth.Value(), Height: outerHeight.Value()}

	out := LayoutOutput{Size: size}
	if collapse.Start {
		out.TopMargin = flow.firstTop
	}
	if collapse.End {
		out.BottomMargin = flow.lastBottom
	}
	out.MarginsCanCollapseThrough = collapse.Start && collapse.End && flow.collapsesThrough &&
		size.Height == pb.Height && minSize.Height.UnwrapOr(0) <= 0
	if flow.firstBaseline.IsSet() {
		out.FirstBaselines.Y = flow.firstBaseline.Add(inset.Top)
	}
	if in.RunMode == ComputeSize {
		return out
	}

	var absolute []layoutChild
	statics := make(map[NodeId]Point[float64])
	for _, item := range items {
		if item.absolute {
			absolute = append(absolute, item.child)
			statics[item.child.node] = item.static
		}
	}
	absExtent := p.layoutAbsoluteChildren(absolute, size, padding, border, func(c layoutChild, _ Size[float64]) Point[float64] {
		return statics[c.node]
	})
	out.ContentSize = finishContentSize(maxSizes(flow.extent, absExtent), padding, border)
	return out
}

func (p *layoutPass) blockItems(node NodeId) []blockItem {
	children := p.boxChildren(node)
	items := make([]blockItem, 0, len(children))
	for _, c := range children {
		s := p.tree.Style(c.node)
		items = append(items, blockItem{
			child:    c,
			style:    s,
			absolute: s.GetPosition() == PositionAbsolute,
		})
	}
	return items
}

// blockContentWidth is the widest in-flow child's outer width under the
// given sizing mode.
func (p *layoutPass) blockContentWidth(items []blockItem, available AvailableSpace) float64 {
	var widest float64
	parentSize := Size[Opt]{Width: available.AsOpt()}
	for _, item := range items {
		if item.absolute {
			continue
		}
		margin := resolveRectOrZero(item.style.GetMargin(), available.AsOpt())
		marginX := margin.Left + margin.Right
		width := p.measureChild(item.child.node, Size[Opt]{}, parentSize,
			Size[AvailableSpace]{Width: available.Sub(marginX), Height: MinContent}, AxisHorizontal).Width
		widest = math.Max(widest, width+marginX)
	}
	return widest
}

type blockFlowResult struct {
	height           float64
	extent           Size[float64]
	firstTop         CollapsibleMarginSet
	lastBottom       CollapsibleMarginSet
	collapsesThrough bool
	firstBaseline    Opt
}

// blockFlow stacks in-flow children in document order, collapsing adjoining
// vertical margins. Coordinates are relative to the content box.
func (p *layoutPass) blockFlow(items []blockItem, mode RunMode, innerWidth float64, innerHeight Opt, collapse Line[bool]) blockFlowResult {
	parentSize := Size[Opt]{Width: Some(innerWidth), Height: innerHeight}
	available := Size[AvailableSpace]{Width: Definite(innerWidth), Height: MinContent}

	var res blockFlowResult
	res.collapsesThrough = true
	var committedY float64
	var active CollapsibleMarginSet
	collapsingWithFirst := collapse.Start

	for i := range items {
		item := &items[i]
		if item.absolute {
			item.static = Point[float64]{Y: committedY + active.Resolve()}
			continue
		}
		margin := MapRect(item.style.GetMargin(), func(d Dimension) Opt { return d.Resolve(Some(innerWidth)) })
		marginLeft, marginRight := margin.Left.UnwrapOr(0), margin.Right.UnwrapOr(0)

		childPadding, childBorder := boxEdges(item.style, Some(innerWidth))
		childPB := sumAxes(addRects(childPadding, childBorder))
		size, minSize, maxSize := resolvedSizes(item.style, parentSize, childPB)
		width := size.Width.Or(Some(innerWidth - marginLeft - marginRight)).MaybeClamp(minSize.Width, maxSize.Width)

		out := p.ComputeChildLayout(item.child.node, LayoutInput{
			RunMode:                       mode,
			SizingMode:                    InherentSize,
			KnownDimensions:               Size[Opt]{Width: width},
			ParentSize:                    parentSize,
			AvailableSpace:                Size[AvailableSpace]{Width: available.Width.Sub(marginLeft + marginRight), Height: available.Height},
			VerticalMarginsAreCollapsible: Line[bool]{Start: true, End: true},
		})

		// Auto horizontal margins center or push the box.
		free := math.Max(innerWidth-out.Size.Width-marginLeft-marginRight, 0)
		switch {
		case !margin.Left.IsSet() && !margin.Right.IsSet():
			marginLeft, marginRight = free/2, free/2
		case !margin.Left.IsSet():
			marginLeft = free
		case !margin.Right.IsSet():
			marginRight = free
		}

		topSet := out.TopMargin.CollapseWithMargin(margin.Top.UnwrapOr(0))
		bottomSet := out.BottomMargin.CollapseWithMargin(margin.Bottom.UnwrapOr(0))

		var yOffset float64
		if !collapsingWithFirst {
			yOffset = active.CollapseWithSet(topSet).Resolve()
		}
		location := Point[float64]{X: marginLeft, Y: committedY + yOffset}
		rel := relativeOffset(item.style, parentSize)

		if collapsingWithFirst {
			res.firstTop = res.firstTop.CollapseWithSet(topSet)
		}
		if out.MarginsCanCollapseThrough {
			if collapsingWithFirst {
				res.firstTop = res.firstTop.CollapseWithSet(bottomSet)
			}
			active = active.CollapseWithSet(topSet).CollapseWithSet(bottomSet)
		} else {
			res.collapsesThrough = false
			collapsingWithFirst = false
			committedY = location.Y + out.Size.Height
			active = bottomSet
			if !res.firstBaseline.IsSet() {
				res.firstBaseline = Some(location.Y + out.FirstBaselines.Y.UnwrapOr(out.Size.Height))
			}
		}

		if mode == PerformLayout {
			final := Point[float64]{X: location.X + rel.X, Y: location.Y + rel.Y}
			resolved := Rect[float64]{Left: marginLeft, Right: marginRight, Top: margin.Top.UnwrapOr(0), Bottom: margin.Bottom.UnwrapOr(0)}
			p.setChildLayout(item.child, final, out, resolved, Some(innerWidth))
			res.extent = maxSizes(res.extent, contentContribution(final, out.Size, out.ContentSize, item.style.GetOverflow()))
		}
	}

	res.height = committedY
	if collapse.End {
		res.lastBottom = active
	} else {
		res.height += active.Resolve()
	}
	res.height = math.Max(res.height, 0)
	return res
}
