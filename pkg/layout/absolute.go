// pkg/layout/absolute.go
package layout

import "math"

// -- Absolute Positioning --

// layoutAbsoluteChildren lays out absolutely positioned children against
// the container's padding box. staticPosition returns the static position
// of a child's margin box, of the given outer size, in content-box
// coordinates. It may be nil, meaning the content-box origin. The returned
// extent feeds the container's content size.
func (p *layoutPass) layoutAbsoluteChildren(
	children []layoutChild,
	containerSize Size[float64],
	padding, border Rect[float64],
	staticPosition func(child layoutChild, outer Size[float64]) Point[float64],
) Size[float64] {
	area := Size[float64]{
		Width:  math.Max(containerSize.Width-border.Left-border.Right, 0),
		Height: math.Max(containerSize.Height-border.Top-border.Bottom, 0),
	}
	areaOpt := someSize(area)
	origin := Point[float64]{X: -padding.Left, Y: -padding.Top}

	var extent Size[float64]
	for _, child := range children {
		style := p.tree.Style(child.node)
		childPadding, childBorder := boxEdges(style, areaOpt.Width)
		pb := sumAxes(addRects(childPadding, childBorder))
		size, minSize, maxSize := resolvedSizes(style, areaOpt, pb)
		inset := resolveInset(style.GetInset(), areaOpt)
		margin := MapRect(style.GetMargin(), func(d Dimension) Opt { return d.Resolve(areaOpt.Width) })

		marginX := margin.Left.UnwrapOr(0) + margin.Right.UnwrapOr(0)
		marginY := margin.Top.UnwrapOr(0) + margin.Bottom.UnwrapOr(0)
		if !size.Width.IsSet() && inset.Left.IsSet() && inset.Right.IsSet() {
			size.Width = Some(math.Max(area.Width-inset.Left.Value()-inset.Right.Value()-marginX, 0))
		}
		if !size.Height.IsSet() && inset.Top.IsSet() && inset.Bottom.IsSet() {
			size.Height = Some(math.Max(area.Height-inset.Top.Value()-inset.Bottom.Value()-marginY, 0))
		}
		size = clampSize(applyAspectRatio(size, style.GetAspectRatio()), minSize, maxSize)

		available := Size[AvailableSpace]{
			Width:  Definite(area.Width - inset.Left.UnwrapOr(0) - inset.Right.UnwrapOr(0) - marginX),
			Height: Definite(area.Height - inset.Top.UnwrapOr(0) - inset.Bottom.UnwrapOr(0) - marginY),
		}
		if !bothSet(size) {
			measured := p.measureChild(child.node, size, areaOpt, available, AxisBoth)
			size = clampSize(orSize(size, someSize(measured)), minSize, maxSize)
		}
		final := unwrapSizeOr(maxOptSize(size, pb), pb)

		out := p.ComputeChildLayout(child.node, LayoutInput{
			RunMode:         PerformLayout,
			SizingMode:      InherentSize,
			KnownDimensions: someSize(final),
			ParentSize:      areaOpt,
			AvailableSpace:  available,
		})
		out.Size = final

		left, right := resolveAbsoluteMargins(margin.Left, margin.Right, inset.Left, inset.Right, area.Width, final.Width)
		top, bottom := resolveAbsoluteMargins(margin.Top, margin.Bottom, inset.Top, inset.Bottom, area.Height, final.Height)
		resolvedMargin := Rect[float64]{Left: left, Right: right, Top: top, Bottom: bottom}

		static := Point[float64]{}
		if staticPosition != nil {
			static = staticPosition(child, Size[float64]{Width: final.Width + left + right, Height: final.Height + top + bottom})
		}

		location := Point[float64]{
			X: absoluteOffset(inset.Left, inset.Right, origin.X, static.X, area.Width, final.Width, left, right),
			Y: absoluteOffset(inset.Top, inset.Bottom, origin.Y, static.Y, area.Height, final.Height, top, bottom),
		}
		p.setChildLayout(child, location, out, resolvedMargin, areaOpt.Width)
		extent = maxSizes(extent, contentContribution(location, final, out.ContentSize, style.GetOverflow()))
	}
	return extent
}

// resolveAbsoluteMargins fills auto margins. They only absorb free space
// when both insets are set; otherwise they are zero.
func resolveAbsoluteMargins(start, end, insetStart, insetEnd Opt, area, size float64) (float64, float64) {
	if !insetStart.IsSet() || !insetEnd.IsSet() || (start.IsSet() && end.IsSet()) {
		return start.UnwrapOr(0), end.UnwrapOr(0)
	}
	free := area - insetStart.Value() - insetEnd.Value() - size - start.UnwrapOr(0) - end.UnwrapOr(0)
	switch {
	case !start.IsSet() && !end.IsSet():
		if free < 0 {
			return 0, free
		}
		return free / 2, free / 2
	case !start.IsSet():
		return free, end.Value()
	default:
		return start.Value(), free
	}
}

func absoluteOffset(insetStart, insetEnd Opt, origin, static, area, size, marginStart, marginEnd float64) float64 {
	switch {
	case insetStart.IsSet():
		return origin + insetStart.Value() + marginStart
	case insetEnd.IsSet():
		return origin + area - insetEnd.Value() - size - marginEnd
	default:
		return static + marginStart
	}
}

// relativeOffset shifts a relatively positioned in-flow box by its insets.
// Left wins over right and top over bottom.
func relativeOffset(style CoreStyle, containingBlock Size[Opt]) Point[float64] {
	if style.GetPosition() != PositionRelative {
		return Point[float64]{}
	}
	inset := resolveInset(style.GetInset(), containingBlock)
	var off Point[float64]
	if inset.Left.IsSet() {
		off.X = inset.Left.Value()
	} else if inset.Right.IsSet() {
		off.X = -inset.Right.Value()
	}
	if inset.Top.IsSet() {
		off.Y = inset.Top.Value()
	} else if inset.Bottom.IsSet() {
		off.Y = -inset.Bottom.Value()
	}
	return off
}

// partitionPositioned splits children into in-flow and absolutely
// positioned, keeping document order within each group.
func (p *layoutPass) partitionPositioned(children []layoutChild) (inFlow, absolute []layoutChild) {
	for _, c := range children {
		if p.tree.Style(c.node).GetPosition() == PositionAbsolute {
			absolute = append(absolute, c)
		} else {
			inFlow = append(inFlow, c)
		}
	}
	return inFlow, absolute
}
