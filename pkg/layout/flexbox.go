// pkg/layout/flexbox.go
package layout

import "math"

// -- Flexbox --

type flexItem struct {
	child      layoutChild
	style      FlexItemStyle
	size       Size[Opt]
	minSize    Size[Opt]
	maxSize    Size[Opt]
	margin     Rect[float64]
	autoMargin Rect[bool]
	pb         Size[float64]
	alignSelf  AlignItems
	grow       float64
	shrink     float64

	flexBasis      float64
	innerFlexBasis float64
	minMain        float64
	hypoInner      Size[float64]
	hypoOuter      Size[float64]
	target         Size[float64]
	outerTarget    Size[float64]
	violation      float64
	frozen         bool
	baseline       float64

	offsetMain  float64
	offsetCross float64
}

type flexLine struct {
	items       []*flexItem
	crossSize   float64
	offsetCross float64
}

// flexContainer holds the per-container values every step reads.
type flexContainer struct {
	dir            FlexDirection
	main, cross    AbsoluteAxis
	wrap           FlexWrap
	padding        Rect[float64]
	border         Rect[float64]
	pb             Size[float64]
	gap            Size[float64]
	alignItems     AlignItems
	alignContent   AlignContent
	justifyContent AlignContent
	nodeSize       Size[Opt]
	minSize        Size[Opt]
	maxSize        Size[Opt]
	inner          Size[Opt]
	available      Size[AvailableSpace]
}

func (c *flexContainer) isWrap() bool { return c.wrap != FlexNoWrap }

func (p *layoutPass) computeFlexbox(node NodeId, style StyleView, in LayoutInput) LayoutOutput {
	c := p.newFlexContainer(style, in)
	if in.RunMode == ComputeSize && bothSet(c.nodeSize) {
		return outputFromSize(unwrapSizeOr(c.nodeSize, Size[float64]{}))
	}

	inFlow, absolute := p.partitionPositioned(p.boxChildren(node))
	items := p.flexItems(c, inFlow)
	for _, item := range items {
		p.flexBaseSize(c, item)
	}

	lines := collectFlexLines(c, items)

	// Container main size.
	innerMain := c.inner.Get(c.main)
	if !innerMain.IsSet() {
		longest := 0.0
		for _, line := range lines {
			longest = math.Max(longest, lineMainLength(c, line, func(it *flexItem) float64 { return it.hypoOuter.Get(c.main) }))
		}
		if len(lines) > 1 && c.available.Get(c.main).IsDefinite() {
			longest = math.Max(longest, c.available.Get(c.main).value)
		}
		outer := maybeClamp(longest+c.pb.Get(c.main), c.minSize.Get(c.main), c.maxSize.Get(c.main))
		innerMain = Some(math.Max(outer, c.pb.Get(c.main)) - c.pb.Get(c.main))
	}
	c.inner.Set(c.main, innerMain)

	for _, line := range lines {
		resolveFlexibleLengths(c, line, innerMain.Value())
	}
	for _, item := range items {
		p.hypotheticalCrossSize(c, item)
	}
	p.flexBaselines(c, items)
	p.lineCrossSizes(c, lines)

	// Container cross size.
	innerCross := c.inner.Get(c.cross)
	if !innerCross.IsSet() {
		total := linesCrossLength(c, lines)
		outer := maybeClamp(total+c.pb.Get(c.cross), c.minSize.Get(c.cross), c.maxSize.Get(c.cross))
		innerCross = Some(math.Max(outer, c.pb.Get(c.cross)) - c.pb.Get(c.cross))
	}
	c.inner.Set(c.cross, innerCross)
	stretchLines(c, lines, innerCross.Value())

	for _, line := range lines {
		stretchItems(c, line)
	}

	var size Size[float64]
	size.Set(c.main, innerMain.Value()+c.pb.Get(c.main))
	size.Set(c.cross, innerCross.Value()+c.pb.Get(c.cross))
	if in.RunMode == ComputeSize {
		return outputFromSize(size)
	}

	for _, line := range lines {
		alignMainAxis(c, line, innerMain.Value())
		alignItemsInLine(c, line)
	}
	alignLines(c, lines, innerCross.Value())

	out := LayoutOutput{Size: size}
	var extent Size[float64]
	for li, line := range lines {
		for ii, item := range line.items {
			var location Point[float64]
			location.Set(c.main, item.offsetMain)
			location.Set(c.cross, line.offsetCross+item.offsetCross)
			childOut := p.ComputeChildLayout(item.child.node, LayoutInput{
				RunMode:         PerformLayout,
				SizingMode:      InherentSize,
				KnownDimensions: someSize(item.target),
				ParentSize:      c.inner,
				AvailableSpace:  DefiniteSize(item.target.Width, item.target.Height),
			})
			rel := relativeOffset(item.style, c.inner)
			location = Point[float64]{X: location.X + rel.X, Y: location.Y + rel.Y}
			p.setChildLayout(item.child, location, childOut, item.margin, c.inner.Width)
			extent = maxSizes(extent, contentContribution(location, childOut.Size, childOut.ContentSize, item.style.GetOverflow()))

			if li == 0 && ii == 0 {
				base := childOut.FirstBaselines.Y.UnwrapOr(childOut.Size.Height)
				out.FirstBaselines.Y = Some(c.border.Top + c.padding.Top + location.Y + base)
			}
		}
	}

	absExtent := p.layoutAbsoluteChildren(absolute, size, c.padding, c.border, func(child layoutChild, outer Size[float64]) Point[float64] {
		return flexStaticPosition(c, p.tree.Style(child.node), outer)
	})
	out.ContentSize = finishContentSize(maxSizes(extent, absExtent), c.padding, c.border)
	return out
}

func (p *layoutPass) newFlexContainer(style FlexContainerStyle, in LayoutInput) *flexContainer {
	dir := style.GetFlexDirection()
	c := &flexContainer{
		dir:            dir,
		main:           dir.MainAxis(),
		cross:          dir.MainAxis().Other(),
		wrap:           style.GetFlexWrap(),
		alignItems:     style.GetAlignItems(),
		alignContent:   style.GetAlignContent(),
		justifyContent: style.GetJustifyContent(),
	}
	if c.alignItems == AlignNormal {
		c.alignItems = AlignStretch
	}
	c.padding, c.border = boxEdges(style, in.ParentSize.Width)
	c.pb = sumAxes(addRects(c.padding, c.border))

	if in.SizingMode == ContentSize {
		c.nodeSize = in.KnownDimensions
	} else {
		size, lo, hi := resolvedSizes(style, in.ParentSize, c.pb)
		c.nodeSize = orSize(in.KnownDimensions, clampSize(size, lo, hi))
		c.minSize, c.maxSize = lo, hi
	}
	c.nodeSize = maxOptSize(c.nodeSize, c.pb)
	c.inner = Size[Opt]{Width: c.nodeSize.Width.Sub(c.pb.Width), Height: c.nodeSize.Height.Sub(c.pb.Height)}

	margin := resolveRectOrZero(style.GetMargin(), in.ParentSize.Width)
	c.available = Size[AvailableSpace]{
		Width:  in.AvailableSpace.Width.Sub(margin.Left + margin.Right + c.pb.Width).MaybeSet(c.inner.Width),
		Height: in.AvailableSpace.Height.Sub(margin.Top + margin.Bottom + c.pb.Height).MaybeSet(c.inner.Height),
	}
	gap := style.GetGap()
	c.gap = Size[float64]{
		Width:  clampNonNegative(gap.Width.ResolveOrZero(c.inner.Width)),
		Height: clampNonNegative(gap.Height.ResolveOrZero(c.inner.Height)),
	}
	return c
}

func (p *layoutPass) flexItems(c *flexContainer, children []layoutChild) []*flexItem {
	items := make([]*flexItem, 0, len(children))
	for _, child := range children {
		s := p.tree.Style(child.node)
		padding, border := boxEdges(s, c.inner.Width)
		pb := sumAxes(addRects(padding, border))
		size, lo, hi := resolvedSizes(s, c.inner, pb)
		align := s.GetAlignSelf()
		if align == AlignNormal {
			align = c.alignItems
		}
		items = append(items, &flexItem{
			child:      child,
			style:      s,
			size:       size,
			minSize:    lo,
			maxSize:    hi,
			margin:     resolveRectOrZero(s.GetMargin(), c.inner.Width),
			autoMargin: MapRect(s.GetMargin(), Dimension.IsAuto),
			pb:         pb,
			alignSelf:  align,
			grow:       math.Max(s.GetFlexGrow(), 0),
			shrink:     math.Max(s.GetFlexShrink(), 0),
		})
	}
	return items
}

// flexBaseSize determines the flex base size, the automatic minimum main
// size and the hypothetical main size of one item.
func (p *layoutPass) flexBaseSize(c *flexContainer, item *flexItem) {
	main, cross := c.main, c.cross
	marginCross := axisSum(item.margin, cross)

	crossKnown := item.size.Get(cross)
	if !crossKnown.IsSet() && item.alignSelf == AlignStretch && !c.isWrap() && c.inner.Get(cross).IsSet() &&
		!item.autoMargin.Start(cross) && !item.autoMargin.End(cross) {
		crossKnown = Some(c.inner.Get(cross).Value() - marginCross).MaybeClamp(item.minSize.Get(cross), item.maxSize.Get(cross))
	}
	known := Size[Opt]{}.With(cross, crossKnown)

	basis := item.style.GetFlexBasis().Resolve(c.inner.Get(main))
	if basis.IsSet() {
		basis = basis.Add(boxSizingAdjustment(item.style, item.pb).Get(main))
	}
	if !basis.IsSet() {
		basis = item.size.Get(main)
	}
	if !basis.IsSet() && crossKnown.IsSet() {
		basis = applyAspectRatio(known, item.style.GetAspectRatio()).Get(main)
	}
	contentMode := MaxContent
	if c.available.Get(main).IsMinContent() {
		contentMode = MinContent
	}
	available := Size[AvailableSpace]{}.With(main, contentMode).With(cross, c.available.Get(cross).Sub(marginCross))
	if !basis.IsSet() {
		basis = Some(p.measureChild(item.child.node, known, c.inner, available, axisRequest(main)).Get(main))
	}
	item.flexBasis = math.Max(basis.Value(), item.pb.Get(main))
	item.innerFlexBasis = item.flexBasis - item.pb.Get(main)

	maxMain := item.maxSize.Get(main)
	minMain := item.minSize.Get(main)
	if !minMain.IsSet() {
		overflow := item.style.GetOverflow()
		if overflow.Get(main).IsScrollContainer() {
			minMain = Some(0)
		} else {
			minContent := p.measureContent(item.child.node, known, c.inner,
				available.With(main, MinContent), axisRequest(main)).Get(main)
			minMain = Some(minContent).MaybeMin(item.size.Get(main)).MaybeMin(maxMain)
		}
	}
	item.minMain = math.Max(minMain.Value(), item.pb.Get(main))

	hypo := maybeClamp(item.flexBasis, Some(item.minMain), maxMain)
	item.hypoInner.Set(main, hypo)
	item.hypoOuter.Set(main, hypo+axisSum(item.margin, main))
}

// flexStaticPosition places an absolutely positioned child as if it were
// the only item on a single line: justify-content on the main axis,
// align-self on the cross axis.
func flexStaticPosition(c *flexContainer, style FlexItemStyle, outer Size[float64]) Point[float64] {
	inner := unwrapSizeOr(c.inner, Size[float64]{})
	freeMain := inner.Get(c.main) - outer.Get(c.main)
	freeCross := inner.Get(c.cross) - outer.Get(c.cross)

	var mainOffset float64
	switch c.justifyContent {
	case ContentStart:
	case ContentEnd:
		mainOffset = freeMain
	case ContentCenter, ContentSpaceAround, ContentSpaceEvenly:
		mainOffset = freeMain / 2
	case ContentFlexEnd:
		if !c.dir.IsReverse() {
			mainOffset = freeMain
		}
	default:
		if c.dir.IsReverse() {
			mainOffset = freeMain
		}
	}

	align := style.GetAlignSelf()
	if align == AlignNormal {
		align = c.alignItems
	}
	crossOffset := selfOffset(freeCross, align)
	if c.wrap == FlexWrapReverse && align != AlignStart && align != AlignEnd && align != AlignCenter {
		crossOffset = freeCross - crossOffset
	}

	var pos Point[float64]
	pos.Set(c.main, mainOffset)
	pos.Set(c.cross, crossOffset)
	return pos
}

func axisRequest(axis AbsoluteAxis) RequestedAxis {
	if axis == Horizontal {
		return AxisHorizontal
	}
	return AxisVertical
}

// collectFlexLines wraps items greedily into lines.
func collectFlexLines(c *flexContainer, items []*flexItem) []*flexLine {
	if len(items) == 0 {
		return []*flexLine{{}}
	}
	available := c.available.Get(c.main)
	if !c.isWrap() || available.IsMaxContent() {
		return []*flexLine{{items: items}}
	}
	if available.IsMinContent() {
		lines := make([]*flexLine, 0, len(items))
		for _, item := range items {
			lines = append(lines, &flexLine{items: []*flexItem{item}})
		}
		return lines
	}

	limit := available.value
	gap := c.gap.Get(c.main)
	var lines []*flexLine
	line := &flexLine{}
	var length float64
	for _, item := range items {
		add := item.hypoOuter.Get(c.main)
		if len(line.items) > 0 {
			add += gap
		}
		if len(line.items) > 0 && length+add > limit+epsilon {
			lines = append(lines, line)
			line = &flexLine{}
			length = 0
			add = item.hypoOuter.Get(c.main)
		}
		line.items = append(line.items, item)
		length += add
	}
	return append(lines, line)
}

func lineMainLength(c *flexContainer, line *flexLine, outer func(*flexItem) float64) float64 {
	var total float64
	for _, item := range line.items {
		total += outer(item)
	}
	if n := len(line.items); n > 1 {
		total += c.gap.Get(c.main) * float64(n-1)
	}
	return total
}

// resolveFlexibleLengths grows or shrinks the items of one line to fill
// innerMain, freezing items that hit their min or max and redistributing
// until nothing changes.
func resolveFlexibleLengths(c *flexContainer, line *flexLine, innerMain float64) {
	main := c.main
	used := lineMainLength(c, line, func(it *flexItem) float64 { return it.hypoOuter.Get(main) })
	growing := used < innerMain

	for _, item := range line.items {
		hypo := item.hypoInner.Get(main)
		item.frozen = (growing && (item.grow == 0 || item.flexBasis > hypo)) ||
			(!growing && (item.shrink == 0 || item.flexBasis < hypo))
		item.target.Set(main, hypo)
		item.outerTarget.Set(main, hypo+axisSum(item.margin, main))
	}

	outerUsed := func() float64 {
		return lineMainLength(c, line, func(it *flexItem) float64 {
			if it.frozen {
				return it.outerTarget.Get(main)
			}
			return it.flexBasis + axisSum(it.margin, main)
		})
	}
	initialFree := innerMain - outerUsed()

	for {
		unfrozen := 0
		for _, item := range line.items {
			if !item.frozen {
				unfrozen++
			}
		}
		if unfrozen == 0 {
			break
		}

		free := innerMain - outerUsed()
		var sumGrow, sumShrink, sumScaled float64
		for _, item := range line.items {
			if item.frozen {
				continue
			}
			sumGrow += item.grow
			sumShrink += item.shrink
			sumScaled += item.innerFlexBasis * item.shrink
		}
		sumFactors := sumShrink
		if growing {
			sumFactors = sumGrow
		}
		if sumFactors < 1 {
			if scaled := initialFree * sumFactors; math.Abs(scaled) < math.Abs(free) {
				free = scaled
			}
		}

		totalViolation := 0.0
		for _, item := range line.items {
			if item.frozen {
				continue
			}
			target := item.flexBasis
			switch {
			case growing && sumGrow > 0:
				target += free * item.grow / sumGrow
			case !growing && sumScaled > 0:
				target += free * item.innerFlexBasis * item.shrink / sumScaled
			}
			clamped := math.Max(maybeClamp(target, Some(item.minMain), item.maxSize.Get(main)), 0)
			item.violation = clamped - target
			totalViolation += item.violation
			item.target.Set(main, clamped)
			item.outerTarget.Set(main, clamped+axisSum(item.margin, main))
		}

		for _, item := range line.items {
			if item.frozen {
				continue
			}
			switch {
			case totalViolation > epsilon:
				item.frozen = item.violation > 0
			case totalViolation < -epsilon:
				item.frozen = item.violation < 0
			default:
				item.frozen = true
			}
		}
	}
}

// hypotheticalCrossSize measures an item's cross size at its resolved main size.
func (p *layoutPass) hypotheticalCrossSize(c *flexContainer, item *flexItem) {
	main, cross := c.main, c.cross
	crossSize := item.size.Get(cross)
	if !crossSize.IsSet() {
		known := Size[Opt]{}.With(main, Some(item.target.Get(main)))
		available := Size[AvailableSpace]{}.
			With(main, Definite(item.target.Get(main))).
			With(cross, c.available.Get(cross).Sub(axisSum(item.margin, cross)))
		crossSize = Some(p.measureChild(item.child.node, known, c.inner, available, axisRequest(cross)).Get(cross))
	}
	inner := math.Max(maybeClamp(crossSize.Value(), item.minSize.Get(cross), item.maxSize.Get(cross)), item.pb.Get(cross))
	item.hypoInner.Set(cross, inner)
	item.hypoOuter.Set(cross, inner+axisSum(item.margin, cross))
}

// flexBaselines records the first baseline of items aligned by baseline.
// Only row containers align by baseline; other items use their bottom edge.
func (p *layoutPass) flexBaselines(c *flexContainer, items []*flexItem) {
	for _, item := range items {
		item.baseline = item.hypoInner.Height + item.margin.Top
		if !c.dir.IsRow() || item.alignSelf != AlignBaseline {
			continue
		}
		known := Size[float64]{Width: item.target.Width, Height: item.hypoInner.Height}
		out := p.ComputeChildLayout(item.child.node, LayoutInput{
			RunMode:         PerformLayout,
			SizingMode:      InherentSize,
			KnownDimensions: someSize(known),
			ParentSize:      c.inner,
			AvailableSpace:  DefiniteSize(known.Width, known.Height),
		})
		item.baseline = out.FirstBaselines.Y.UnwrapOr(item.hypoInner.Height) + item.margin.Top
	}
}

func (p *layoutPass) lineCrossSizes(c *flexContainer, lines []*flexLine) {
	cross := c.cross
	if !c.isWrap() && c.inner.Get(cross).IsSet() {
		lines[0].crossSize = c.inner.Get(cross).Value()
		return
	}
	for _, line := range lines {
		var maxBaseline, maxBelow, largest float64
		for _, item := range line.items {
			if c.dir.IsRow() && item.alignSelf == AlignBaseline && !item.autoMargin.Top && !item.autoMargin.Bottom {
				maxBaseline = math.Max(maxBaseline, item.baseline)
				maxBelow = math.Max(maxBelow, item.hypoOuter.Height-item.baseline)
				continue
			}
			largest = math.Max(largest, item.hypoOuter.Get(cross))
		}
		line.crossSize = math.Max(largest, maxBaseline+maxBelow)
	}
	if !c.isWrap() {
		lo := c.minSize.Get(cross).Sub(c.pb.Get(cross))
		hi := c.maxSize.Get(cross).Sub(c.pb.Get(cross))
		lines[0].crossSize = maybeClamp(lines[0].crossSize, lo, hi)
	}
}

func linesCrossLength(c *flexContainer, lines []*flexLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.crossSize
	}
	if n := len(lines); n > 1 {
		total += c.gap.Get(c.cross) * float64(n-1)
	}
	return total
}

// stretchLines gives leftover cross space to lines under align-content
// stretch (the default).
func stretchLines(c *flexContainer, lines []*flexLine, innerCross float64) {
	if !c.isWrap() || (c.alignContent != ContentNormal && c.alignContent != ContentStretch) {
		return
	}
	free := innerCross - linesCrossLength(c, lines)
	if free <= 0 {
		return
	}
	share := free / float64(len(lines))
	for _, line := range lines {
		line.crossSize += share
	}
}

func stretchItems(c *flexContainer, line *flexLine) {
	cross := c.cross
	for _, item := range line.items {
		inner := item.hypoInner.Get(cross)
		if item.alignSelf == AlignStretch && !item.size.Get(cross).IsSet() &&
			!item.autoMargin.Start(cross) && !item.autoMargin.End(cross) {
			stretched := line.crossSize - axisSum(item.margin, cross)
			inner = math.Max(maybeClamp(stretched, item.minSize.Get(cross), item.maxSize.Get(cross)), item.pb.Get(cross))
		}
		item.target.Set(cross, inner)
		item.outerTarget.Set(cross, inner+axisSum(item.margin, cross))
	}
}

// alignMainAxis resolves auto main margins, then justify-content.
func alignMainAxis(c *flexContainer, line *flexLine, innerMain float64) {
	main := c.main
	free := innerMain - lineMainLength(c, line, func(it *flexItem) float64 { return it.outerTarget.Get(main) })

	autoCount := 0
	for _, item := range line.items {
		if item.autoMargin.Start(main) {
			autoCount++
		}
		if item.autoMargin.End(main) {
			autoCount++
		}
	}
	if free > 0 && autoCount > 0 {
		share := free / float64(autoCount)
		for _, item := range line.items {
			setAutoMargins(&item.margin, item.autoMargin, main, share)
			item.outerTarget.Set(main, item.target.Get(main)+axisSum(item.margin, main))
		}
		free = 0
	}

	start, between := contentDistribution(free, len(line.items), c.justifyContent)
	pos := start
	gap := c.gap.Get(main)
	for _, item := range line.items {
		item.offsetMain = pos + item.margin.Start(main)
		pos += item.outerTarget.Get(main) + gap + between
		if c.dir.IsReverse() {
			item.offsetMain = innerMain - item.offsetMain - item.target.Get(main)
		}
	}
}

func setAutoMargins(margin *Rect[float64], auto Rect[bool], axis AbsoluteAxis, share float64) {
	if axis == Horizontal {
		if auto.Left {
			margin.Left = share
		}
		if auto.Right {
			margin.Right = share
		}
		return
	}
	if auto.Top {
		margin.Top = share
	}
	if auto.Bottom {
		margin.Bottom = share
	}
}

// alignItemsInLine positions items on the cross axis inside their line.
func alignItemsInLine(c *flexContainer, line *flexLine) {
	cross := c.cross
	var maxBaseline float64
	for _, item := range line.items {
		if item.alignSelf == AlignBaseline {
			maxBaseline = math.Max(maxBaseline, item.baseline)
		}
	}
	for _, item := range line.items {
		free := line.crossSize - item.outerTarget.Get(cross)
		startAuto, endAuto := item.autoMargin.Start(cross), item.autoMargin.End(cross)
		var offset float64
		switch {
		case startAuto || endAuto:
			if free > 0 {
				if startAuto && endAuto {
					setAutoMargins(&item.margin, item.autoMargin, cross, free/2)
				} else {
					setAutoMargins(&item.margin, item.autoMargin, cross, free)
				}
			}
		case item.alignSelf == AlignBaseline && c.dir.IsRow():
			offset = maxBaseline - item.baseline
		default:
			offset = selfOffset(free, item.alignSelf)
		}
		item.offsetCross = offset + item.margin.Start(cross)
		if c.wrap == FlexWrapReverse {
			item.offsetCross = line.crossSize - item.offsetCross - item.target.Get(cross)
		}
	}
}

// alignLines distributes lines with align-content.
func alignLines(c *flexContainer, lines []*flexLine, innerCross float64) {
	free := innerCross - linesCrossLength(c, lines)
	mode := c.alignContent
	if !c.isWrap() {
		mode = ContentFlexStart
	}
	start, between := contentDistribution(free, len(lines), mode)
	pos := start
	gap := c.gap.Get(c.cross)
	for _, line := range lines {
		line.offsetCross = pos
		pos += line.crossSize + gap + between
		if c.wrap == FlexWrapReverse {
			line.offsetCross = innerCross - line.offsetCross - line.crossSize
		}
	}
}
