// pkg/layout/grid_alignment.go
package layout

import "math"

// -- Grid Alignment --

// alignTracks sets each track's offset from the content-box start,
// distributing free space with align-content or justify-content.
func alignTracks(tracks []GridTrack, inner float64, mode AlignContent) {
	free := inner - sumBaseSizes(tracks, allTracks(tracks))
	start, between := contentDistribution(free, countTracks(tracks), mode)
	pos := start
	seen := 0
	for i := range tracks {
		t := &tracks[i]
		if !t.isGutter() {
			if seen > 0 {
				pos += between
			}
			seen++
		}
		t.offset = pos
		pos += t.baseSize
	}
}

// areaSpan returns the offset and length of the area covered by r.
func areaSpan(tracks []GridTrack, r trackRange) (float64, float64) {
	if r.end <= r.start {
		return tracks[r.start].offset, 0
	}
	last := &tracks[r.end-1]
	start := tracks[r.start].offset
	return start, last.offset + last.baseSize - start
}

// alignInArea positions a box of size inside its grid area along one axis.
// Auto margins absorb the free space; otherwise align applies. It returns
// the box offset and the used margins.
func alignInArea(areaStart, areaSize, size float64, marginStart, marginEnd Opt, align AlignItems) (float64, float64, float64) {
	free := areaSize - size - marginStart.UnwrapOr(0) - marginEnd.UnwrapOr(0)
	switch {
	case !marginStart.IsSet() && !marginEnd.IsSet():
		share := math.Max(free, 0) / 2
		return areaStart + share, share, share
	case !marginStart.IsSet():
		share := math.Max(free, 0)
		return areaStart + share, share, marginEnd.Value()
	case !marginEnd.IsSet():
		return areaStart + marginStart.Value(), marginStart.Value(), math.Max(free, 0)
	}
	return areaStart + marginStart.Value() + selfOffset(free, align), marginStart.Value(), marginEnd.Value()
}

// layoutGridItem performs the final layout of one item inside its area and
// returns its location in content-box coordinates.
func (p *layoutPass) layoutGridItem(item *gridItem, cols, rows []GridTrack, inner Size[Opt]) (Point[float64], LayoutOutput) {
	x, w := areaSpan(cols, item.colRange)
	y, h := areaSpan(rows, item.rowRange)
	areaOpt := Size[Opt]{Width: Some(w), Height: Some(h)}

	margin := MapRect(item.style.GetMargin(), func(d Dimension) Opt { return d.Resolve(Some(w)) })
	marginX := margin.Left.UnwrapOr(0) + margin.Right.UnwrapOr(0)
	marginY := margin.Top.UnwrapOr(0) + margin.Bottom.UnwrapOr(0)

	size, lo, hi := resolvedSizes(item.style, areaOpt, item.pb)
	if !size.Width.IsSet() && item.stretches(Horizontal) {
		size.Width = Some(math.Max(w-marginX, item.pb.Width)).MaybeClamp(lo.Width, hi.Width)
	}
	if !size.Height.IsSet() && item.stretches(Vertical) {
		size.Height = Some(math.Max(h-marginY, item.pb.Height)).MaybeClamp(lo.Height, hi.Height)
	}
	size = applyAspectRatio(size, item.style.GetAspectRatio())

	out := p.ComputeChildLayout(item.child.node, LayoutInput{
		RunMode:         PerformLayout,
		SizingMode:      InherentSize,
		KnownDimensions: size,
		ParentSize:      areaOpt,
		AvailableSpace:  DefiniteSize(w-marginX, h-marginY),
	})

	var location Point[float64]
	var used Rect[float64]
	location.X, used.Left, used.Right = alignInArea(x, w, out.Size.Width, margin.Left, margin.Right, item.justifySelf)
	location.Y, used.Top, used.Bottom = alignInArea(y, h, out.Size.Height, margin.Top, margin.Bottom, item.alignSelf)

	rel := relativeOffset(item.style, inner)
	location = Point[float64]{X: location.X + rel.X, Y: location.Y + rel.Y}
	p.setChildLayout(item.child, location, out, used, inner.Width)
	return location, out
}
