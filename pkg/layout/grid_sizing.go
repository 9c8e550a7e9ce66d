// pkg/layout/grid_sizing.go
package layout

import (
	"math"
	"sort"
)

// -- Track Sizing --

// trackSizer runs the track sizing algorithm for one axis. Columns are sized
// first with otherTracks nil; rows are then sized knowing each item's column
// span.
type trackSizer struct {
	p              *layoutPass
	axis           AbsoluteAxis
	tracks         []GridTrack
	items          []*gridItem
	available      AvailableSpace
	otherAvailable AvailableSpace
	otherTracks    []GridTrack
	inner          Size[Opt]
	alignment      AlignContent
}

func (s *trackSizer) run() {
	for _, item := range s.items {
		item.minContent, item.maxContent, item.minimum = Opt{}, Opt{}, Opt{}
	}
	s.initialize()
	s.resolveIntrinsic()
	s.maximize()
	s.expandFlexible()
	s.stretchAuto()
}

func (s *trackSizer) ref() Opt { return s.inner.Get(s.axis) }

func (s *trackSizer) initialize() {
	ref := s.ref()
	for i := range s.tracks {
		t := &s.tracks[i]
		t.baseSize, t.growthLimit, t.infinitelyGrowable = 0, math.Inf(1), false
		t.plannedBase, t.plannedLimit = 0, 0
		if t.min.Kind == MinTrackFixed {
			t.baseSize = clampNonNegative(t.min.Value.ResolveOrZero(ref))
		}
		if t.max.Kind == MaxTrackFixed {
			t.growthLimit = clampNonNegative(t.max.Value.ResolveOrZero(ref))
		}
		if t.growthLimit < t.baseSize {
			t.growthLimit = t.baseSize
		}
	}
}

// -- Item Contributions --

func (s *trackSizer) contentContribution(item *gridItem, mode AvailableSpace) float64 {
	other := s.axis.Other()
	var known Size[Opt]
	available := Size[AvailableSpace]{}.With(s.axis, mode)
	if s.otherTracks != nil {
		span := sumBaseSizes(s.otherTracks, item.rangeFor(other))
		available.Set(other, Definite(span))
		if item.stretches(other) {
			known.Set(other, Some(math.Max(span-item.marginSum(other, s.inner.Width), 0)))
		}
	} else {
		available.Set(other, s.otherAvailable)
	}
	size := s.p.measureChild(item.child.node, known, s.inner, available, axisRequest(s.axis)).Get(s.axis)
	return size + item.marginSum(s.axis, s.inner.Width)
}

func (s *trackSizer) minContent(item *gridItem) float64 {
	if !item.minContent.IsSet() {
		item.minContent = Some(s.contentContribution(item, MinContent))
	}
	return item.minContent.Value()
}

func (s *trackSizer) maxContent(item *gridItem) float64 {
	if !item.maxContent.IsSet() {
		item.maxContent = Some(s.contentContribution(item, MaxContent))
	}
	return item.maxContent.Value()
}

// minimumContribution is the item's min-size, or its automatic minimum when
// min-size is auto.
func (s *trackSizer) minimumContribution(item *gridItem) float64 {
	if item.minimum.IsSet() {
		return item.minimum.Value()
	}
	margin := item.marginSum(s.axis, s.inner.Width)
	var v float64
	switch {
	case item.minSize.Get(s.axis).IsSet():
		v = item.minSize.Get(s.axis).Value() + margin
	case item.size.Get(s.axis).IsSet():
		v = item.size.Get(s.axis).Value() + margin
	case item.style.GetOverflow().Get(s.axis).IsScrollContainer():
		v = item.pb.Get(s.axis) + margin
	default:
		v = s.minContent(item)
	}
	item.minimum = Some(v)
	return v
}

// limitedContribution is the contribution used under the container's own
// sizing constraint.
func (s *trackSizer) limitedContribution(item *gridItem) float64 {
	if s.available.IsMinContent() {
		return s.minContent(item)
	}
	return s.minimumContribution(item)
}

func (s *trackSizer) crossesFlexible(r trackRange) bool {
	for i := r.start; i < r.end; i++ {
		if s.tracks[i].isFlexible() {
			return true
		}
	}
	return false
}

// -- Intrinsic Track Sizes --

func (s *trackSizer) resolveIntrinsic() {
	var multi, flexible []*gridItem
	for _, item := range s.items {
		r := item.rangeFor(s.axis)
		if s.crossesFlexible(r) {
			flexible = append(flexible, item)
			continue
		}
		if r.trackCount() > 1 {
			multi = append(multi, item)
			continue
		}
		s.sizeSingleSpan(&s.tracks[r.start], item)
	}
	s.floorLimits()

	bySpan := func(list []*gridItem) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].rangeFor(s.axis).trackCount() < list[j].rangeFor(s.axis).trackCount()
		})
	}
	bySpan(multi)
	for i := 0; i < len(multi); {
		j := i
		span := multi[i].rangeFor(s.axis).trackCount()
		for j < len(multi) && multi[j].rangeFor(s.axis).trackCount() == span {
			j++
		}
		s.distributeGroup(multi[i:j])
		i = j
	}

	bySpan(flexible)
	for _, item := range flexible {
		s.distribute(item.rangeFor(s.axis), s.limitedContribution(item), func(t *GridTrack) bool {
			return t.isFlexible() && t.hasIntrinsicMin()
		}, false)
		s.commitBase()
	}

	for i := range s.tracks {
		t := &s.tracks[i]
		if math.IsInf(t.growthLimit, 1) || t.growthLimit < t.baseSize {
			t.growthLimit = t.baseSize
		}
	}
}

func (s *trackSizer) sizeSingleSpan(t *GridTrack, item *gridItem) {
	switch t.min.Kind {
	case MinTrackAuto:
		t.baseSize = math.Max(t.baseSize, s.limitedContribution(item))
	case MinTrackMinContent:
		t.baseSize = math.Max(t.baseSize, s.minContent(item))
	case MinTrackMaxContent:
		t.baseSize = math.Max(t.baseSize, s.maxContent(item))
	}
	switch t.max.Kind {
	case MaxTrackMinContent:
		growLimit(t, s.minContent(item))
	case MaxTrackMaxContent, MaxTrackAuto:
		growLimit(t, s.maxContent(item))
	case MaxTrackFitContent:
		limit := t.max.Value.Resolve(s.ref())
		growLimit(t, math.Max(s.minContent(item), maybeMin(s.maxContent(item), limit)))
	}
}

// growLimit raises a growth limit; an infinite limit is replaced outright.
func growLimit(t *GridTrack, v float64) {
	if math.IsInf(t.growthLimit, 1) {
		t.growthLimit = v
		return
	}
	t.growthLimit = math.Max(t.growthLimit, v)
}

func (s *trackSizer) floorLimits() {
	for i := range s.tracks {
		t := &s.tracks[i]
		if !math.IsInf(t.growthLimit, 1) && t.growthLimit < t.baseSize {
			t.growthLimit = t.baseSize
		}
	}
}

// distributeGroup handles items spanning the same number of tracks, none of
// them flexible.
func (s *trackSizer) distributeGroup(group []*gridItem) {
	underMax := s.available.IsMaxContent()
	for i := range s.tracks {
		s.tracks[i].infinitelyGrowable = false
	}

	for _, item := range group {
		s.distribute(item.rangeFor(s.axis), s.limitedContribution(item), (*GridTrack).hasIntrinsicMin, false)
	}
	s.commitBase()
	for _, item := range group {
		s.distribute(item.rangeFor(s.axis), s.minContent(item), func(t *GridTrack) bool {
			return t.min.Kind == MinTrackMinContent || t.min.Kind == MinTrackMaxContent
		}, false)
	}
	s.commitBase()
	for _, item := range group {
		s.distribute(item.rangeFor(s.axis), s.maxContent(item), func(t *GridTrack) bool {
			return t.min.Kind == MinTrackMaxContent || (underMax && t.min.Kind == MinTrackAuto)
		}, false)
	}
	s.commitBase()
	s.floorLimits()

	for _, item := range group {
		s.distribute(item.rangeFor(s.axis), s.minContent(item), (*GridTrack).hasIntrinsicMax, true)
	}
	s.commitLimit()
	for _, item := range group {
		s.distribute(item.rangeFor(s.axis), s.maxContent(item), func(t *GridTrack) bool {
			return t.max.Kind == MaxTrackMaxContent || t.max.Kind == MaxTrackAuto || t.max.Kind == MaxTrackFitContent
		}, true)
	}
	s.commitLimit()
}

// distribute spreads the part of space not already covered by the tracks
// in r over the eligible tracks. Increases are recorded as planned and only
// applied by commitBase or commitLimit, so items in one group do not see
// each other's increases.
func (s *trackSizer) distribute(r trackRange, space float64, eligible func(*GridTrack) bool, toLimit bool) {
	affected := func(t *GridTrack) float64 {
		if toLimit && !math.IsInf(t.growthLimit, 1) {
			return t.growthLimit
		}
		return t.baseSize
	}
	limit := func(t *GridTrack) float64 {
		if !toLimit {
			return t.growthLimit
		}
		if t.max.Kind == MaxTrackFitContent {
			if lim := t.max.Value.Resolve(s.ref()); lim.IsSet() {
				return math.Max(lim.Value(), t.baseSize)
			}
		}
		if math.IsInf(t.growthLimit, 1) || t.infinitelyGrowable {
			return math.Inf(1)
		}
		return t.growthLimit
	}

	var occupied float64
	var targets []*GridTrack
	for i := r.start; i < r.end; i++ {
		t := &s.tracks[i]
		occupied += affected(t)
		if !t.isGutter() && eligible(t) {
			targets = append(targets, t)
		}
	}
	extra := space - occupied
	if extra <= epsilon || len(targets) == 0 {
		return
	}
	for _, t := range targets {
		t.incurred, t.frozen = 0, false
	}

	for extra > epsilon {
		var open []*GridTrack
		for _, t := range targets {
			if !t.frozen {
				open = append(open, t)
			}
		}
		if len(open) == 0 {
			break
		}
		share := extra / float64(len(open))
		for _, t := range open {
			room := math.Max(limit(t)-affected(t)-t.incurred, 0)
			if share >= room {
				t.incurred += room
				extra -= room
				t.frozen = true
			} else {
				t.incurred += share
				extra -= share
			}
		}
	}

	// Space left once every target hit its limit goes to tracks with an
	// intrinsic max, or to all targets if there are none.
	if extra > epsilon && !toLimit {
		var recipients []*GridTrack
		for _, t := range targets {
			if t.hasIntrinsicMax() {
				recipients = append(recipients, t)
			}
		}
		if len(recipients) == 0 {
			recipients = targets
		}
		share := extra / float64(len(recipients))
		for _, t := range recipients {
			t.incurred += share
		}
	}

	for _, t := range targets {
		if toLimit {
			t.plannedLimit = math.Max(t.plannedLimit, t.incurred)
		} else {
			t.plannedBase = math.Max(t.plannedBase, t.incurred)
		}
	}
}

func (s *trackSizer) commitBase() {
	for i := range s.tracks {
		t := &s.tracks[i]
		t.baseSize += t.plannedBase
		t.plannedBase = 0
	}
}

func (s *trackSizer) commitLimit() {
	for i := range s.tracks {
		t := &s.tracks[i]
		if t.plannedLimit == 0 {
			continue
		}
		if math.IsInf(t.growthLimit, 1) {
			t.growthLimit = t.baseSize + t.plannedLimit
			t.infinitelyGrowable = true
		} else {
			t.growthLimit += t.plannedLimit
		}
		t.plannedLimit = 0
	}
}

// -- Final Steps --

// maximize grows tracks toward their growth limits while free space lasts.
func (s *trackSizer) maximize() {
	switch {
	case s.available.IsMaxContent():
		for i := range s.tracks {
			s.tracks[i].baseSize = math.Max(s.tracks[i].baseSize, s.tracks[i].growthLimit)
		}
	case s.available.IsDefinite():
		free := s.available.value - sumBaseSizes(s.tracks, allTracks(s.tracks))
		for i := range s.tracks {
			s.tracks[i].frozen = s.tracks[i].isGutter()
		}
		for free > epsilon {
			var open []*GridTrack
			for i := range s.tracks {
				t := &s.tracks[i]
				if !t.frozen && t.growthLimit-t.baseSize > epsilon {
					open = append(open, t)
				}
			}
			if len(open) == 0 {
				return
			}
			share := free / float64(len(open))
			for _, t := range open {
				grow := math.Min(share, t.growthLimit-t.baseSize)
				t.baseSize += grow
				free -= grow
				if grow < share {
					t.frozen = true
				}
			}
		}
	}
}

// expandFlexible sizes fr tracks from the used flex fraction.
func (s *trackSizer) expandFlexible() {
	hasFlex := false
	for i := range s.tracks {
		if s.tracks[i].isFlexible() {
			hasFlex = true
			break
		}
	}
	if !hasFlex || s.available.IsMinContent() {
		return
	}

	var fr float64
	if s.available.IsDefinite() {
		fr = findFrSize(s.tracks, allTracks(s.tracks), s.available.value)
	} else {
		for i := range s.tracks {
			t := &s.tracks[i]
			if !t.isFlexible() {
				continue
			}
			if f := t.flex(); f > 1 {
				fr = math.Max(fr, t.baseSize/f)
			} else {
				fr = math.Max(fr, t.baseSize)
			}
		}
		for _, item := range s.items {
			r := item.rangeFor(s.axis)
			if s.crossesFlexible(r) {
				fr = math.Max(fr, findFrSize(s.tracks, r, s.maxContent(item)))
			}
		}
	}

	for i := range s.tracks {
		t := &s.tracks[i]
		if !t.isFlexible() {
			continue
		}
		if v := fr * t.flex(); v > t.baseSize {
			t.baseSize = v
			t.growthLimit = math.Max(t.growthLimit, v)
		}
	}
}

// findFrSize returns the size of one fr that fills space with the tracks
// in r. Flexible tracks whose base size exceeds their share are treated as
// inflexible and the share is recomputed.
func findFrSize(tracks []GridTrack, r trackRange, space float64) float64 {
	inflexible := make(map[int]bool)
	for {
		leftover := space
		var flexSum float64
		for i := r.start; i < r.end; i++ {
			t := &tracks[i]
			if t.isFlexible() && !inflexible[i] {
				flexSum += t.flex()
			} else {
				leftover -= t.baseSize
			}
		}
		if flexSum == 0 {
			return 0
		}
		hypothetical := leftover / math.Max(flexSum, 1)
		restart := false
		for i := r.start; i < r.end; i++ {
			t := &tracks[i]
			if t.isFlexible() && !inflexible[i] && t.baseSize > hypothetical*t.flex() {
				inflexible[i] = true
				restart = true
			}
		}
		if !restart {
			return math.Max(hypothetical, 0)
		}
	}
}

// stretchAuto shares remaining space among auto tracks when content is
// distributed with normal or stretch alignment.
func (s *trackSizer) stretchAuto() {
	if s.alignment != ContentNormal && s.alignment != ContentStretch {
		return
	}
	inner := s.ref()
	if !inner.IsSet() {
		return
	}
	free := inner.Value() - sumBaseSizes(s.tracks, allTracks(s.tracks))
	var auto []*GridTrack
	for i := range s.tracks {
		if t := &s.tracks[i]; !t.isGutter() && t.max.Kind == MaxTrackAuto {
			auto = append(auto, t)
		}
	}
	if free <= epsilon || len(auto) == 0 {
		return
	}
	share := free / float64(len(auto))
	for _, t := range auto {
		t.baseSize += share
	}
}
