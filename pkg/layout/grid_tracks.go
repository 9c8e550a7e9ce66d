// pkg/layout/grid_tracks.go
package layout

import "math"

// -- Grid Tracks --

type trackKind uint8

const (
	trackKindTrack trackKind = iota
	trackKindGutter
)

// GridTrack is one track or gutter of a grid axis. The track list of an axis
// interleaves gutters and tracks: gutter, track, gutter, ..., track, gutter.
// The two outermost gutters are collapsed to zero.
type GridTrack struct {
	kind      trackKind
	collapsed bool
	min       MinTrackSizing
	max       MaxTrackSizing

	baseSize           float64
	growthLimit        float64
	infinitelyGrowable bool
	offset             float64

	plannedBase  float64
	plannedLimit float64
	incurred     float64
	frozen       bool
}

func newTrack(fn TrackSizingFunction) GridTrack {
	return GridTrack{kind: trackKindTrack, min: fn.Min, max: fn.Max}
}

func newGutter(size Dimension) GridTrack {
	return GridTrack{
		kind: trackKindGutter,
		min:  MinTrackSizing{Kind: MinTrackFixed, Value: size},
		max:  MaxTrackSizing{Kind: MaxTrackFixed, Value: size},
	}
}

func (t *GridTrack) isGutter() bool { return t.kind == trackKindGutter }

func (t *GridTrack) isFlexible() bool {
	return t.kind == trackKindTrack && t.max.Kind == MaxTrackFraction
}

func (t *GridTrack) flex() float64 {
	if !t.isFlexible() {
		return 0
	}
	return math.Max(t.max.Flex, 0)
}

func (t *GridTrack) hasIntrinsicMin() bool {
	return t.kind == trackKindTrack && t.min.Kind != MinTrackFixed
}

func (t *GridTrack) hasIntrinsicMax() bool {
	switch t.max.Kind {
	case MaxTrackAuto, MaxTrackMinContent, MaxTrackMaxContent, MaxTrackFitContent:
		return t.kind == trackKindTrack
	}
	return false
}

// trackFunction picks the sizing function for the track at index k of an
// axis, counting from the first implicit track. Implicit tracks before the
// explicit grid cycle through auto backwards, those after it forwards.
func trackFunction(k int, counts trackCounts, template, auto []TrackSizingFunction) TrackSizingFunction {
	explicitIdx := k - counts.negative
	if explicitIdx >= 0 && explicitIdx < counts.explicit && explicitIdx < len(template) {
		return template[explicitIdx]
	}
	if len(auto) == 0 {
		return AutoTrack
	}
	if explicitIdx < 0 {
		n := len(auto)
		return auto[((explicitIdx%n)+n)%n]
	}
	return auto[(explicitIdx-counts.explicit)%len(auto)]
}

// initializeTracks builds the interleaved track list for one axis.
// Percentage track sizes against an indefinite axis behave as auto.
func initializeTracks(counts trackCounts, template, auto []TrackSizingFunction, gap Dimension, inner Opt) []GridTrack {
	n := counts.len()
	tracks := make([]GridTrack, 0, 2*n+1)
	edge := newGutter(Length(0))
	edge.collapsed = true
	tracks = append(tracks, edge)
	for k := 0; k < n; k++ {
		if k > 0 {
			tracks = append(tracks, newGutter(gap))
		}
		fn := trackFunction(k, counts, template, auto)
		if !inner.IsSet() {
			if fn.Min.Kind == MinTrackFixed && fn.Min.Value.Kind == DimPercent {
				fn.Min = MinTrackSizing{Kind: MinTrackAuto}
			}
			if (fn.Max.Kind == MaxTrackFixed || fn.Max.Kind == MaxTrackFitContent) && fn.Max.Value.Kind == DimPercent {
				fn.Max = MaxTrackSizing{Kind: MaxTrackAuto}
			}
		}
		tracks = append(tracks, newTrack(fn))
	}
	tracks = append(tracks, edge)
	return tracks
}

// trackRange is a half-open range of indices into a track list.
type trackRange struct {
	start, end int
}

func (r trackRange) trackCount() int { return (r.end - r.start + 1) / 2 }

// placementRange maps an origin-zero line placement to the range of track
// list entries the item covers, including inner gutters.
func placementRange(a axisPlacement, counts trackCounts) trackRange {
	return trackRange{
		start: 2*counts.lineIndex(a.start) + 1,
		end:   2 * counts.lineIndex(a.end),
	}
}

func sumBaseSizes(tracks []GridTrack, r trackRange) float64 {
	var total float64
	for i := r.start; i < r.end; i++ {
		total += tracks[i].baseSize
	}
	return total
}

func allTracks(tracks []GridTrack) trackRange { return trackRange{start: 0, end: len(tracks)} }

func countTracks(tracks []GridTrack) int {
	n := 0
	for i := range tracks {
		if !tracks[i].isGutter() {
			n++
		}
	}
	return n
}
