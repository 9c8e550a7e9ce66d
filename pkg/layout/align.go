// pkg/layout/align.go
package layout

// -- Alignment Primitives --

// contentDistribution returns the leading offset and the extra space added
// between consecutive items when freeSpace is distributed among count items
// (flex lines, flex items on a line, or grid tracks). Negative free space is
// clamped so every mode falls back to start anchoring.
func contentDistribution(freeSpace float64, count int, mode AlignContent) (start, between float64) {
	if freeSpace <= 0 || count == 0 {
		return 0, 0
	}
	switch mode {
	case ContentEnd, ContentFlexEnd:
		return freeSpace, 0
	case ContentCenter:
		return freeSpace / 2, 0
	case ContentSpaceBetween:
		if count > 1 {
			return 0, freeSpace / float64(count-1)
		}
		return 0, 0
	case ContentSpaceAround:
		between = freeSpace / float64(count)
		return between / 2, between
	case ContentSpaceEvenly:
		between = freeSpace / float64(count+1)
		return between, between
	default:
		return 0, 0
	}
}

// selfOffset positions a box inside freeSpace according to align.
// Baseline and stretch behave as start here; callers handle them first.
func selfOffset(freeSpace float64, align AlignItems) float64 {
	switch align {
	case AlignEnd, AlignFlexEnd:
		return freeSpace
	case AlignCenter:
		return freeSpace / 2
	default:
		return 0
	}
}
