// pkg/layout/cache.go
package layout

import "math"

const cacheSlots = 9

type cacheEntry struct {
	valid      bool
	known      Size[Opt]
	available  Size[AvailableSpace]
	sizingMode SizingMode
	axis       RequestedAxis
	output     LayoutOutput
}

// Cache memoizes a node's layout results. It is caller-stored and must be
// cleared when the node's style or subtree changes.
type Cache struct {
	final   cacheEntry
	measure [cacheSlots]cacheEntry
}

// IsEmpty reports whether nothing is cached.
func (c *Cache) IsEmpty() bool {
	if c.final.valid {
		return false
	}
	for i := range c.measure {
		if c.measure[i].valid {
			return false
		}
	}
	return true
}

// Clear drops every entry.
func (c *Cache) Clear() {
	*c = Cache{}
}

// slotFor picks a measurement slot so that the common request shapes (fixed
// width, fixed height, min-content and max-content in either axis) do not
// evict each other.
func slotFor(known Size[Opt], available Size[AvailableSpace]) int {
	switch {
	case known.Width.set && known.Height.set:
		return 0
	case known.Width.set:
		if available.Height.IsMinContent() {
			return 2
		}
		return 1
	case known.Height.set:
		if available.Width.IsMinContent() {
			return 4
		}
		return 3
	}
	slot := 5
	if available.Width.IsMinContent() {
		slot++
	}
	if available.Height.IsMinContent() {
		slot += 2
	}
	return slot
}

// Get returns a cached output compatible with in.
func (c *Cache) Get(in LayoutInput) (LayoutOutput, bool) {
	if in.RunMode == PerformLayout {
		if c.final.valid && c.final.matches(in) {
			return c.final.output, true
		}
		return LayoutOutput{}, false
	}
	for i := range c.measure {
		if c.measure[i].valid && c.measure[i].matches(in) {
			return c.measure[i].output, true
		}
	}
	return LayoutOutput{}, false
}

// Store records out for in.
func (c *Cache) Store(in LayoutInput, out LayoutOutput) {
	e := cacheEntry{
		valid:      true,
		known:      in.KnownDimensions,
		available:  in.AvailableSpace,
		sizingMode: in.SizingMode,
		axis:       in.Axis,
		output:     out,
	}
	if in.RunMode == PerformLayout {
		c.final = e
		return
	}
	c.measure[slotFor(in.KnownDimensions, in.AvailableSpace)] = e
}

// matches is true when in would produce the cached output: known dimensions
// equal the cached ones or the cached result, and available space only
// matters in axes that are not already known. A single-axis result leaves
// the other axis as a placeholder, so it only answers the same axis.
func (e *cacheEntry) matches(in LayoutInput) bool {
	if e.sizingMode != in.SizingMode {
		return false
	}
	if e.axis != AxisBoth && e.axis != in.Axis {
		return false
	}
	size := e.output.Size
	return knownCompatible(in.KnownDimensions.Width, e.known.Width, size.Width) &&
		knownCompatible(in.KnownDimensions.Height, e.known.Height, size.Height) &&
		(in.KnownDimensions.Width.set || e.available.Width.IsRoughlyEqual(in.AvailableSpace.Width)) &&
		(in.KnownDimensions.Height.set || e.available.Height.IsRoughlyEqual(in.AvailableSpace.Height))
}

func knownCompatible(req, cached Opt, cachedSize float64) bool {
	if req == cached {
		return true
	}
	return req.set && math.Abs(req.value-cachedSize) < epsilon
}
