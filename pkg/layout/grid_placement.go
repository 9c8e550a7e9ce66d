// pkg/layout/grid_placement.go
package layout

// -- Line Resolution --

// Grid lines are handled in origin-zero coordinates: line 0 is the start of
// the explicit grid and implicit tracks before it have negative lines.

// trackCounts describes one axis of the grid in tracks.
type trackCounts struct {
	negative int
	explicit int
	positive int
}

func (t trackCounts) len() int           { return t.negative + t.explicit + t.positive }
func (t trackCounts) implicitStart() int { return -t.negative }
func (t trackCounts) implicitEnd() int   { return t.explicit + t.positive }

// lineIndex maps an origin-zero line to its position in the track list,
// counting lines from the first implicit line.
func (t trackCounts) lineIndex(line int) int { return line + t.negative }

// resolveLine converts a 1-based, possibly negative, CSS line number.
func resolveLine(n, explicitTracks int) int {
	if n > 0 {
		return n - 1
	}
	return explicitTracks + 1 + n
}

// axisPlacement is an item's placement along one axis. When definite is
// false only span is meaningful.
type axisPlacement struct {
	start, end int
	span       int
	definite   bool
}

func resolveAxisPlacement(line Line[GridPlacement], explicitTracks int) axisPlacement {
	s, e := line.Start, line.End
	switch {
	case s.Kind == PlacementLine && e.Kind == PlacementLine:
		a, b := resolveLine(s.Value, explicitTracks), resolveLine(e.Value, explicitTracks)
		if a == b {
			b = a + 1
		}
		if b < a {
			a, b = b, a
		}
		return axisPlacement{start: a, end: b, span: b - a, definite: true}
	case s.Kind == PlacementLine:
		a := resolveLine(s.Value, explicitTracks)
		span := 1
		if e.Kind == PlacementSpan {
			span = e.Value
		}
		return axisPlacement{start: a, end: a + span, span: span, definite: true}
	case e.Kind == PlacementLine:
		b := resolveLine(e.Value, explicitTracks)
		span := 1
		if s.Kind == PlacementSpan {
			span = s.Value
		}
		return axisPlacement{start: b - span, end: b, span: span, definite: true}
	}
	span := 1
	if s.Kind == PlacementSpan {
		span = s.Value
	} else if e.Kind == PlacementSpan {
		span = e.Value
	}
	return axisPlacement{span: span}
}

func (a axisPlacement) at(start int) axisPlacement {
	return axisPlacement{start: start, end: start + a.span, span: a.span, definite: true}
}

// -- Cell Occupancy --

type cellState uint8

const (
	cellDefinite cellState = iota + 1
	cellAutoPlaced
)

type gridCell struct {
	row, col int
}

// CellOccupancyMatrix is a sparse record of claimed cells. Its track counts
// grow as items are placed outside the current grid.
type CellOccupancyMatrix struct {
	cells map[gridCell]cellState
	cols  trackCounts
	rows  trackCounts
}

func newCellOccupancyMatrix(cols, rows trackCounts) *CellOccupancyMatrix {
	return &CellOccupancyMatrix{cells: make(map[gridCell]cellState), cols: cols, rows: rows}
}

func (m *CellOccupancyMatrix) counts(axis AbsoluteAxis) trackCounts {
	if axis == Horizontal {
		return m.cols
	}
	return m.rows
}

func cellFor(primary AbsoluteAxis, p, s int) gridCell {
	if primary == Horizontal {
		return gridCell{row: s, col: p}
	}
	return gridCell{row: p, col: s}
}

// areaFree reports whether no cell in the area is claimed. Areas are given
// as primary and secondary axis line ranges.
func (m *CellOccupancyMatrix) areaFree(primary AbsoluteAxis, p, s axisPlacement) bool {
	for i := p.start; i < p.end; i++ {
		for j := s.start; j < s.end; j++ {
			if _, taken := m.cells[cellFor(primary, i, j)]; taken {
				return false
			}
		}
	}
	return true
}

// mark claims an area, expanding the implicit grid to contain it.
func (m *CellOccupancyMatrix) mark(row, col axisPlacement, state cellState) {
	for r := row.start; r < row.end; r++ {
		for c := col.start; c < col.end; c++ {
			m.cells[gridCell{row: r, col: c}] = state
		}
	}
	m.rows = expandCounts(m.rows, row)
	m.cols = expandCounts(m.cols, col)
}

func expandCounts(t trackCounts, a axisPlacement) trackCounts {
	if a.start < -t.negative {
		t.negative = -a.start
	}
	if a.end > t.explicit+t.positive {
		t.positive = a.end - t.explicit
	}
	return t
}

// lastAutoPlaced returns the highest primary line of an auto-placed cell in
// the given secondary track.
func (m *CellOccupancyMatrix) lastAutoPlaced(primary AbsoluteAxis, secondary int) (int, bool) {
	last, found := 0, false
	for cell, state := range m.cells {
		if state != cellAutoPlaced {
			continue
		}
		p, s := cell.col, cell.row
		if primary == Vertical {
			p, s = cell.row, cell.col
		}
		if s == secondary && (!found || p > last) {
			last, found = p, true
		}
	}
	return last, found
}

// -- Auto-Placement --

type placementRequest struct {
	row, col axisPlacement
}

// estimateTrackCounts sizes the initial grid from definite placements and
// the largest span, so the auto-placement cursor knows where rows wrap.
func estimateTrackCounts(reqs []placementRequest, explicitCols, explicitRows int) (trackCounts, trackCounts) {
	cols := trackCounts{explicit: explicitCols}
	rows := trackCounts{explicit: explicitRows}
	for _, r := range reqs {
		cols = estimateAxis(cols, r.col)
		rows = estimateAxis(rows, r.row)
	}
	return cols, rows
}

func estimateAxis(t trackCounts, a axisPlacement) trackCounts {
	if a.definite {
		return expandCounts(t, a)
	}
	if a.span > t.len() {
		t.positive = a.span - t.explicit - t.negative
	}
	return t
}

// placeGridItems resolves every request to a definite area. Items fixed in
// both axes go first, then items fixed in the secondary axis, then the rest
// in order using the flow cursor.
func placeGridItems(m *CellOccupancyMatrix, reqs []placementRequest, flow GridAutoFlow) []placementRequest {
	primary := flow.PrimaryAxis()
	secondary := primary.Other()
	dense := flow.IsDense()

	axisOf := func(r placementRequest, axis AbsoluteAxis) axisPlacement {
		if axis == Horizontal {
			return r.col
		}
		return r.row
	}
	build := func(p, s axisPlacement) placementRequest {
		if primary == Horizontal {
			return placementRequest{row: s, col: p}
		}
		return placementRequest{row: p, col: s}
	}

	out := make([]placementRequest, len(reqs))
	done := make([]bool, len(reqs))

	for i, r := range reqs {
		if r.row.definite && r.col.definite {
			m.mark(r.row, r.col, cellDefinite)
			out[i], done[i] = r, true
		}
	}

	for i, r := range reqs {
		if done[i] {
			continue
		}
		p, s := axisOf(r, primary), axisOf(r, secondary)
		if !s.definite || p.definite {
			continue
		}
		pos := m.counts(primary).implicitStart()
		if !dense {
			if last, ok := m.lastAutoPlaced(primary, s.start); ok {
				pos = last
			}
		}
		for !m.areaFree(primary, p.at(pos), s) {
			pos++
		}
		placed := build(p.at(pos), s)
		m.mark(placed.row, placed.col, cellAutoPlaced)
		out[i], done[i] = placed, true
	}

	primaryStart := m.counts(primary).implicitStart()
	secondaryStart := m.counts(secondary).implicitStart()
	cursorP, cursorS := primaryStart, secondaryStart

	for i, r := range reqs {
		if done[i] {
			continue
		}
		p, s := axisOf(r, primary), axisOf(r, secondary)

		if p.definite {
			if dense {
				cursorS = secondaryStart
			} else if p.start < cursorP {
				cursorS++
			}
			cursorP = p.start
			for !m.areaFree(primary, p, s.at(cursorS)) {
				cursorS++
			}
			placed := build(p, s.at(cursorS))
			m.mark(placed.row, placed.col, cellAutoPlaced)
			out[i] = placed
			if dense {
				cursorP, cursorS = primaryStart, secondaryStart
			}
			continue
		}

		if dense {
			cursorP, cursorS = primaryStart, secondaryStart
		}
		for {
			end := m.counts(primary).implicitEnd()
			if cursorP+p.span > end && cursorP > primaryStart {
				cursorP = primaryStart
				cursorS++
				continue
			}
			if m.areaFree(primary, p.at(cursorP), s.at(cursorS)) {
				break
			}
			cursorP++
		}
		placed := build(p.at(cursorP), s.at(cursorS))
		m.mark(placed.row, placed.col, cellAutoPlaced)
		out[i] = placed
		cursorP += p.span
	}
	return out
}
