// internal/fixture/text.go
package fixture

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/xkilldash9x/boxlayout/pkg/boxtree"
	"github.com/xkilldash9x/boxlayout/pkg/layout"
)

// Text is the node context of a text leaf.
type Text struct {
	Content string
}

// Metrics describes a monospace font: every terminal cell is CellWidth wide
// and every line LineHeight tall. Wide runes take two cells.
type Metrics struct {
	CellWidth  float64
	LineHeight float64
}

// DefaultMetrics approximates a 16px monospace font.
var DefaultMetrics = Metrics{CellWidth: 8, LineHeight: 16}

// Measure sizes Text contexts. It is a boxtree.ContextMeasureFunc.
func (m Metrics) Measure(known layout.Size[layout.Opt], available layout.Size[layout.AvailableSpace], _ boxtree.NodeId, ctx any) layout.Size[float64] {
	text, ok := ctx.(*Text)
	if !ok {
		return layout.Size[float64]{}
	}
	words := strings.Fields(text.Content)
	if len(words) == 0 {
		return layout.Size[float64]{}
	}
	cells := make([]int, len(words))
	longest, total := 0, len(words)-1
	for i, w := range words {
		cells[i] = runewidth.StringWidth(w)
		longest = max(longest, cells[i])
		total += cells[i]
	}

	limit := total
	switch {
	case known.Width.IsSet():
		limit = int(math.Floor(known.Width.Value()/m.CellWidth + 1e-9))
	case available.Width.IsMinContent():
		limit = longest
	case available.Width.IsDefinite():
		limit = int(math.Floor(available.Width.UnwrapOr(0)/m.CellWidth + 1e-9))
	}
	lines, widest := wrap(cells, limit)

	size := layout.Size[float64]{
		Width:  float64(widest) * m.CellWidth,
		Height: float64(lines) * m.LineHeight,
	}
	if known.Width.IsSet() {
		size.Width = known.Width.Value()
	}
	if known.Height.IsSet() {
		size.Height = known.Height.Value()
	}
	return size
}

// wrap greedily breaks words of the given cell widths into lines of at most
// limit cells. A word wider than limit gets a line of its own.
func wrap(cells []int, limit int) (lines, widest int) {
	lines, line := 1, -1
	for _, w := range cells {
		switch {
		case line < 0:
			line = w
		case line+1+w <= limit:
			line += 1 + w
		default:
			widest = max(widest, line)
			lines++
			line = w
		}
	}
	return lines, max(widest, line)
}
