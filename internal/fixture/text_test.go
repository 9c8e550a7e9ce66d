// internal/fixture/text_test.go
package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xkilldash9x/boxlayout/pkg/layout"
)

func TestMetrics_Measure(t *testing.T) {
	m := DefaultMetrics
	text := &Text{Content: "the quick brown fox"}
	none := layout.Size[layout.Opt]{}

	cases := []struct {
		name      string
		known     layout.Size[layout.Opt]
		available layout.Size[layout.AvailableSpace]
		want      layout.Size[float64]
	}{
		{"max-content is one line", none, layout.MaxContentSize, layout.Size[float64]{Width: 152, Height: 16}},
		{"min-content breaks every word", none, layout.Size[layout.AvailableSpace]{Width: layout.MinContent, Height: layout.MaxContent}, layout.Size[float64]{Width: 40, Height: 64}},
		{"definite width wraps", none, layout.DefiniteSize(80, 100), layout.Size[float64]{Width: 72, Height: 32}},
		{"known width wins", layout.Size[layout.Opt]{Width: layout.Some(100)}, layout.MaxContentSize, layout.Size[float64]{Width: 100, Height: 32}},
		{"known height wins", layout.Size[layout.Opt]{Height: layout.Some(5)}, layout.MaxContentSize, layout.Size[float64]{Width: 152, Height: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, m.Measure(tc.known, tc.available, 0, text))
		})
	}
}

func TestMetrics_MeasureEdgeCases(t *testing.T) {
	m := DefaultMetrics

	assert.Equal(t, layout.Size[float64]{}, m.Measure(layout.Size[layout.Opt]{}, layout.MaxContentSize, 0, "not text"))
	assert.Equal(t, layout.Size[float64]{}, m.Measure(layout.Size[layout.Opt]{}, layout.MaxContentSize, 0, &Text{Content: "  "}))

	// Wide runes take two cells each.
	got := m.Measure(layout.Size[layout.Opt]{}, layout.MaxContentSize, 0, &Text{Content: "日本 ok"})
	assert.Equal(t, layout.Size[float64]{Width: 56, Height: 16}, got)

	// A word wider than the limit overflows on its own line.
	got = m.Measure(layout.Size[layout.Opt]{}, layout.DefiniteSize(16, 100), 0, &Text{Content: "a abcdef b"})
	assert.Equal(t, layout.Size[float64]{Width: 48, Height: 48}, got)
}

func TestWrap(t *testing.T) {
	lines, widest := wrap([]int{3, 5, 5, 3}, 9)
	assert.Equal(t, 2, lines)
	assert.Equal(t, 9, widest)
}
