// pkg/layout/geometry_test.go
package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpt(t *testing.T) {
	assert.False(t, Some(math.NaN()).IsSet(), "NaN is never stored")
	assert.False(t, Opt{}.IsSet())
	assert.Equal(t, 3.0, Opt{}.UnwrapOr(3))
	assert.Equal(t, Some(7), Some(7).MaybeClamp(Some(0), Some(10)))
	assert.Equal(t, Some(10), Some(12).MaybeClamp(Some(0), Some(10)))
	assert.Equal(t, Some(5), Some(2).MaybeClamp(Some(5), Some(3)), "min wins over max")
	assert.Equal(t, Some(4), Opt{}.Or(Some(4)))
	assert.False(t, Opt{}.Add(1).IsSet())
}

func TestAvailableSpace(t *testing.T) {
	assert.Equal(t, MaxContent, Definite(math.NaN()))
	assert.Equal(t, Definite(0), Definite(-5))
	assert.Equal(t, Definite(70), Definite(100).Sub(30))
	assert.Equal(t, MinContent, MinContent.Sub(30))
	assert.Equal(t, Definite(40), MaxContent.MaybeSet(Some(40)))
	assert.Equal(t, Definite(20), Definite(50).MaybeMin(Some(20)))
	assert.False(t, MaxContent.AsOpt().IsSet())
	assert.True(t, Definite(10).IsRoughlyEqual(Definite(10+1e-9)))
	assert.False(t, Definite(10).IsRoughlyEqual(MaxContent))
}

func TestDimension_Resolve(t *testing.T) {
	cases := []struct {
		name string
		dim  Dimension
		ref  Opt
		want Opt
	}{
		{"length ignores the reference", Length(12), Opt{}, Some(12)},
		{"percent of a definite reference", Percent(0.25), Some(200), Some(50)},
		{"percent of an indefinite reference", Percent(0.25), Opt{}, Opt{}},
		{"auto", Auto, Some(200), Opt{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.dim.Resolve(tc.ref))
		})
	}
	assert.Equal(t, 0.0, Auto.ResolveOrZero(Some(10)))
}

func TestContentDistribution(t *testing.T) {
	cases := []struct {
		mode           AlignContent
		free           float64
		count          int
		start, between float64
	}{
		{ContentStart, 90, 3, 0, 0},
		{ContentFlexEnd, 90, 3, 90, 0},
		{ContentCenter, 90, 3, 45, 0},
		{ContentSpaceBetween, 90, 3, 0, 45},
		{ContentSpaceBetween, 90, 1, 0, 0},
		{ContentSpaceAround, 90, 3, 15, 30},
		{ContentSpaceEvenly, 80, 3, 20, 20},
		{ContentCenter, -40, 3, 0, 0},
	}
	for _, tc := range cases {
		start, between := contentDistribution(tc.free, tc.count, tc.mode)
		assert.InDelta(t, tc.start, start, 1e-9, "mode %d free %v", tc.mode, tc.free)
		assert.InDelta(t, tc.between, between, 1e-9, "mode %d free %v", tc.mode, tc.free)
	}
}

func TestCollapsibleMarginSet(t *testing.T) {
	set := CollapsibleMarginSet{}.CollapseWithMargin(10).CollapseWithMargin(25).CollapseWithMargin(-8)
	assert.Equal(t, 17.0, set.Resolve())

	other := CollapsibleMarginSet{}.CollapseWithMargin(-12)
	assert.Equal(t, 13.0, set.CollapseWithSet(other).Resolve())
}
