// pkg/layout/geometry.go
package layout

import "math"

// -- Axes --

// AbsoluteAxis is a physical layout axis.
type AbsoluteAxis uint8

const (
	// Horizontal is the inline (x) axis.
	Horizontal AbsoluteAxis = iota
	// Vertical is the block (y) axis.
	Vertical
)

// Other returns the perpendicular axis.
func (a AbsoluteAxis) Other() AbsoluteAxis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

// -- Generic Geometry --

// Point is a 2D coordinate pair.
type Point[T any] struct {
	X, Y T
}

// Get returns the component along axis.
func (p Point[T]) Get(axis AbsoluteAxis) T {
	if axis == Horizontal {
		return p.X
	}
	return p.Y
}

// Set writes the component along axis.
func (p *Point[T]) Set(axis AbsoluteAxis, v T) {
	if axis == Horizontal {
		p.X = v
	} else {
		p.Y = v
	}
}

// Size is a width and height pair.
type Size[T any] struct {
	Width, Height T
}

// Get returns the dimension along axis.
func (s Size[T]) Get(axis AbsoluteAxis) T {
	if axis == Horizontal {
		return s.Width
	}
	return s.Height
}

// Set writes the dimension along axis.
func (s *Size[T]) Set(axis AbsoluteAxis, v T) {
	if axis == Horizontal {
		s.Width = v
	} else {
		s.Height = v
	}
}

// With returns a copy of s with the dimension along axis replaced.
func (s Size[T]) With(axis AbsoluteAxis, v T) Size[T] {
	s.Set(axis, v)
	return s
}

// Rect holds one value per box edge.
type Rect[T any] struct {
	Left, Right, Top, Bottom T
}

// Start returns the leading edge along axis (left or top).
func (r Rect[T]) Start(axis AbsoluteAxis) T {
	if axis == Horizontal {
		return r.Left
	}
	return r.Top
}

// End returns the trailing edge along axis (right or bottom).
func (r Rect[T]) End(axis AbsoluteAxis) T {
	if axis == Horizontal {
		return r.Right
	}
	return r.Bottom
}

// Line is a start and end pair along a single axis.
type Line[T any] struct {
	Start, End T
}

// MapSize applies f to both dimensions.
func MapSize[T, U any](s Size[T], f func(T) U) Size[U] {
	return Size[U]{Width: f(s.Width), Height: f(s.Height)}
}

// ZipSize combines two sizes dimension by dimension.
func ZipSize[T, U, V any](a Size[T], b Size[U], f func(T, U) V) Size[V] {
	return Size[V]{Width: f(a.Width, b.Width), Height: f(a.Height, b.Height)}
}

// MapRect applies f to every edge.
func MapRect[T, U any](r Rect[T], f func(T) U) Rect[U] {
	return Rect[U]{Left: f(r.Left), Right: f(r.Right), Top: f(r.Top), Bottom: f(r.Bottom)}
}

// -- Float Helpers --

func addRects(a, b Rect[float64]) Rect[float64] {
	return Rect[float64]{Left: a.Left + b.Left, Right: a.Right + b.Right, Top: a.Top + b.Top, Bottom: a.Bottom + b.Bottom}
}

// sumAxes collapses edges into the total per axis.
func sumAxes(r Rect[float64]) Size[float64] {
	return Size[float64]{Width: r.Left + r.Right, Height: r.Top + r.Bottom}
}

func axisSum(r Rect[float64], axis AbsoluteAxis) float64 {
	return r.Start(axis) + r.End(axis)
}

func addSizes(a, b Size[float64]) Size[float64] {
	return Size[float64]{Width: a.Width + b.Width, Height: a.Height + b.Height}
}

func maxSizes(a, b Size[float64]) Size[float64] {
	return Size[float64]{Width: math.Max(a.Width, b.Width), Height: math.Max(a.Height, b.Height)}
}

// -- Optional Values --

// Opt is an optional float. The zero value is unset; NaN is never stored.
type Opt struct {
	value float64
	set   bool
}

// Some wraps v. NaN collapses to the unset value.
func Some(v float64) Opt {
	if math.IsNaN(v) {
		return Opt{}
	}
	return Opt{value: v, set: true}
}

// IsSet reports whether the value is present.
func (o Opt) IsSet() bool { return o.set }

// Value returns the wrapped value or zero.
func (o Opt) Value() float64 { return o.value }

// UnwrapOr returns the value or d.
func (o Opt) UnwrapOr(d float64) float64 {
	if o.set {
		return o.value
	}
	return d
}

// Or returns o if set, otherwise other.
func (o Opt) Or(other Opt) Opt {
	if o.set {
		return o
	}
	return other
}

// Add shifts a set value by v.
func (o Opt) Add(v float64) Opt {
	if o.set {
		return Some(o.value + v)
	}
	return o
}

// Sub shifts a set value by -v.
func (o Opt) Sub(v float64) Opt { return o.Add(-v) }

// MaybeMin returns min(o, other) when both are set, otherwise o.
func (o Opt) MaybeMin(other Opt) Opt {
	if o.set && other.set {
		return Some(math.Min(o.value, other.value))
	}
	return o
}

// MaybeMax returns max(o, other) when both are set, otherwise o.
func (o Opt) MaybeMax(other Opt) Opt {
	if o.set && other.set {
		return Some(math.Max(o.value, other.value))
	}
	return o
}

// MaybeClamp clamps a set value to [lo, hi], ignoring unset bounds. lo wins over hi.
func (o Opt) MaybeClamp(lo, hi Opt) Opt {
	return o.MaybeMin(hi).MaybeMax(lo)
}

func maybeMin(v float64, o Opt) float64 {
	if o.set {
		return math.Min(v, o.value)
	}
	return v
}

func maybeMax(v float64, o Opt) float64 {
	if o.set {
		return math.Max(v, o.value)
	}
	return v
}

func maybeClamp(v float64, lo, hi Opt) float64 {
	return maybeMax(maybeMin(v, hi), lo)
}

// -- Optional Sizes --

func someSize(s Size[float64]) Size[Opt] {
	return Size[Opt]{Width: Some(s.Width), Height: Some(s.Height)}
}

func orSize(a, b Size[Opt]) Size[Opt] {
	return Size[Opt]{Width: a.Width.Or(b.Width), Height: a.Height.Or(b.Height)}
}

func clampSize(s, lo, hi Size[Opt]) Size[Opt] {
	return Size[Opt]{Width: s.Width.MaybeClamp(lo.Width, hi.Width), Height: s.Height.MaybeClamp(lo.Height, hi.Height)}
}

func maxOptSize(s Size[Opt], floor Size[float64]) Size[Opt] {
	return Size[Opt]{Width: s.Width.MaybeMax(Some(floor.Width)), Height: s.Height.MaybeMax(Some(floor.Height))}
}

func unwrapSizeOr(s Size[Opt], d Size[float64]) Size[float64] {
	return Size[float64]{Width: s.Width.UnwrapOr(d.Width), Height: s.Height.UnwrapOr(d.Height)}
}

func addOptSize(s Size[Opt], d Size[float64]) Size[Opt] {
	return Size[Opt]{Width: s.Width.Add(d.Width), Height: s.Height.Add(d.Height)}
}

func bothSet(s Size[Opt]) bool { return s.Width.set && s.Height.set }

// -- Available Space --

// AvailableSpaceKind selects the sizing mode of an AvailableSpace.
type AvailableSpaceKind uint8

const (
	// SpaceDefinite carries a concrete pixel amount.
	SpaceDefinite AvailableSpaceKind = iota
	// SpaceMinContent asks for the narrowest size content allows.
	SpaceMinContent
	// SpaceMaxContent asks for the size content takes with no wrapping.
	SpaceMaxContent
)

// AvailableSpace is the per-axis room a container offers a child. It is a
// sizing mode, not a measured value.
type AvailableSpace struct {
	Kind  AvailableSpaceKind
	value float64
}

var (
	// MinContent is the min-content sizing mode.
	MinContent = AvailableSpace{Kind: SpaceMinContent}
	// MaxContent is the max-content sizing mode.
	MaxContent = AvailableSpace{Kind: SpaceMaxContent}
)

// Definite returns a definite amount of space. Negative amounts clamp to zero.
func Definite(v float64) AvailableSpace {
	if math.IsNaN(v) {
		return MaxContent
	}
	return AvailableSpace{Kind: SpaceDefinite, value: math.Max(v, 0)}
}

// MaxContentSize is max-content in both axes.
var MaxContentSize = Size[AvailableSpace]{Width: MaxContent, Height: MaxContent}

// DefiniteSize returns a definite available size.
func DefiniteSize(w, h float64) Size[AvailableSpace] {
	return Size[AvailableSpace]{Width: Definite(w), Height: Definite(h)}
}

func (a AvailableSpace) IsDefinite() bool   { return a.Kind == SpaceDefinite }
func (a AvailableSpace) IsMinContent() bool { return a.Kind == SpaceMinContent }
func (a AvailableSpace) IsMaxContent() bool { return a.Kind == SpaceMaxContent }

// AsOpt returns the definite amount, or unset for the content modes.
func (a AvailableSpace) AsOpt() Opt {
	if a.Kind == SpaceDefinite {
		return Some(a.value)
	}
	return Opt{}
}

// UnwrapOr returns the definite amount or d.
func (a AvailableSpace) UnwrapOr(d float64) float64 {
	if a.Kind == SpaceDefinite {
		return a.value
	}
	return d
}

// Sub shrinks a definite amount by v.
func (a AvailableSpace) Sub(v float64) AvailableSpace {
	if a.Kind == SpaceDefinite {
		return Definite(a.value - v)
	}
	return a
}

// MaybeSet replaces the space with a definite amount when o is set.
func (a AvailableSpace) MaybeSet(o Opt) AvailableSpace {
	if o.set {
		return Definite(o.value)
	}
	return a
}

// MaybeMin caps a definite amount by o.
func (a AvailableSpace) MaybeMin(o Opt) AvailableSpace {
	if a.Kind == SpaceDefinite && o.set {
		return Definite(math.Min(a.value, o.value))
	}
	return a
}

// IsRoughlyEqual compares modes and, for definite space, amounts.
func (a AvailableSpace) IsRoughlyEqual(b AvailableSpace) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == SpaceDefinite {
		return math.Abs(a.value-b.value) < epsilon
	}
	return true
}

func availableFromOpt(o Opt) AvailableSpace {
	if o.set {
		return Definite(o.value)
	}
	return MaxContent
}

func availableAsOpts(s Size[AvailableSpace]) Size[Opt] {
	return Size[Opt]{Width: s.Width.AsOpt(), Height: s.Height.AsOpt()}
}

const epsilon = 1e-6

// -- Dimensions --

// DimensionKind tags a Dimension.
type DimensionKind uint8

const (
	// DimAuto is the zero value: the algorithm decides.
	DimAuto DimensionKind = iota
	// DimLength is an absolute pixel length.
	DimLength
	// DimPercent is a fraction (0..1) of a reference length.
	DimPercent
)

// Dimension is a length, a percentage or auto.
type Dimension struct {
	Kind  DimensionKind
	Value float64
}

// Auto is the auto dimension.
var Auto = Dimension{}

// Length returns an absolute length in pixels.
func Length(v float64) Dimension { return Dimension{Kind: DimLength, Value: v} }

// Percent returns a fraction of the reference length (0.5 is 50%).
func Percent(v float64) Dimension { return Dimension{Kind: DimPercent, Value: v} }

// IsAuto reports whether d is auto.
func (d Dimension) IsAuto() bool { return d.Kind == DimAuto }

// Resolve turns d into pixels against ref. Percentages against an unset
// reference and auto stay unset.
func (d Dimension) Resolve(ref Opt) Opt {
	switch d.Kind {
	case DimLength:
		return Some(d.Value)
	case DimPercent:
		if ref.set {
			return Some(ref.value * d.Value)
		}
	}
	return Opt{}
}

// ResolveOrZero resolves d, mapping unresolvable values to zero.
func (d Dimension) ResolveOrZero(ref Opt) float64 {
	return d.Resolve(ref).UnwrapOr(0)
}

func resolveSize(s Size[Dimension], ref Size[Opt]) Size[Opt] {
	return Size[Opt]{Width: s.Width.Resolve(ref.Width), Height: s.Height.Resolve(ref.Height)}
}

func resolveRectOrZero(r Rect[Dimension], ref Opt) Rect[float64] {
	return MapRect(r, func(d Dimension) float64 { return d.ResolveOrZero(ref) })
}

func resolveInset(r Rect[Dimension], ref Size[Opt]) Rect[Opt] {
	return Rect[Opt]{
		Left:   r.Left.Resolve(ref.Width),
		Right:  r.Right.Resolve(ref.Width),
		Top:    r.Top.Resolve(ref.Height),
		Bottom: r.Bottom.Resolve(ref.Height),
	}
}

func applyAspectRatio(s Size[Opt], ratio Opt) Size[Opt] {
	if !ratio.set || ratio.value <= 0 {
		return s
	}
	switch {
	case s.Width.set && !s.Height.set:
		s.Height = Some(s.Width.value / ratio.value)
	case s.Height.set && !s.Width.set:
		s.Width = Some(s.Height.value * ratio.value)
	}
	return s
}

func clampNonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
