// pkg/layout/style.go
package layout

// -- Box Generation --

// Display is the closed set of box generation modes.
type Display uint8

const (
	DisplayBlock Display = iota
	DisplayFlex
	DisplayGrid
	// DisplayNone removes the node and its subtree from layout.
	DisplayNone
	// DisplayContents generates no box; children are laid out as if they
	// belonged to the parent.
	DisplayContents
)

func (d Display) String() string {
	switch d {
	case DisplayFlex:
		return "FLEX"
	case DisplayGrid:
		return "GRID"
	case DisplayNone:
		return "NONE"
	case DisplayContents:
		return "CONTENTS"
	default:
		return "BLOCK"
	}
}

type Position uint8

const (
	PositionRelative Position = iota
	PositionAbsolute
)

type BoxSizing uint8

const (
	BoxSizingBorderBox BoxSizing = iota
	BoxSizingContentBox
)

type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowClip
	OverflowHidden
	OverflowScroll
)

// IsScrollContainer reports whether the overflow value makes the node a
// scroll container, which zeroes its automatic minimum size.
func (o Overflow) IsScrollContainer() bool {
	return o == OverflowHidden || o == OverflowScroll
}

// -- Alignment --

// AlignItems is used for align-items, align-self, justify-items and
// justify-self. The zero value means "normal" (unset).
type AlignItems uint8

const (
	AlignNormal AlignItems = iota
	AlignStart
	AlignEnd
	AlignFlexStart
	AlignFlexEnd
	AlignCenter
	AlignBaseline
	AlignStretch
)

// AlignContent is used for align-content and justify-content. The zero
// value means "normal" (unset).
type AlignContent uint8

const (
	ContentNormal AlignContent = iota
	ContentStart
	ContentEnd
	ContentFlexStart
	ContentFlexEnd
	ContentCenter
	ContentStretch
	ContentSpaceBetween
	ContentSpaceAround
	ContentSpaceEvenly
)

// -- Flexbox --

type FlexDirection uint8

const (
	FlexDirectionRow FlexDirection = iota
	FlexDirectionColumn
	FlexDirectionRowReverse
	FlexDirectionColumnReverse
)

func (d FlexDirection) IsRow() bool {
	return d == FlexDirectionRow || d == FlexDirectionRowReverse
}

func (d FlexDirection) IsReverse() bool {
	return d == FlexDirectionRowReverse || d == FlexDirectionColumnReverse
}

// MainAxis returns the physical main axis.
func (d FlexDirection) MainAxis() AbsoluteAxis {
	if d.IsRow() {
		return Horizontal
	}
	return Vertical
}

type FlexWrap uint8

const (
	FlexNoWrap FlexWrap = iota
	FlexWrapWrap
	FlexWrapReverse
)

// -- Grid --

type GridAutoFlow uint8

const (
	GridAutoFlowRow GridAutoFlow = iota
	GridAutoFlowColumn
	GridAutoFlowRowDense
	GridAutoFlowColumnDense
)

func (f GridAutoFlow) IsDense() bool {
	return f == GridAutoFlowRowDense || f == GridAutoFlowColumnDense
}

// PrimaryAxis is the axis the placement cursor advances along.
func (f GridAutoFlow) PrimaryAxis() AbsoluteAxis {
	if f == GridAutoFlowRow || f == GridAutoFlowRowDense {
		return Horizontal
	}
	return Vertical
}

type MinTrackKind uint8

const (
	MinTrackAuto MinTrackKind = iota
	MinTrackFixed
	MinTrackMinContent
	MinTrackMaxContent
)

type MaxTrackKind uint8

const (
	MaxTrackAuto MaxTrackKind = iota
	MaxTrackFixed
	MaxTrackMinContent
	MaxTrackMaxContent
	MaxTrackFitContent
	MaxTrackFraction
)

// MinTrackSizing is the min half of minmax(). Value is used by MinTrackFixed.
type MinTrackSizing struct {
	Kind  MinTrackKind
	Value Dimension
}

// MaxTrackSizing is the max half of minmax(). Value is used by
// MaxTrackFixed and MaxTrackFitContent, Flex by MaxTrackFraction.
type MaxTrackSizing struct {
	Kind  MaxTrackKind
	Value Dimension
	Flex  float64
}

// TrackSizingFunction describes one grid track.
type TrackSizingFunction struct {
	Min MinTrackSizing
	Max MaxTrackSizing
}

// FixedTrack is a length or percentage track.
func FixedTrack(d Dimension) TrackSizingFunction {
	return TrackSizingFunction{
		Min: MinTrackSizing{Kind: MinTrackFixed, Value: d},
		Max: MaxTrackSizing{Kind: MaxTrackFixed, Value: d},
	}
}

// FrTrack is minmax(auto, <flex>fr).
func FrTrack(flex float64) TrackSizingFunction {
	return TrackSizingFunction{
		Min: MinTrackSizing{Kind: MinTrackAuto},
		Max: MaxTrackSizing{Kind: MaxTrackFraction, Flex: flex},
	}
}

// AutoTrack is an auto track. It is the zero value.
var AutoTrack = TrackSizingFunction{}

// MinContentTrack is a min-content track.
var MinContentTrack = TrackSizingFunction{
	Min: MinTrackSizing{Kind: MinTrackMinContent},
	Max: MaxTrackSizing{Kind: MaxTrackMinContent},
}

// MaxContentTrack is a max-content track.
var MaxContentTrack = TrackSizingFunction{
	Min: MinTrackSizing{Kind: MinTrackMaxContent},
	Max: MaxTrackSizing{Kind: MaxTrackMaxContent},
}

// FitContentTrack is fit-content(limit).
func FitContentTrack(limit Dimension) TrackSizingFunction {
	return TrackSizingFunction{
		Min: MinTrackSizing{Kind: MinTrackAuto},
		Max: MaxTrackSizing{Kind: MaxTrackFitContent, Value: limit},
	}
}

// MinMaxTrack is minmax(min, max).
func MinMaxTrack(lo MinTrackSizing, hi MaxTrackSizing) TrackSizingFunction {
	return TrackSizingFunction{Min: lo, Max: hi}
}

// TemplateEntry is one entry of grid-template-rows/columns: either a single
// track or repeat(Count, Tracks...).
type TemplateEntry struct {
	Tracks []TrackSizingFunction
	Count  int
}

// Single returns a template entry with one track.
func Single(t TrackSizingFunction) TemplateEntry {
	return TemplateEntry{Tracks: []TrackSizingFunction{t}, Count: 1}
}

// Repeat returns repeat(count, tracks...).
func Repeat(count int, tracks ...TrackSizingFunction) TemplateEntry {
	return TemplateEntry{Tracks: tracks, Count: count}
}

// expandTemplate flattens repeat() entries.
func expandTemplate(entries []TemplateEntry) []TrackSizingFunction {
	var out []TrackSizingFunction
	for _, e := range entries {
		for i := 0; i < e.Count; i++ {
			out = append(out, e.Tracks...)
		}
	}
	return out
}

type GridPlacementKind uint8

const (
	PlacementAuto GridPlacementKind = iota
	PlacementLine
	PlacementSpan
)

// GridPlacement is one side of grid-row or grid-column. Line indices are
// 1-based CSS line numbers and may be negative to count from the end.
type GridPlacement struct {
	Kind  GridPlacementKind
	Value int
}

// GridLine places at a CSS line number. Line 0 is invalid and behaves as auto.
func GridLine(n int) GridPlacement {
	if n == 0 {
		return GridPlacement{}
	}
	return GridPlacement{Kind: PlacementLine, Value: n}
}

// GridSpan spans n tracks. Non-positive spans behave as span 1.
func GridSpan(n int) GridPlacement {
	if n < 1 {
		n = 1
	}
	return GridPlacement{Kind: PlacementSpan, Value: n}
}

// -- Style View Interfaces --

// CoreStyle is the box model view every algorithm reads.
type CoreStyle interface {
	GetDisplay() Display
	GetBoxSizing() BoxSizing
	GetOverflow() Point[Overflow]
	GetPosition() Position
	GetInset() Rect[Dimension]
	GetSize() Size[Dimension]
	GetMinSize() Size[Dimension]
	GetMaxSize() Size[Dimension]
	GetAspectRatio() Opt
	GetMargin() Rect[Dimension]
	GetPadding() Rect[Dimension]
	GetBorder() Rect[Dimension]
}

// FlexContainerStyle is read from flex containers.
type FlexContainerStyle interface {
	CoreStyle
	GetFlexDirection() FlexDirection
	GetFlexWrap() FlexWrap
	GetGap() Size[Dimension]
	GetAlignContent() AlignContent
	GetAlignItems() AlignItems
	GetJustifyContent() AlignContent
}

// FlexItemStyle is read from children of flex containers.
type FlexItemStyle interface {
	CoreStyle
	GetFlexBasis() Dimension
	GetFlexGrow() float64
	GetFlexShrink() float64
	GetAlignSelf() AlignItems
}

// GridContainerStyle is read from grid containers.
type GridContainerStyle interface {
	CoreStyle
	GetGridTemplateRows() []TemplateEntry
	GetGridTemplateColumns() []TemplateEntry
	GetGridAutoRows() []TrackSizingFunction
	GetGridAutoColumns() []TrackSizingFunction
	GetGridAutoFlow() GridAutoFlow
	GetGap() Size[Dimension]
	GetAlignContent() AlignContent
	GetJustifyContent() AlignContent
	GetAlignItems() AlignItems
	GetJustifyItems() AlignItems
}

// GridItemStyle is read from children of grid containers.
type GridItemStyle interface {
	CoreStyle
	GetGridRow() Line[GridPlacement]
	GetGridColumn() Line[GridPlacement]
	GetAlignSelf() AlignItems
	GetJustifySelf() AlignItems
}

// StyleView is everything a node may be asked for.
type StyleView interface {
	FlexContainerStyle
	FlexItemStyle
	GridContainerStyle
	GridItemStyle
}

// -- Concrete Style --

// Style is a plain value implementation of StyleView.
type Style struct {
	Display     Display
	BoxSizing   BoxSizing
	Overflow    Point[Overflow]
	Position    Position
	Inset       Rect[Dimension]
	Size        Size[Dimension]
	MinSize     Size[Dimension]
	MaxSize     Size[Dimension]
	AspectRatio Opt
	Margin      Rect[Dimension]
	Padding     Rect[Dimension]
	Border      Rect[Dimension]

	Gap            Size[Dimension]
	AlignItems     AlignItems
	AlignSelf      AlignItems
	JustifyItems   AlignItems
	JustifySelf    AlignItems
	AlignContent   AlignContent
	JustifyContent AlignContent

	FlexDirection FlexDirection
	FlexWrap      FlexWrap
	FlexBasis     Dimension
	FlexGrow      float64
	FlexShrink    float64

	GridTemplateRows    []TemplateEntry
	GridTemplateColumns []TemplateEntry
	GridAutoRows        []TrackSizingFunction
	GridAutoColumns     []TrackSizingFunction
	GridAutoFlow        GridAutoFlow
	GridRow             Line[GridPlacement]
	GridColumn          Line[GridPlacement]
}

// DefaultStyle returns the CSS initial values. The zero Style is not a
// sensible starting point: its margins are auto and its FlexShrink is 0.
func DefaultStyle() Style {
	zero := Length(0)
	return Style{
		Margin:     Rect[Dimension]{Left: zero, Right: zero, Top: zero, Bottom: zero},
		FlexShrink: 1,
	}
}

var _ StyleView = (*Style)(nil)

func (s *Style) GetDisplay() Display                       { return s.Display }
func (s *Style) GetBoxSizing() BoxSizing                   { return s.BoxSizing }
func (s *Style) GetOverflow() Point[Overflow]              { return s.Overflow }
func (s *Style) GetPosition() Position                     { return s.Position }
func (s *Style) GetInset() Rect[Dimension]                 { return s.Inset }
func (s *Style) GetSize() Size[Dimension]                  { return s.Size }
func (s *Style) GetMinSize() Size[Dimension]               { return s.MinSize }
func (s *Style) GetMaxSize() Size[Dimension]               { return s.MaxSize }
func (s *Style) GetAspectRatio() Opt                       { return s.AspectRatio }
func (s *Style) GetMargin() Rect[Dimension]                { return s.Margin }
func (s *Style) GetPadding() Rect[Dimension]               { return s.Padding }
func (s *Style) GetBorder() Rect[Dimension]                { return s.Border }
func (s *Style) GetGap() Size[Dimension]                   { return s.Gap }
func (s *Style) GetAlignItems() AlignItems                 { return s.AlignItems }
func (s *Style) GetAlignSelf() AlignItems                  { return s.AlignSelf }
func (s *Style) GetJustifyItems() AlignItems               { return s.JustifyItems }
func (s *Style) GetJustifySelf() AlignItems                { return s.JustifySelf }
func (s *Style) GetAlignContent() AlignContent             { return s.AlignContent }
func (s *Style) GetJustifyContent() AlignContent           { return s.JustifyContent }
func (s *Style) GetFlexDirection() FlexDirection           { return s.FlexDirection }
func (s *Style) GetFlexWrap() FlexWrap                     { return s.FlexWrap }
func (s *Style) GetFlexBasis() Dimension                   { return s.FlexBasis }
func (s *Style) GetFlexGrow() float64                      { return s.FlexGrow }
func (s *Style) GetFlexShrink() float64                    { return s.FlexShrink }
func (s *Style) GetGridTemplateRows() []TemplateEntry      { return s.GridTemplateRows }
func (s *Style) GetGridTemplateColumns() []TemplateEntry   { return s.GridTemplateColumns }
func (s *Style) GetGridAutoRows() []TrackSizingFunction    { return s.GridAutoRows }
func (s *Style) GetGridAutoColumns() []TrackSizingFunction { return s.GridAutoColumns }
func (s *Style) GetGridAutoFlow() GridAutoFlow             { return s.GridAutoFlow }
func (s *Style) GetGridRow() Line[GridPlacement]           { return s.GridRow }
func (s *Style) GetGridColumn() Line[GridPlacement]        { return s.GridColumn }

// -- Resolution Helpers --

// boxSizingAdjustment is added to style sizes so they describe border boxes.
func boxSizingAdjustment(s CoreStyle, paddingBorder Size[float64]) Size[float64] {
	if s.GetBoxSizing() == BoxSizingContentBox {
		return paddingBorder
	}
	return Size[float64]{}
}

// resolvedSizes returns a node's style size, min and max as border-box
// lengths against parentSize.
func resolvedSizes(s CoreStyle, parentSize Size[Opt], paddingBorder Size[float64]) (size, minSize, maxSize Size[Opt]) {
	adj := boxSizingAdjustment(s, paddingBorder)
	ratio := s.GetAspectRatio()
	size = addOptSize(applyAspectRatio(resolveSize(s.GetSize(), parentSize), ratio), adj)
	minSize = addOptSize(applyAspectRatio(resolveSize(s.GetMinSize(), parentSize), ratio), adj)
	maxSize = addOptSize(resolveSize(s.GetMaxSize(), parentSize), adj)
	return size, minSize, maxSize
}

// boxEdges resolves padding and border. Percentages on every side refer to
// the containing block's width.
func boxEdges(s CoreStyle, parentWidth Opt) (padding, border Rect[float64]) {
	padding = MapRect(s.GetPadding(), func(d Dimension) float64 { return clampNonNegative(d.ResolveOrZero(parentWidth)) })
	border = MapRect(s.GetBorder(), func(d Dimension) float64 { return clampNonNegative(d.ResolveOrZero(parentWidth)) })
	return padding, border
}
