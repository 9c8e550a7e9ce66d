// pkg/layout/tree.go
package layout

// NodeId is an opaque handle chosen by the tree implementation. The engine
// only copies and compares it.
type NodeId uint64

// MeasureFunc sizes leaf content the engine cannot see (text, images).
// known holds content-box dimensions that are already fixed. It must be a
// pure function of its inputs.
type MeasureFunc func(known Size[Opt], available Size[AvailableSpace]) Size[float64]

// TraverseTree walks a caller-owned node store.
type TraverseTree interface {
	ChildCount(node NodeId) int
	ChildAt(node NodeId, index int) NodeId
}

// LayoutTree is the storage contract every algorithm is written against.
// Implementations that cannot find a node panic with an error wrapping
// ErrInvalidNode; ComputeLayout converts that into a returned *LayoutError.
// An error with an InvalidNode() NodeId method names the rejected handle.
type LayoutTree interface {
	TraverseTree
	Style(node NodeId) StyleView
	Cache(node NodeId) *Cache
	SetUnroundedLayout(node NodeId, layout *Layout)
	// MeasureFunc returns nil for nodes without intrinsic content.
	MeasureFunc(node NodeId) MeasureFunc
}

// RoundTree is the contract used by RoundLayout.
type RoundTree interface {
	TraverseTree
	UnroundedLayout(node NodeId) *Layout
	SetFinalLayout(node NodeId, layout *Layout)
}

// Layout is the final geometry of one node. Location is the border-box
// offset relative to the parent's content box.
type Layout struct {
	// Order is the node's index in its parent's layout child list.
	Order       uint32
	Location    Point[float64]
	Size        Size[float64]
	ContentSize Size[float64]
	Border      Rect[float64]
	Padding     Rect[float64]
	Margin      Rect[float64]
}

// ContentBoxOrigin returns the offset of the content box inside the border box.
func (l *Layout) ContentBoxOrigin() Point[float64] {
	return Point[float64]{X: l.Border.Left + l.Padding.Left, Y: l.Border.Top + l.Padding.Top}
}

// -- Layout Inputs and Outputs --

// RunMode selects between full layout and size-only measurement.
type RunMode uint8

const (
	// PerformLayout computes size and writes child layouts.
	PerformLayout RunMode = iota
	// ComputeSize only computes the node's size.
	ComputeSize
)

// SizingMode decides whether the node's own style sizes apply.
type SizingMode uint8

const (
	// InherentSize honours the node's style size, min and max.
	InherentSize SizingMode = iota
	// ContentSize ignores style sizes and measures content only.
	ContentSize
)

// RequestedAxis narrows a ComputeSize request to one axis.
type RequestedAxis uint8

const (
	AxisBoth RequestedAxis = iota
	AxisHorizontal
	AxisVertical
)

// LayoutInput is what a parent passes when asking for a child's layout.
type LayoutInput struct {
	RunMode    RunMode
	SizingMode SizingMode
	Axis       RequestedAxis
	// KnownDimensions are border-box sizes the parent has already fixed.
	KnownDimensions Size[Opt]
	// ParentSize is the reference for percentage resolution.
	ParentSize     Size[Opt]
	AvailableSpace Size[AvailableSpace]
	// VerticalMarginsAreCollapsible reports whether the node's own top and
	// bottom margins may collapse with its children's.
	VerticalMarginsAreCollapsible Line[bool]
}

// LayoutOutput is what an algorithm reports back to its parent.
type LayoutOutput struct {
	Size           Size[float64]
	ContentSize    Size[float64]
	FirstBaselines Point[Opt]
	// TopMargin and BottomMargin carry child margins that collapsed through
	// this node's edges.
	TopMargin                 CollapsibleMarginSet
	BottomMargin              CollapsibleMarginSet
	MarginsCanCollapseThrough bool
}

func outputFromSize(size Size[float64]) LayoutOutput {
	return LayoutOutput{Size: size}
}

// -- Margin Collapsing --

// CollapsibleMarginSet tracks the largest positive and the most negative
// margin among a set of adjoining margins.
type CollapsibleMarginSet struct {
	Positive float64
	Negative float64
}

// CollapseWithMargin adds a single margin to the set.
func (m CollapsibleMarginSet) CollapseWithMargin(margin float64) CollapsibleMarginSet {
	if margin > m.Positive {
		m.Positive = margin
	}
	if margin < m.Negative {
		m.Negative = margin
	}
	return m
}

// CollapseWithSet merges another set.
func (m CollapsibleMarginSet) CollapseWithSet(o CollapsibleMarginSet) CollapsibleMarginSet {
	return m.CollapseWithMargin(o.Positive).CollapseWithMargin(o.Negative)
}

// Resolve returns the collapsed margin.
func (m CollapsibleMarginSet) Resolve() float64 {
	return m.Positive + m.Negative
}
