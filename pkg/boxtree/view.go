// pkg/boxtree/view.go
package boxtree

import "github.com/xkilldash9x/boxlayout/pkg/layout"

// engineView exposes a Tree through the engine's storage contract for the
// duration of one ComputeLayoutWithMeasure call. Unknown handles panic with
// *InvalidNodeError, which the engine turns back into a returned error.
type engineView struct {
	tree    *Tree
	measure ContextMeasureFunc
}

var (
	_ layout.LayoutTree = (*engineView)(nil)
	_ layout.RoundTree  = (*engineView)(nil)
)

func (v *engineView) node(id NodeId) *node {
	n, err := v.tree.get(id)
	if err != nil {
		panic(err)
	}
	return n
}

func (v *engineView) ChildCount(id NodeId) int                 { return len(v.node(id).children) }
func (v *engineView) ChildAt(id NodeId, i int) NodeId          { return v.node(id).children[i] }
func (v *engineView) Style(id NodeId) layout.StyleView         { return &v.node(id).style }
func (v *engineView) Cache(id NodeId) *layout.Cache            { return &v.node(id).cache }
func (v *engineView) UnroundedLayout(id NodeId) *layout.Layout { return &v.node(id).unrounded }

func (v *engineView) SetUnroundedLayout(id NodeId, l *layout.Layout) { v.node(id).unrounded = *l }
func (v *engineView) SetFinalLayout(id NodeId, l *layout.Layout)     { v.node(id).final = *l }

func (v *engineView) MeasureFunc(id NodeId) layout.MeasureFunc {
	n := v.node(id)
	if n.measure != nil {
		return n.measure
	}
	if v.measure == nil || n.context == nil {
		return nil
	}
	ctx, fallback := n.context, v.measure
	return func(known layout.Size[layout.Opt], available layout.Size[layout.AvailableSpace]) layout.Size[float64] {
		return fallback(known, available, id, ctx)
	}
}
