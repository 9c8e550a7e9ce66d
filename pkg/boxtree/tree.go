// pkg/boxtree/tree.go
package boxtree

import (
	"slices"

	"github.com/xkilldash9x/boxlayout/pkg/layout"
	"go.uber.org/zap"
)

// NodeId is the handle type issued by a Tree. The low 32 bits are the slot
// index plus one and the high 32 bits the slot generation, so the zero
// value is never valid and handles to removed nodes are detected.
type NodeId = layout.NodeId

type node struct {
	style    layout.Style
	children []NodeId
	parent   NodeId
	measure  layout.MeasureFunc
	context  any

	cache     layout.Cache
	unrounded layout.Layout
	final     layout.Layout
	dirty     bool
}

type slot struct {
	gen  uint32
	node *node
}

// Tree is an arena of styled nodes that owns their layout results. It is
// not safe for concurrent use; lay out independent trees in parallel instead.
type Tree struct {
	slots    []slot
	free     []uint32
	rounding bool
	logger   *zap.Logger
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger routes tree diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger.Named("boxtree")
		}
	}
}

// WithCapacity preallocates room for n nodes.
func WithCapacity(n int) Option {
	return func(t *Tree) {
		t.slots = make([]slot, 0, n)
	}
}

// New returns an empty tree with rounding enabled.
func New(opts ...Option) *Tree {
	t := &Tree{rounding: true, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// UseRounding toggles snapping final layouts to whole pixels. Layout
// returns the unrounded geometry while it is off.
func (t *Tree) UseRounding(enabled bool) {
	t.rounding = enabled
}

// Len is the number of live nodes.
func (t *Tree) Len() int {
	return len(t.slots) - len(t.free)
}

// -- Node Creation --

// NewLeaf creates a childless node.
func (t *Tree) NewLeaf(style layout.Style) NodeId {
	return t.alloc(&node{style: style, dirty: true})
}

// NewLeafWithMeasure creates a leaf whose content is sized by fn.
func (t *Tree) NewLeafWithMeasure(style layout.Style, fn layout.MeasureFunc) NodeId {
	return t.alloc(&node{style: style, measure: fn, dirty: true})
}

// NewLeafWithContext creates a leaf carrying caller data for the measure
// function passed to ComputeLayoutWithMeasure.
func (t *Tree) NewLeafWithContext(style layout.Style, ctx any) NodeId {
	return t.alloc(&node{style: style, context: ctx, dirty: true})
}

// NewWithChildren creates a node and attaches children in order.
func (t *Tree) NewWithChildren(style layout.Style, children ...NodeId) (NodeId, error) {
	for _, c := range children {
		if _, err := t.get(c); err != nil {
			return 0, err
		}
	}
	id := t.alloc(&node{style: style, dirty: true})
	if err := t.SetChildren(id, children); err != nil {
		t.release(id)
		return 0, err
	}
	return id, nil
}

func (t *Tree) alloc(n *node) NodeId {
	if k := len(t.free); k > 0 {
		idx := t.free[k-1]
		t.free = t.free[:k-1]
		t.slots[idx].node = n
		return makeID(idx, t.slots[idx].gen)
	}
	t.slots = append(t.slots, slot{node: n})
	return makeID(uint32(len(t.slots)-1), 0)
}

func (t *Tree) release(id NodeId) {
	idx, _ := splitID(id)
	t.slots[idx].node = nil
	t.slots[idx].gen++
	t.free = append(t.free, idx)
}

func makeID(idx, gen uint32) NodeId {
	return NodeId(uint64(gen)<<32 | uint64(idx+1))
}

func splitID(id NodeId) (idx, gen uint32) {
	return uint32(id) - 1, uint32(uint64(id) >> 32)
}

func (t *Tree) get(id NodeId) (*node, error) {
	idx, gen := splitID(id)
	if uint32(id) == 0 || int(idx) >= len(t.slots) {
		return nil, &InvalidNodeError{Node: id}
	}
	s := t.slots[idx]
	if s.node == nil || s.gen != gen {
		return nil, &InvalidNodeError{Node: id}
	}
	return s.node, nil
}

// -- Structure --

// AddChild appends child to parent, detaching it from any previous parent.
func (t *Tree) AddChild(parent, child NodeId) error {
	p, err := t.get(parent)
	if err != nil {
		return err
	}
	return t.insert(parent, p, len(p.children), child)
}

// InsertChildAt inserts child at index, shifting later children right.
func (t *Tree) InsertChildAt(parent NodeId, index int, child NodeId) error {
	p, err := t.get(parent)
	if err != nil {
		return err
	}
	if index < 0 || index > len(p.children) {
		return &IndexError{Parent: parent, Index: index, Len: len(p.children)}
	}
	return t.insert(parent, p, index, child)
}

func (t *Tree) insert(parent NodeId, p *node, index int, child NodeId) error {
	c, err := t.get(child)
	if err != nil {
		return err
	}
	if t.isAncestorOrSelf(child, parent) {
		return ErrCycle
	}
	if old := c.parent; old != 0 {
		t.detach(old, child)
		t.markDirty(old)
		if old == parent && index > len(p.children) {
			index = len(p.children)
		}
	}
	p.children = slices.Insert(p.children, index, child)
	c.parent = parent
	t.markDirty(parent)
	return nil
}

// RemoveChild detaches child from parent. The child stays alive as a root.
func (t *Tree) RemoveChild(parent, child NodeId) error {
	p, err := t.get(parent)
	if err != nil {
		return err
	}
	c, err := t.get(child)
	if err != nil {
		return err
	}
	if c.parent != parent || !slices.Contains(p.children, child) {
		return &InvalidNodeError{Node: child}
	}
	t.detach(parent, child)
	t.markDirty(parent)
	return nil
}

// RemoveChildAt detaches and returns the child at index.
func (t *Tree) RemoveChildAt(parent NodeId, index int) (NodeId, error) {
	p, err := t.get(parent)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(p.children) {
		return 0, &IndexError{Parent: parent, Index: index, Len: len(p.children)}
	}
	child := p.children[index]
	t.detach(parent, child)
	t.markDirty(parent)
	return child, nil
}

// SetChildren replaces parent's child list. Previous children that are not
// in the new list become roots.
func (t *Tree) SetChildren(parent NodeId, children []NodeId) error {
	p, err := t.get(parent)
	if err != nil {
		return err
	}
	for i, c := range children {
		if _, err := t.get(c); err != nil {
			return err
		}
		if t.isAncestorOrSelf(c, parent) {
			return ErrCycle
		}
		if slices.Contains(children[:i], c) {
			return &InvalidNodeError{Node: c}
		}
	}
	for _, old := range p.children {
		t.slotNode(old).parent = 0
	}
	p.children = make([]NodeId, 0, len(children))
	for _, c := range children {
		n := t.slotNode(c)
		if old := n.parent; old != 0 && old != parent {
			t.detach(old, c)
			t.markDirty(old)
		}
		n.parent = parent
		p.children = append(p.children, c)
	}
	t.markDirty(parent)
	return nil
}

// Remove deletes node. Its children become roots and its handle, along with
// every copy of it, stops being valid.
func (t *Tree) Remove(id NodeId) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if n.parent != 0 {
		parent := n.parent
		t.detach(parent, id)
		t.markDirty(parent)
	}
	for _, c := range n.children {
		t.slotNode(c).parent = 0
	}
	t.release(id)
	return nil
}

// detach removes child from parent's list; both must be live.
func (t *Tree) detach(parent, child NodeId) {
	p := t.slotNode(parent)
	if i := slices.Index(p.children, child); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	t.slotNode(child).parent = 0
}

func (t *Tree) isAncestorOrSelf(candidate, id NodeId) bool {
	for cur := id; cur != 0; cur = t.slotNode(cur).parent {
		if cur == candidate {
			return true
		}
	}
	return false
}

// slotNode is get for handles already known to be live.
func (t *Tree) slotNode(id NodeId) *node {
	idx, _ := splitID(id)
	return t.slots[idx].node
}

// -- Queries --

// Children returns a copy of node's child list.
func (t *Tree) Children(id NodeId) ([]NodeId, error) {
	n, err := t.get(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(n.children), nil
}

// ChildCount is the number of direct children.
func (t *Tree) ChildCount(id NodeId) (int, error) {
	n, err := t.get(id)
	if err != nil {
		return 0, err
	}
	return len(n.children), nil
}

// Parent returns node's parent. ok is false for roots.
func (t *Tree) Parent(id NodeId) (parent NodeId, ok bool, err error) {
	n, err := t.get(id)
	if err != nil {
		return 0, false, err
	}
	return n.parent, n.parent != 0, nil
}

// Contains reports whether id refers to a live node.
func (t *Tree) Contains(id NodeId) bool {
	_, err := t.get(id)
	return err == nil
}

// -- Style and Context --

// Style returns a copy of node's style.
func (t *Tree) Style(id NodeId) (layout.Style, error) {
	n, err := t.get(id)
	if err != nil {
		return layout.Style{}, err
	}
	return n.style, nil
}

// SetStyle replaces node's style and invalidates cached layouts up to the root.
func (t *Tree) SetStyle(id NodeId, style layout.Style) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	n.style = style
	t.markDirty(id)
	return nil
}

// SetMeasure replaces node's measure function. nil removes it.
func (t *Tree) SetMeasure(id NodeId, fn layout.MeasureFunc) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	n.measure = fn
	t.markDirty(id)
	return nil
}

// SetNodeContext attaches caller data passed back to ComputeLayoutWithMeasure.
func (t *Tree) SetNodeContext(id NodeId, ctx any) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	n.context = ctx
	t.markDirty(id)
	return nil
}

// NodeContext returns the data attached with SetNodeContext.
func (t *Tree) NodeContext(id NodeId) (any, error) {
	n, err := t.get(id)
	if err != nil {
		return nil, err
	}
	return n.context, nil
}

// -- Dirty Tracking --

// MarkDirty invalidates node's cached layout and that of every ancestor.
// Nodes are marked automatically by every edit made through the Tree; call
// this when state a measure function reads changes outside it.
func (t *Tree) MarkDirty(id NodeId) error {
	if _, err := t.get(id); err != nil {
		return err
	}
	t.markDirty(id)
	return nil
}

func (t *Tree) markDirty(id NodeId) {
	for cur := id; cur != 0; {
		n := t.slotNode(cur)
		n.cache.Clear()
		n.dirty = true
		cur = n.parent
	}
}

// Dirty reports whether node changed since it was last laid out.
func (t *Tree) Dirty(id NodeId) (bool, error) {
	n, err := t.get(id)
	if err != nil {
		return false, err
	}
	return n.dirty, nil
}

// -- Layout --

// Layout returns node's geometry from the last ComputeLayout: rounded when
// rounding is enabled, unrounded otherwise.
func (t *Tree) Layout(id NodeId) (layout.Layout, error) {
	n, err := t.get(id)
	if err != nil {
		return layout.Layout{}, err
	}
	if t.rounding {
		return n.final, nil
	}
	return n.unrounded, nil
}

// UnroundedLayout returns node's geometry before rounding.
func (t *Tree) UnroundedLayout(id NodeId) (layout.Layout, error) {
	n, err := t.get(id)
	if err != nil {
		return layout.Layout{}, err
	}
	return n.unrounded, nil
}

// ContextMeasureFunc sizes leaves that have no measure function of their
// own. It receives the leaf's handle and context.
type ContextMeasureFunc func(known layout.Size[layout.Opt], available layout.Size[layout.AvailableSpace], id NodeId, ctx any) layout.Size[float64]

// ComputeLayout lays out the subtree under root within available.
func (t *Tree) ComputeLayout(root NodeId, available layout.Size[layout.AvailableSpace]) error {
	return t.ComputeLayoutWithMeasure(root, available, nil)
}

// ComputeLayoutWithMeasure is ComputeLayout with a fallback measure function
// for leaves that carry a context but no measure function. Cached results
// computed with a different fallback are not invalidated; call MarkDirty
// when the fallback changes what it returns.
func (t *Tree) ComputeLayoutWithMeasure(root NodeId, available layout.Size[layout.AvailableSpace], measure ContextMeasureFunc) error {
	if _, err := t.get(root); err != nil {
		t.logger.Warn("Layout requested for unknown root.", zap.Uint64("node", uint64(root)))
		return err
	}

	view := &engineView{tree: t, measure: measure}
	if err := layout.ComputeLayout(view, root, available); err != nil {
		t.logger.Warn("Layout failed.", zap.Uint64("root", uint64(root)), zap.Error(err))
		return err
	}
	if t.rounding {
		if err := layout.RoundLayout(view, root); err != nil {
			t.logger.Warn("Rounding failed.", zap.Uint64("root", uint64(root)), zap.Error(err))
			return err
		}
	}
	t.clearDirty(root)

	l := t.slotNode(root).unrounded
	t.logger.Debug("Layout computed.",
		zap.Uint64("root", uint64(root)),
		zap.Float64("width", l.Size.Width),
		zap.Float64("height", l.Size.Height),
	)
	return nil
}

func (t *Tree) clearDirty(id NodeId) {
	n := t.slotNode(id)
	n.dirty = false
	for _, c := range n.children {
		t.clearDirty(c)
	}
}
