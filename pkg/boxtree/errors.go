// pkg/boxtree/errors.go
package boxtree

import (
	"errors"
	"fmt"

	"github.com/xkilldash9x/boxlayout/pkg/layout"
)

// ErrCycle is returned when an edit would make a node its own ancestor.
var ErrCycle = errors.New("boxtree: node would become its own ancestor")

// InvalidNodeError reports a handle that was never issued or whose node has
// been removed. It matches layout.ErrInvalidNode under errors.Is.
type InvalidNodeError struct {
	Node layout.NodeId
}

func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("boxtree: node %#x does not exist", uint64(e.Node))
}

func (e *InvalidNodeError) Unwrap() error { return layout.ErrInvalidNode }

// InvalidNode returns the rejected handle.
func (e *InvalidNodeError) InvalidNode() layout.NodeId { return e.Node }

// IndexError reports a child index outside a node's child list.
type IndexError struct {
	Parent layout.NodeId
	Index  int
	Len    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("boxtree: child index %d out of range for node %#x with %d children", e.Index, uint64(e.Parent), e.Len)
}
