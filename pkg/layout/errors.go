// pkg/layout/errors.go
package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidNode is wrapped by errors for handles the tree does not recognise.
var ErrInvalidNode = errors.New("invalid node id")

// LayoutError reports that the subtree under Node was not laid out. Layout
// values written before the failure must not be read.
type LayoutError struct {
	Node NodeId
	Err  error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout of node %d failed: %v", e.Node, e.Err)
}

func (e *LayoutError) Unwrap() error { return e.Err }

// invalidNodeReporter is implemented by tree errors that know which handle
// was rejected.
type invalidNodeReporter interface {
	InvalidNode() NodeId
}

// recoverInvalidNode turns a tree panic caused by an unknown handle into a
// *LayoutError naming that handle, or root when the error does not say.
// Any other panic is re-raised.
func recoverInvalidNode(root NodeId, err *error) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(error)
	if !ok || !errors.Is(e, ErrInvalidNode) {
		panic(r)
	}
	node := root
	var reporter invalidNodeReporter
	if errors.As(e, &reporter) {
		node = reporter.InvalidNode()
	}
	*err = &LayoutError{Node: node, Err: e}
}
