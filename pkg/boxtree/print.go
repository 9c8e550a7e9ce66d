// pkg/boxtree/print.go
package boxtree

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xkilldash9x/boxlayout/pkg/layout"
)

// PrintTree writes an indented outline of the subtree under root with each
// node's kind, location, size and content size.
func (t *Tree) PrintTree(w io.Writer, root NodeId) error {
	if _, err := t.get(root); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "TREE")
	t.printNode(bw, root, "", true)
	return bw.Flush()
}

func (t *Tree) printNode(w io.Writer, id NodeId, prefix string, last bool) {
	n := t.slotNode(id)
	l, _ := t.Layout(id)

	branch, indent := "├── ", "│   "
	if last {
		branch, indent = "└── ", "    "
	}
	fmt.Fprintf(w, "%s%s%s [x: %s y: %s w: %s h: %s content: %sx%s] (#%d)\n",
		prefix, branch, nodeKind(n),
		num(l.Location.X), num(l.Location.Y),
		num(l.Size.Width), num(l.Size.Height),
		num(l.ContentSize.Width), num(l.ContentSize.Height),
		uint64(id),
	)
	for i, c := range n.children {
		t.printNode(w, c, prefix+indent, i == len(n.children)-1)
	}
}

func nodeKind(n *node) string {
	switch d := n.style.Display; {
	case d == layout.DisplayNone || d == layout.DisplayContents:
		return d.String()
	case len(n.children) == 0:
		return "LEAF"
	default:
		return d.String()
	}
}

// num prints v with at most three decimals and no trailing zeros.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
