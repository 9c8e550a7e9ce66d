// -- internal/reporting/json.go --
package reporting

import (
	"bufio"
	"io"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/xkilldash9x/boxlayout/pkg/boxtree"
)

// Document is the JSON form of a Result.
type Document struct {
	RunID string `json:"run_id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
	Root  *Node  `json:"root,omitempty"`
}

// Node is one laid out box. Coordinates are relative to the parent's
// content box.
type Node struct {
	ID            string  `json:"id,omitempty"`
	Node          uint64  `json:"node"`
	Display       string  `json:"display"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	ContentWidth  float64 `json:"content_width"`
	ContentHeight float64 `json:"content_height"`
	Children      []*Node `json:"children,omitempty"`
}

// Snapshot copies the final layout of the subtree at root.
func Snapshot(tree *boxtree.Tree, root boxtree.NodeId, names map[boxtree.NodeId]string) (*Node, error) {
	l, err := tree.Layout(root)
	if err != nil {
		return nil, err
	}
	style, err := tree.Style(root)
	if err != nil {
		return nil, err
	}
	n := &Node{
		ID:            names[root],
		Node:          uint64(root),
		Display:       strings.ToLower(style.Display.String()),
		X:             l.Location.X,
		Y:             l.Location.Y,
		Width:         l.Size.Width,
		Height:        l.Size.Height,
		ContentWidth:  l.ContentSize.Width,
		ContentHeight: l.ContentSize.Height,
	}
	children, err := tree.Children(root)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		child, err := Snapshot(tree, c, names)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// NewDocument converts a result into its JSON form.
func NewDocument(result *Result) (*Document, error) {
	doc := &Document{RunID: result.RunID, Name: result.Name, Path: result.Path}
	if result.Err != nil {
		doc.Error = result.Err.Error()
		return doc, nil
	}
	root, err := Snapshot(result.Tree, result.Root, result.Names)
	if err != nil {
		return nil, err
	}
	doc.Root = root
	return doc, nil
}

// JSONReporter writes one Document per line.
type JSONReporter struct {
	w      *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONReporter creates a JSONReporter that takes ownership of w.
func NewJSONReporter(w io.WriteCloser) *JSONReporter {
	bw := bufio.NewWriter(w)
	return &JSONReporter{w: bw, enc: json.NewEncoder(bw), closer: w}
}

func (r *JSONReporter) Write(result *Result) error {
	doc, err := NewDocument(result)
	if err != nil {
		return err
	}
	return r.enc.Encode(doc)
}

func (r *JSONReporter) Close() error {
	if err := r.w.Flush(); err != nil {
		r.closer.Close()
		return err
	}
	return r.closer.Close()
}
