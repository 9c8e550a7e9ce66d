// -- internal/reporting/text.go --
package reporting

import (
	"bufio"
	"fmt"
	"io"
)

// TextReporter prints each result as a box tree under a header line.
type TextReporter struct {
	w       *bufio.Writer
	closer  io.Closer
	written int
}

// NewTextReporter creates a TextReporter that takes ownership of w.
func NewTextReporter(w io.WriteCloser) *TextReporter {
	return &TextReporter{w: bufio.NewWriter(w), closer: w}
}

func (r *TextReporter) Write(result *Result) error {
	if r.written > 0 {
		if err := r.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	r.written++

	if _, err := fmt.Fprintf(r.w, "=== %s (%s)\n", result.Name, result.Path); err != nil {
		return err
	}
	if result.Err != nil {
		_, err := fmt.Fprintf(r.w, "error: %v\n", result.Err)
		return err
	}
	return result.Tree.PrintTree(r.w, result.Root)
}

func (r *TextReporter) Close() error {
	if err := r.w.Flush(); err != nil {
		r.closer.Close()
		return err
	}
	return r.closer.Close()
}
