// -- internal/reporting/reporter.go --
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/xkilldash9x/boxlayout/pkg/boxtree"
)

// Result is the outcome of laying out one fixture. On failure Err is set
// and Tree may be nil.
type Result struct {
	RunID string
	Name  string
	Path  string
	Tree  *boxtree.Tree
	Root  boxtree.NodeId
	// Names maps nodes back to their fixture ids.
	Names map[boxtree.NodeId]string
	Err   error
}

// Reporter defines the interface for writing layout results to an output.
type Reporter interface {
	// Write renders a single result.
	Write(result *Result) error
	// Close flushes the report and releases the output.
	Close() error
}

type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for format writing to outputPath, or stdout when
// outputPath is empty or "stdout".
func New(format, outputPath string) (Reporter, error) {
	if !supported(format) {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	if outputPath == "" || outputPath == "stdout" {
		return NewWithWriter(format, &nopWriteCloser{os.Stdout})
	}

	expanded, err := homedir.Expand(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand output path %s: %w", outputPath, err)
	}
	f, err := os.Create(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", expanded, err)
	}
	return NewWithWriter(format, f)
}

// NewWithWriter creates a reporter that takes ownership of w.
func NewWithWriter(format string, w io.WriteCloser) (Reporter, error) {
	switch format {
	case "text":
		return NewTextReporter(w), nil
	case "json":
		return NewJSONReporter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func supported(format string) bool {
	return format == "text" || format == "json"
}
